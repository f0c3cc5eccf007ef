package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos; BOM, cronograma, equipo y aprobadores se guardan como JSONB.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, name, cost_center, details, document_ref, costing_ref, bom, timeline, team, approvers,
	status, submitted_by, submission_date, checked_by, approved_by, last_editor, last_editor_role,
	last_edit_date, updated_at`

type projectDocs struct {
	bom, timeline, team, approvers []byte
}

func encodeProjectDocs(p *entity.Project) (projectDocs, error) {
	var d projectDocs
	var err error
	if d.bom, err = json.Marshal(nonNil(p.BOM)); err != nil {
		return d, fmt.Errorf("encode bom: %w", err)
	}
	if d.timeline, err = json.Marshal(nonNil(p.Timeline)); err != nil {
		return d, fmt.Errorf("encode timeline: %w", err)
	}
	if d.team, err = json.Marshal(nonNil(p.Team)); err != nil {
		return d, fmt.Errorf("encode team: %w", err)
	}
	if d.approvers, err = json.Marshal(nonNil(p.Approvers)); err != nil {
		return d, fmt.Errorf("encode approvers: %w", err)
	}
	return d, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	var d projectDocs
	var status string
	var docRef, costingRef, checkedBy, approvedBy, lastEditor, lastEditorRole *string
	var lastEdit *time.Time
	err := row.Scan(&p.ID, &p.Name, &p.CostCenter, &p.Details, &docRef, &costingRef,
		&d.bom, &d.timeline, &d.team, &d.approvers,
		&status, &p.SubmittedBy, &p.SubmissionDate, &checkedBy, &approvedBy,
		&lastEditor, &lastEditorRole, &lastEdit, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, dec := range []struct {
		raw []byte
		dst any
	}{{d.bom, &p.BOM}, {d.timeline, &p.Timeline}, {d.team, &p.Team}, {d.approvers, &p.Approvers}} {
		if err := json.Unmarshal(dec.raw, dec.dst); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", p.ID, err)
		}
	}
	p.Status = entity.ApprovalStatus(status)
	p.DocumentRef = deref(docRef)
	p.CostingRef = deref(costingRef)
	p.CheckedBy = deref(checkedBy)
	p.ApprovedBy = deref(approvedBy)
	p.LastEditor = deref(lastEditor)
	p.LastEditorRole = deref(lastEditorRole)
	p.LastEditDate = lastEdit
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	d, err := encodeProjectDocs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(ctx, query,
		p.ID, p.Name, p.CostCenter, p.Details, nullIfEmpty(p.DocumentRef), nullIfEmpty(p.CostingRef),
		d.bom, d.timeline, d.team, d.approvers,
		string(p.Status), p.SubmittedBy, p.SubmissionDate, nullIfEmpty(p.CheckedBy), nullIfEmpty(p.ApprovedBy),
		nullIfEmpty(p.LastEditor), nullIfEmpty(p.LastEditorRole), p.LastEditDate, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get project: %w", notFound(err, domain.ErrNotFound))
	}
	return p, nil
}

// GetForUpdate bloquea la fila del proyecto (el estado de origen se revalida dentro de la tx).
func (r *ProjectRepo) GetForUpdate(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get project for update: %w", notFound(err, domain.ErrNotFound))
	}
	return p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	d, err := encodeProjectDocs(p)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE projects SET
			name = $2, cost_center = $3, details = $4, document_ref = $5, costing_ref = $6,
			bom = $7, timeline = $8, team = $9, approvers = $10,
			status = $11, checked_by = $12, approved_by = $13,
			last_editor = $14, last_editor_role = $15, last_edit_date = $16, updated_at = $17
		WHERE id = $1`,
		p.ID, p.Name, p.CostCenter, p.Details, nullIfEmpty(p.DocumentRef), nullIfEmpty(p.CostingRef),
		d.bom, d.timeline, d.team, d.approvers,
		string(p.Status), nullIfEmpty(p.CheckedBy), nullIfEmpty(p.ApprovedBy),
		nullIfEmpty(p.LastEditor), nullIfEmpty(p.LastEditorRole), p.LastEditDate, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return affected(tag)
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return affected(tag)
}

// List más recientes primero; filtros vacíos no filtran.
func (r *ProjectRepo) List(ctx context.Context, f repository.ProjectFilter, limit, offset int) ([]*entity.Project, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR submitted_by = $2) AND ($3 = '' OR cost_center = $3)
		ORDER BY submission_date DESC
		LIMIT NULLIF($4::int, 0) OFFSET $5`,
		string(f.Status), f.SubmittedBy, f.CostCenter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
