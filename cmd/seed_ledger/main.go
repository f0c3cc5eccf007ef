// seed_ledger carga el inventario inicial en el libro a partir de una hoja de cálculo.
//
// Uso: go run ./cmd/seed_ledger [ruta/inventario.xlsx|inventario.csv]
// Columnas: nombre, categoría, precio, disponible. La primera fila es el encabezado.
// Los CSV exportados desde Excel en Windows suelen venir en ISO-8859-1; se detecta y convierte.
// Si ya existe una fila con el mismo (nombre, categoría) se suma el disponible y se actualiza el precio.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/ledger"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Aprobaciones-api/pkg/config"
	"github.com/jhoicas/Aprobaciones-api/pkg/logger"
)

func main() {
	path := "inventario.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed_ledger"})

	rows, err := readRows(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer archivo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
	}

	var created, merged int
	err = postgres.NewTxRunner(pool).Run(ctx, func(r workflow.Repos) error {
		now := time.Now()
		for _, row := range rows {
			item, err := r.Ledger.GetByKeyForUpdate(ctx, ledger.NameKey(row.Name), row.Category)
			switch {
			case err == nil:
				item.Available += row.Available
				item.Price = row.Price
				item.UpdatedAt = now
				if err := r.Ledger.Save(ctx, item); err != nil {
					return err
				}
				merged++
			case errors.Is(err, domain.ErrNotFound):
				if err := r.Ledger.Create(ctx, &entity.LedgerItem{
					ID:        uuid.New().String(),
					Name:      row.Name,
					NameKey:   ledger.NameKey(row.Name),
					Category:  row.Category,
					Price:     row.Price,
					Available: row.Available,
					CreatedAt: now,
					UpdatedAt: now,
				}); err != nil {
					return err
				}
				created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cargar libro")
	}
	log.Info().Int("created", created).Int("merged", merged).Str("file", path).Msg("inventario cargado")
}
