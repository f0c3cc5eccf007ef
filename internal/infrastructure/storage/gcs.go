// Package storage guarda los documentos adjuntos (detalle de proyecto, hoja de costos,
// factura escaneada). El núcleo solo persiste la referencia devuelta por Put.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
)

// GCS implementa workflow.DocumentStore sobre un bucket de Cloud Storage.
type GCS struct {
	client *storage.Client
	bucket string
}

var _ workflow.DocumentStore = (*GCS)(nil)

// NewGCS abre el cliente con ADC o, si está definida, GCS_CREDENTIALS_JSON.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	var opts []option.ClientOption
	if credJSON := strings.TrimSpace(os.Getenv("GCS_CREDENTIALS_JSON")); credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cliente gcs: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("bucket %q no accesible: %w", bucket, err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Put sube data y devuelve gs://bucket/objeto.
func (g *GCS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := ObjectName(name)
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("subir %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("cerrar %s: %w", object, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, object), nil
}

// Close libera el cliente.
func (g *GCS) Close() error {
	return g.client.Close()
}

// ObjectName normaliza el nombre del objeto: sin barras iniciales ni espacios.
func ObjectName(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	return strings.ReplaceAll(name, " ", "_")
}
