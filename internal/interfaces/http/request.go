package http

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

// maxAttachmentSize límite por archivo adjunto.
const maxAttachmentSize = 10 << 20

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// parseBody decodifica JSON o, en multipart, el campo "data" con el mismo JSON.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if !isMultipart(c) {
		if err := c.BodyParser(dst); err != nil {
			return domain.Invalid("body", "cuerpo inválido")
		}
		return nil
	}
	data := c.FormValue("data")
	if data == "" {
		return domain.Invalid("data", "campo requerido en multipart")
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return domain.Invalid("data", "JSON inválido")
	}
	return nil
}

// attachment lee el archivo field de un multipart; nil si no viene.
func attachment(c *fiber.Ctx, field string) (*workflow.Attachment, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.Invalid(field, "multipart inválido")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	if fh.Size > maxAttachmentSize {
		return nil, domain.Invalid(field, fmt.Sprintf("supera %d MB", maxAttachmentSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir adjunto %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize))
	if err != nil {
		return nil, fmt.Errorf("leer adjunto %s: %w", field, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	return &workflow.Attachment{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
