package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
)

// seedRow fila del archivo de carga.
type seedRow struct {
	Name      string
	Category  string `validate:"category"`
	Price     decimal.Decimal
	Available int64
}

func readRows(path string) ([]seedRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	case ".csv":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			records, err = readCSV(data)
		}
	default:
		return nil, fmt.Errorf("formato no soportado: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return parseRecords(records)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(f.GetSheetName(0))
}

// readCSV acepta coma o punto y coma como separador y UTF-8 o ISO-8859-1.
func readCSV(data []byte) ([][]string, error) {
	var in io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	if first, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		r.Comma = ';'
	}
	return r.ReadAll()
}

func parseRecords(records [][]string) ([]seedRow, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("el archivo no tiene filas de datos")
	}
	out := make([]seedRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 4 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(rec[2], ",", ".")))
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio %q inválido", line, rec[2])
		}
		available, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err != nil || available < 0 {
			return nil, fmt.Errorf("fila %d: disponible %q inválido", line, rec[3])
		}
		row := seedRow{
			Name:      strings.TrimSpace(rec[0]),
			Category:  strings.TrimSpace(rec[1]),
			Price:     price,
			Available: available,
		}
		if err := validation.Struct(row); err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		if err := validation.NonNegative("price", row.Price); err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}
