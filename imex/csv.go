package imex

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"catalog-admin/models"
)

// EncodeCSV writes the same layout as EncodeXLSX: id first, then the imex columns.
func EncodeCSV(e *Exportable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(append([]string{idHeader}, headerTitles(e.Header)...)); err != nil {
		return nil, err
	}
	for _, row := range e.Data {
		line := make([]string, 0, len(e.Header)+1)
		line = append(line, toString(row["id"]))
		for _, h := range e.Header {
			line = append(line, cellText(h, row[h.Key]))
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV reads a CSV whose first row holds the column headers.
func DecodeCSV(r io.Reader, header []models.Imex) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return decodeRows(rows, header)
}
