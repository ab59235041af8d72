// Package imex converts grid rows to and from spreadsheet payloads.
package imex

import (
	"fmt"

	"catalog-admin/models"
)

// Formats understood by Encode and Decode.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Exportable is the {header, data} payload handed to the export dialog.
type Exportable struct {
	Header []models.Imex             `json:"header"`
	Data   []map[string]interface{} `json:"data"`
}

// Columns returns the columns that take part in import and export: every
// non-gutter column carrying both record config and imex metadata.
func Columns(cfg models.GridConfig) []models.Column {
	out := make([]models.Column, 0, len(cfg.Columns))
	for _, c := range cfg.Columns {
		if c.Type == models.ColumnGutter || c.Record == nil || c.Imex == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Headers returns the imex metadata of the columns.
func Headers(columns []models.Column) []models.Imex {
	out := make([]models.Imex, 0, len(columns))
	for _, c := range columns {
		if c.Imex != nil {
			out = append(out, *c.Imex)
		}
	}
	return out
}

// Build projects records through the imex keys of columns. Each row carries
// the record id plus one value per key, looked up by dotted path.
func Build(columns []models.Column, records []models.Record) (*Exportable, error) {
	header := Headers(columns)
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = h.Key
	}

	p, err := NewProjector(keys)
	if err != nil {
		return nil, fmt.Errorf("compile export keys: %w", err)
	}

	data := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		row := p.Project(rec, keys...)
		row["id"] = rec["id"]
		data = append(data, row)
	}

	return &Exportable{Header: header, Data: data}, nil
}
