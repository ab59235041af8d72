package imex

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"catalog-admin/models"
)

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// FormatFromFilename picks the decoder from an upload's extension.
func FormatFromFilename(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported file type %q", filepath.Ext(name))
}

// Encode renders an exportable in the requested format.
func Encode(format, sheet string, e *Exportable) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return EncodeXLSX(sheet, e)
	case FormatCSV:
		return EncodeCSV(e)
	case FormatJSON, "":
		return json.Marshal(e)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Decode parses an uploaded spreadsheet into records keyed by imex key.
// JSON uploads are either a bare array of records or an exportable payload.
func Decode(format string, r io.Reader, header []models.Imex) ([]models.Record, error) {
	switch format {
	case FormatXLSX:
		return DecodeXLSX(r, header)
	case FormatCSV:
		return DecodeCSV(r, header)
	case FormatJSON:
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		var records []models.Record
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		var e Exportable
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode json import: %w", err)
		}
		records = make([]models.Record, 0, len(e.Data))
		for _, row := range e.Data {
			rec := models.Record{}
			for k, v := range row {
				setPath(rec, k, v)
			}
			records = append(records, rec)
		}
		return records, nil
	}
	return nil, fmt.Errorf("unsupported import format %q", format)
}
