package imex

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"catalog-admin/models"

	"github.com/xuri/excelize/v2"
)

const idHeader = "id"

// EncodeXLSX writes the exportable as a single sheet: a bold header row with
// an id column first, then one row per record.
func EncodeXLSX(sheet string, e *Exportable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}

	headers := append([]string{idHeader}, headerTitles(e.Header)...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range e.Data {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(sheet, cell, toString(row["id"])); err != nil {
			return nil, err
		}
		for c, h := range e.Header {
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			if err := f.SetCellValue(sheet, cell, xlsxValue(h, row[h.Key])); err != nil {
				return nil, err
			}
		}
	}

	for c, h := range e.Header {
		col, _ := excelize.ColumnNumberToName(c + 2)
		if err := f.SetColWidth(sheet, col, col, columnWidth(h.Width)); err != nil {
			return nil, err
		}
	}
	if err := f.SetColVisible(sheet, "A", false); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeXLSX reads the first sheet. The header row is matched against the
// imex headers (or keys); unknown columns are ignored.
func DecodeXLSX(r io.Reader, header []models.Imex) ([]models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return decodeRows(rows, header)
}

func decodeRows(rows [][]string, header []models.Imex) ([]models.Record, error) {
	if len(rows) == 0 {
		return []models.Record{}, nil
	}

	idCol := -1
	cols := make(map[int]models.Imex)
	for i, title := range rows[0] {
		title = strings.TrimSpace(title)
		if strings.EqualFold(title, idHeader) {
			idCol = i
			continue
		}
		for _, h := range header {
			if title == h.Header || title == h.Key {
				cols[i] = h
				break
			}
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no known columns in header row")
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := models.Record{}
		empty := true
		for i, cell := range row {
			if i == idCol {
				if id := strings.TrimSpace(cell); id != "" {
					rec["id"] = id
					empty = false
				}
				continue
			}
			h, ok := cols[i]
			if !ok {
				continue
			}
			v := cellValue(h, cell)
			if v == nil {
				continue
			}
			setPath(rec, h.Key, v)
			empty = false
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func headerTitles(header []models.Imex) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = h.Header
		if out[i] == "" {
			out[i] = h.Key
		}
	}
	return out
}

// xlsxValue keeps numbers numeric in the sheet.
func xlsxValue(h models.Imex, v interface{}) interface{} {
	switch v.(type) {
	case float64, int, int64, bool:
		if h.Type != "array" {
			return v
		}
	}
	return cellText(h, v)
}

// columnWidth converts grid pixels to spreadsheet character widths.
func columnWidth(px int) float64 {
	if px <= 0 {
		return 15
	}
	w := float64(px) / 7
	if w < 8 {
		w = 8
	}
	return w
}

func fmtJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
