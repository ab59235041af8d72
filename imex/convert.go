package imex

import (
	"strconv"
	"strings"

	"catalog-admin/models"
)

// cellValue turns a cell into the typed value for a column. An "array" column
// maps its display name to the stored id through arrData.
func cellValue(h models.Imex, raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	switch h.Type {
	case models.ColumnNumber, models.ColumnFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return f
	case models.ColumnInt:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return float64(int64(f))
	case "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil
		}
		return b
	case "array":
		for _, opt := range h.ArrData {
			if opt.Name == raw || opt.ID == raw {
				return opt.ID
			}
		}
		return raw
	default:
		return raw
	}
}

// cellText renders a value for a spreadsheet cell. "array" columns show the
// display name of the stored id.
func cellText(h models.Imex, v interface{}) string {
	if v == nil {
		return ""
	}
	s := toString(v)
	if h.Type == "array" {
		for _, opt := range h.ArrData {
			if opt.ID == s {
				return opt.Name
			}
		}
	}
	return s
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(strings.Trim(fmtJSON(v), `"`))
	}
}

// setPath writes v at a dotted key, creating intermediate objects.
func setPath(rec models.Record, key string, v interface{}) {
	parts := strings.Split(key, ".")
	cur := map[string]interface{}(rec)
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}
