package screens

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"catalog-admin/models"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// CoerceNumbers converts the listed fields of a patch to float64. Absent
// fields stay absent. Strings are parsed from their leading number, so
// "12.5kg" becomes 12.5; anything unparseable becomes nil.
func CoerceNumbers(patch models.Patch, fields ...string) {
	for _, f := range fields {
		v, ok := patch[f]
		if !ok {
			continue
		}
		patch[f] = toFloat(v)
	}
}

func toFloat(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return f
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(t))
		if m == "" {
			return nil
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}

// StripNested removes sub-fields from nested reference objects of a patch.
func StripNested(patch models.Patch, strip map[string][]string) {
	for field, subs := range strip {
		obj, ok := patch[field].(map[string]interface{})
		if !ok {
			continue
		}
		for _, s := range subs {
			delete(obj, s)
		}
	}
}
