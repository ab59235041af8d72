package grid

import (
	"fmt"
	"strings"
	"sync"

	"catalog-admin/models"
)

// Search operators understood by the backend list queries.
const (
	OperEq     = "eq"
	OperNotEq  = "noteq"
	OperLike   = "like"
	OperILike  = "i_like"
	OperIn     = "in"
	OperIsNull = "is_null"
)

// SearchForm holds the field definitions of a screen and what the user typed.
type SearchForm struct {
	mu     sync.Mutex
	fields []models.SearchField
	values map[string]interface{}
}

func NewSearchForm(fields []models.SearchField) *SearchForm {
	return &SearchForm{
		fields: fields,
		values: make(map[string]interface{}),
	}
}

func (f *SearchForm) Fields() []models.SearchField {
	return f.fields
}

// Set stores the value of one field. Unknown names are rejected.
func (f *SearchForm) Set(name string, value interface{}) error {
	for _, field := range f.fields {
		if field.Name == name {
			f.mu.Lock()
			f.values[name] = value
			f.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown search field %q", name)
}

// SetValues replaces all values.
func (f *SearchForm) SetValues(values map[string]interface{}) error {
	f.mu.Lock()
	f.values = make(map[string]interface{}, len(values))
	f.mu.Unlock()
	for name, v := range values {
		if err := f.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// QueryFilters turns the entered values into filters, in field order.
// Empty values are skipped. Like operators wrap the value in % unless the
// user already placed a wildcard. Object fields filter by the picked id.
func (f *SearchForm) QueryFilters() []models.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()

	filters := make([]models.Filter, 0, len(f.values))
	for _, field := range f.fields {
		v, ok := f.values[field.Name]
		if !ok || isEmpty(v) {
			continue
		}

		oper := field.Props.SearchOper
		if oper == "" {
			oper = OperEq
		}

		if field.Type == models.ColumnObject {
			if obj, isObj := v.(map[string]interface{}); isObj {
				id, hasID := models.Record(obj).ID()
				if !hasID {
					continue
				}
				v = id
			}
		}

		if s, isString := v.(string); isString && (oper == OperLike || oper == OperILike) {
			if !strings.Contains(s, "%") {
				v = "%" + s + "%"
			}
		}

		filters = append(filters, models.Filter{Name: field.Name, Operator: oper, Value: v})
	}
	return filters
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	}
	return false
}
