package models

import (
	"fmt"
	"strconv"
)

// Record is one grid row as exchanged with the GraphQL backend.
type Record map[string]interface{}

// Patch is a dirty row ready for a bulk mutation. It carries CUFlag.
type Patch = Record

// Patch change flags.
const (
	FlagField  = "cuFlag"
	FlagCreate = "+"
	FlagUpdate = "M"
)

// ID returns the persisted id of the record, if it has one.
func (r Record) ID() (interface{}, bool) {
	v, ok := r["id"]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, false
	}
	return v, true
}

// IDString renders the id for use in filter values and logs.
func (r Record) IDString() string {
	v, ok := r.ID()
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// Clone deep-copies nested objects and lists so the copy can be rewritten
// without touching the grid's rows.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Record:
		return map[string]interface{}(t.Clone())
	case map[string]interface{}:
		return map[string]interface{}(Record(t).Clone())
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Filter is one search predicate as the backend list queries expect it.
type Filter struct {
	Name     string      `json:"name"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Sorter orders a list query. Desc is omitted when false.
type Sorter struct {
	Name string `json:"name"`
	Desc bool   `json:"desc,omitempty"`
}

// Pagination selects a page of a list query.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListResult is what a fetch hands back to the grid.
type ListResult struct {
	Total   int      `json:"total"`
	Records []Record `json:"records"`
}

// Code is one entry of a common code table, such as PRODUCT_TYPES.
type Code struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
