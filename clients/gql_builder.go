package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Arg is one named argument of a GraphQL field.
type Arg struct {
	Name  string
	Value interface{}
}

// BuildArgs renders arguments as GraphQL literals, e.g.
//
//	filters: [{name: "name", operator: "i_like", value: "%bolt%"}], pagination: {limit: 20, page: 1}
//
// Object keys are emitted unquoted and sorted. Arguments with a nil value are
// omitted; nil values nested inside objects or lists are rendered as null.
func BuildArgs(args ...Arg) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a.Value == nil {
			continue
		}
		lit, err := Literal(a.Value)
		if err != nil {
			return "", fmt.Errorf("argument %s: %w", a.Name, err)
		}
		parts = append(parts, a.Name+": "+lit)
	}
	return strings.Join(parts, ", "), nil
}

// Literal renders a single value as a GraphQL input literal. Any value that
// encoding/json can marshal is accepted.
func Literal(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return "", err
	}
	var sb strings.Builder
	writeLiteral(&sb, generic)
	return sb.String(), nil
}

func writeLiteral(sb *strings.Builder, v interface{}) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case json.Number:
		sb.WriteString(t.String())
	case string:
		q, _ := json.Marshal(t)
		sb.Write(q)
	case []interface{}:
		sb.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLiteral(sb, item)
		}
		sb.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			writeLiteral(sb, t[k])
		}
		sb.WriteByte('}')
	}
}
