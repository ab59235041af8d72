package imex

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-admin/models"

	"github.com/itchyny/gojq"
	"go.uber.org/zap"
)

// Projector resolves dotted keys like "productRef.name" against records.
// Keys are compiled once into jq path expressions.
type Projector struct {
	codes map[string]*gojq.Code
}

func NewProjector(keys []string) (*Projector, error) {
	p := &Projector{codes: make(map[string]*gojq.Code, len(keys))}
	for _, k := range keys {
		if _, ok := p.codes[k]; ok {
			continue
		}
		query, err := gojq.Parse(pathExpr(k))
		if err != nil {
			return nil, fmt.Errorf("parse key %q: %w", k, err)
		}
		code, err := gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("compile key %q: %w", k, err)
		}
		p.codes[k] = code
	}
	return p, nil
}

// pathExpr turns a.b.c into ."a"."b"."c" so any key text is safe.
func pathExpr(key string) string {
	var sb strings.Builder
	for _, part := range strings.Split(key, ".") {
		q, _ := json.Marshal(part)
		sb.WriteByte('.')
		sb.Write(q)
	}
	return sb.String()
}

// Lookup returns the value at key, or nil when any step is missing or not an
// object.
func (p *Projector) Lookup(rec models.Record, key string) interface{} {
	return p.Project(rec, key)[key]
}

// Project resolves every key against one record.
func (p *Projector) Project(rec models.Record, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		out[k] = nil
	}
	if rec == nil {
		return out
	}
	input, err := normalize(rec)
	if err != nil {
		zap.L().Debug("Record is not JSON-compatible", zap.Error(err))
		return out
	}
	for _, k := range keys {
		out[k] = p.run(k, input)
	}
	return out
}

func (p *Projector) run(key string, input interface{}) interface{} {
	code, ok := p.codes[key]
	if !ok {
		return nil
	}
	iter := code.Run(input)
	v, ok := iter.Next()
	if !ok {
		return nil
	}
	if _, isErr := v.(error); isErr {
		return nil
	}
	return v
}

// normalize converts a record into the plain map/slice/float64 shapes jq expects.
func normalize(rec models.Record) (interface{}, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
