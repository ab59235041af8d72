package imex

import (
	"context"

	"catalog-admin/models"
)

// ImportConfig is what a screen passes to the import dialog.
type ImportConfig struct {
	Rows    models.RowsConfig `json:"rows"`
	Columns []models.Column   `json:"columns"`
}

// PreviewDialog is the non-interactive import dialog used by the HTTP API and
// the import worker: the caller has already reviewed the rows, so Open only
// turns them into patches and reports the caller's decision.
type PreviewDialog struct {
	Confirmed bool
}

func (d PreviewDialog) Open(ctx context.Context, records []models.Record, cfg ImportConfig) ([]models.Patch, bool, error) {
	if !d.Confirmed {
		return nil, false, nil
	}
	return ToPatches(records, cfg.Columns), true, nil
}

// ToPatches keeps only the id and the imex columns of each record and sets
// cuFlag from whether the row has a persisted id. A reference without an id
// cannot be resolved by the backend and is left out; a record left with no
// fields produces no patch.
func ToPatches(records []models.Record, columns []models.Column) []models.Patch {
	roots := make(map[string]string, len(columns))
	for _, c := range columns {
		roots[c.Name] = c.Type
	}

	patches := make([]models.Patch, 0, len(records))
	for _, rec := range records {
		patch := models.Patch{}
		for k, v := range rec {
			typ, ok := roots[k]
			if !ok {
				continue
			}
			if typ == models.ColumnObject && !isReference(v) {
				continue
			}
			patch[k] = v
		}
		if len(patch) == 0 {
			continue
		}
		patch = patch.Clone()
		if id, ok := rec.ID(); ok {
			patch["id"] = id
			patch[models.FlagField] = models.FlagUpdate
		} else {
			patch[models.FlagField] = models.FlagCreate
		}
		patches = append(patches, patch)
	}
	return patches
}

func isReference(v interface{}) bool {
	ref, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = models.Record(ref).ID()
	return ok
}
