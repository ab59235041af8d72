package screens

import (
	"catalog-admin/grid"
	"catalog-admin/models"
)

// RowHandler adjusts a column when a row is activated. active is nil when
// the active row was cleared.
type RowHandler func(col *models.Column, active models.Record)

// RowHandlers maps column names to their row-click handler.
type RowHandlers map[string]RowHandler

func (h RowHandlers) bind(g *grid.Grid) {
	if len(h) == 0 {
		return
	}
	g.OnRowClick(func(row int, rec models.Record) {
		g.UpdateConfig(func(cfg *models.GridConfig) {
			for name, fn := range h {
				if col := cfg.Column(name); col != nil {
					fn(col, rec)
				}
			}
		})
	})
}

// ExcludeSelf keeps a self-referencing picker from offering the active row:
// while a persisted row is active the picker filters out its id, otherwise
// the filter is removed.
func ExcludeSelf(col *models.Column, active models.Record) {
	if col.Record == nil || col.Record.Options == nil {
		return
	}
	id, ok := active.ID()
	if !ok {
		col.Record.Options.BasicArgs = nil
		return
	}
	col.Record.Options.BasicArgs = &models.BasicArgs{
		Filters: []models.Filter{{Name: "id", Operator: grid.OperNotEq, Value: id}},
	}
}
