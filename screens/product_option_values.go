package screens

import (
	"context"

	"catalog-admin/grid"
	"catalog-admin/models"
)

const (
	TagProductOptionValues = "product-option-values"
	ParamProductOptionID   = "productOptionId"
)

// NewProductOptionValues builds the value list of one product option. Every
// fetch is scoped to the option and every saved patch points back at it.
func NewProductOptionValues(ctx context.Context, host Host, productOptionID string) *Controller {
	def := Definition{
		Tag:            TagProductOptionValues,
		Title:          "Product Option Value",
		QueryName:      "productOptionValues",
		UpdateMutation: "updateMultipleProductOptionValue",
		UpdateEcho:     []string{"name", "description"},
		DeleteMutation: "deleteProductOptionValues",
		DefaultSort:    []models.Sorter{{Name: "name"}},
		Search: []models.SearchField{
			searchText("name", "Name"),
			searchText("description", "Description"),
		},
		Selection: append([]string{"id", "name", "description"}, auditSelection...),
		Grid: models.GridConfig{
			Rows: models.RowsConfig{Selectable: &models.Selectable{Multiple: true}},
			Columns: columns(
				gutters(),
				[]models.Column{
					textColumn("name", "Name", 180),
					textColumn("description", "Description", 240),
				},
				auditColumns(),
			),
		},
	}

	c := newController(def, host, nil)
	c.scope = func() []models.Filter {
		return []models.Filter{{Name: "productOption", Operator: grid.OperEq, Value: productOptionID}}
	}
	c.prepare = func(patch models.Patch) {
		patch["productOption"] = map[string]interface{}{"id": productOptionID}
	}
	return c
}
