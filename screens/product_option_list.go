package screens

import (
	"context"

	"catalog-admin/models"
)

const TagProductOptionList = "product-option-list"

func NewProductOptionList(ctx context.Context, host Host) *Controller {
	def := Definition{
		Tag:            TagProductOptionList,
		Title:          "Product Option",
		QueryName:      "productOptions",
		UpdateMutation: "updateMultipleProductOption",
		UpdateEcho:     []string{"name"},
		DeleteMutation: "deleteProductOptions",
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
	return newController(def, host, nil)
}
