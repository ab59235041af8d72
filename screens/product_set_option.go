package screens

import (
	"context"

	"catalog-admin/clients"
	"catalog-admin/grid"
	"catalog-admin/models"
)

const (
	TagProductSetOption = "product-set-option"
	ParamProductSetID   = "productSetId"
)

// NewProductSetOption builds the option value list of one product set.
// productOption is a display column derived from the picked value's option.
func NewProductSetOption(ctx context.Context, host Host, productSetID string) *Controller {
	valueLookup := &models.LookupOptions{
		QueryName: "productOptionValues",
		Select: []models.LookupColumn{
			{Name: "id", Hidden: true},
			{Name: "productOption", Header: "Product Option", Type: models.ColumnObject, Width: 160},
			{Name: "name", Header: "Name", Width: 160},
		},
		List: &models.LookupList{Fields: []string{"productOption"}},
	}
	valueColumn := referenceColumn("productOptionValue", "Product Option Value", 200, valueLookup)

	def := Definition{
		Tag:            TagProductSetOption,
		Title:          "Product Set Option",
		QueryName:      "productSetOptions",
		UpdateMutation: "updateMultipleProductSetOption",
		UpdateEcho:     []string{"name", "description"},
		DeleteMutation: "deleteProductSetOptions",
		DefaultSort:    []models.Sorter{{Name: "name"}},
		Search: []models.SearchField{
			searchText("name", "Name"),
		},
		Selection: append([]string{
			"id",
			"productSet {",
			"  id",
			"  name",
			"}",
			"productOptionValue {",
			"  id",
			"  name",
			"  description",
			"  productOption {",
			"    id",
			"    name",
			"    description",
			"  }",
			"}",
		}, auditSelection...),
		Grid: models.GridConfig{
			Rows:       models.RowsConfig{Selectable: &models.Selectable{Multiple: true}},
			Pagination: &models.PaginationConfig{Infinite: true},
			Columns: columns(
				gutters(),
				[]models.Column{
					{
						Type:   models.ColumnString,
						Name:   "productOption",
						Header: "Product Option",
						Record: readOnly("left"),
						Width:  160,
					},
					valueColumn,
				},
				auditColumns(),
			),
		},
	}

	c := newController(def, host, nil)
	c.scope = func() []models.Filter {
		return []models.Filter{{Name: "productSet", Operator: grid.OperEq, Value: productSetID}}
	}
	c.decorate = func(rec models.Record) {
		rec["productOption"] = optionNameOf(rec["productOptionValue"])
	}
	c.prepare = func(patch models.Patch) {
		delete(patch, "productOption")
		if v, ok := patch["productOptionValue"].(map[string]interface{}); ok {
			if id, ok := models.Record(v).ID(); ok {
				patch["productOptionValue"] = map[string]interface{}{"id": id}
			} else {
				delete(patch, "productOptionValue")
			}
		}
	}
	c.extraArgs = func() []clients.Arg {
		return []clients.Arg{{Name: "productSetId", Value: productSetID}}
	}
	c.grid.OnFieldChange(func(ch grid.FieldChange) {
		if ch.Column != "productOptionValue" {
			return
		}
		c.grid.SetDerived(ch.Row, "productOption", optionNameOf(ch.After))
	})
	return c
}

// optionNameOf reads productOption.name from a picked option value.
func optionNameOf(v interface{}) interface{} {
	value, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	switch opt := value["productOption"].(type) {
	case map[string]interface{}:
		return opt["name"]
	case string:
		return opt
	}
	return nil
}
