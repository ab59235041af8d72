package screens

import (
	"context"

	"catalog-admin/grid"
	"catalog-admin/models"
)

const (
	TagProductSetList = "product-set-list"
	ParamProductID    = "productId"
)

// ProductSetRowHandlers keep productSupersede from pointing at the active row.
func ProductSetRowHandlers() RowHandlers {
	return RowHandlers{"productSupersede": ExcludeSelf}
}

// NewProductSetList builds the product set screen, optionally scoped to the
// sets of one product.
func NewProductSetList(ctx context.Context, host Host, handlers RowHandlers, productID string) *Controller {
	types := lookupCodes(ctx, host.Codes, ProductTypes)
	packing := lookupCodes(ctx, host.Codes, PackingTypes)

	def := Definition{
		Tag:            TagProductSetList,
		Title:          "Product Set",
		QueryName:      "productSets",
		UpdateMutation: "updateMultipleProductSet",
		UpdateEcho:     []string{"name"},
		DeleteMutation: "deleteProductSets",
		NumericFields:  []string{"weight", "weightRatio", "width", "depth", "height", "expirationPeriod"},
		StripNested:    map[string][]string{"productSupersede": {"sku"}},
		DefaultSort:    []models.Sorter{{Name: "name"}},
		Search: []models.SearchField{
			searchText("name", "Name"),
			searchText("type", "Type"),
		},
		Selection: []string{
			"id",
			"name",
			"description",
			"type",
			"packingType",
			"status",
			"productSupersede {",
			"  id",
			"  sku",
			"  name",
			"  description",
			"}",
			"expirationPeriod",
			"weightUnit",
			"weight",
			"weightRatio",
			"lengthUnit",
			"width",
			"depth",
			"height",
			"auxUnit1",
			"auxValue1",
			"auxUnit2",
			"auxValue2",
			"auxUnit3",
			"auxValue3",
		},
		Grid: models.GridConfig{
			Rows: models.RowsConfig{
				Selectable: &models.Selectable{Multiple: true},
				Handlers:   []string{"click"},
			},
			Columns: columns(
				gutters(),
				[]models.Column{
					textColumn("name", "Name", 180),
					textColumn("description", "Description", 200),
					codeColumn("type", "Type", 120, types),
					codeColumn("packingType", "Packing Type", 120, packing),
					textColumn("status", "Status", 100),
					referenceColumn("productSupersede", "Product Supersede", 180, productLookup()),
					numberColumn(models.ColumnInt, "expirationPeriod", "Expiration Period", 100),
				},
				dimensionColumns(numberColumn(models.ColumnFloat, "weightRatio", "Weight Ratio", 90)),
				auxColumns(),
				auditColumns(),
			),
		},
	}
	def.Selection = append(def.Selection, auditSelection...)

	c := newController(def, host, handlers)
	if productID != "" {
		c.scope = func() []models.Filter {
			return []models.Filter{{Name: "product", Operator: grid.OperEq, Value: productID}}
		}
	}
	return c
}
