package screens

import (
	"context"

	"catalog-admin/grid"
	"catalog-admin/logger"
	"catalog-admin/models"

	"go.uber.org/zap"
)

const (
	TagProductList   = "product-list"
	ProductTypes     = "PRODUCT_TYPES"
	PackingTypes     = "PACKING_TYPES"
	productQueryName = "products"
)

// ProductRowHandlers keep productRef and childProductRef from pointing at
// the row being edited.
func ProductRowHandlers() RowHandlers {
	return RowHandlers{
		"productRef":      ExcludeSelf,
		"childProductRef": ExcludeSelf,
	}
}

// NewProductList builds the product screen. Type and packing type options
// come from common codes; a failed lookup leaves the select empty.
func NewProductList(ctx context.Context, host Host, handlers RowHandlers) *Controller {
	types := lookupCodes(ctx, host.Codes, ProductTypes)
	packing := lookupCodes(ctx, host.Codes, PackingTypes)

	def := Definition{
		Tag:            TagProductList,
		Title:          "Product",
		QueryName:      productQueryName,
		UpdateMutation: "updateMultipleProduct",
		UpdateEcho:     []string{"name"},
		DeleteMutation: "deleteProducts",
		NumericFields:  []string{"weight", "density", "width", "depth", "height", "expirationPeriod", "childProductQty"},
		StripNested: map[string][]string{
			"productRef":      {"sku"},
			"childProductRef": {"sku", "packingType"},
		},
		DefaultSort: []models.Sorter{{Name: "name"}},
		Search: []models.SearchField{
			searchText("name", "Name"),
			{
				Name:    "productRef",
				Label:   "Product Ref",
				Type:    models.ColumnObject,
				Options: &models.SearchLookup{QueryName: productQueryName, Field: "name"},
				Props:   models.SearchProps{SearchOper: grid.OperEq},
			},
			searchText("type", "Type"),
		},
		Selection: []string{
			"id",
			"sku",
			"name",
			"description",
			"productRef {",
			"  id",
			"  sku",
			"  name",
			"  description",
			"}",
			"childProductRef {",
			"  id",
			"  sku",
			"  name",
			"  description",
			"  packingType",
			"}",
			"childProductQty",
			"type",
			"packingType",
			"expirationPeriod",
			"weightUnit",
			"weight",
			"density",
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
					textColumn("sku", "SKU", 120),
					textColumn("name", "Name", 180),
					referenceColumn("productRef", "Product Ref", 180, productLookup()),
					referenceColumn("childProductRef", "Child Product Ref", 180,
						productLookup(models.LookupColumn{Name: "packingType", Header: "Packing Type", Width: 100})),
					numberColumn(models.ColumnFloat, "childProductQty", "Child Product Qty", 100),
					textColumn("description", "Description", 200),
					codeColumn("type", "Type", 120, types),
					codeColumn("packingType", "Packing Type", 120, packing),
					numberColumn(models.ColumnInt, "expirationPeriod", "Expiration Period", 100),
				},
				dimensionColumns(numberColumn(models.ColumnFloat, "density", "Density", 80)),
				auxColumns(),
				auditColumns(),
			),
		},
	}
	def.Selection = append(def.Selection, auditSelection...)

	return newController(def, host, handlers)
}

func lookupCodes(ctx context.Context, codes CodeLookup, name string) []models.Code {
	if codes == nil {
		return nil
	}
	out, err := codes.CodesByName(ctx, name)
	if err != nil {
		logger.Warn(ctx, "Failed to load common codes", zap.String("code", name), zap.Error(err))
		return nil
	}
	return out
}
