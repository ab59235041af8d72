package screens

import (
	"catalog-admin/grid"
	"catalog-admin/models"
)

func gutters() []models.Column {
	return []models.Column{
		{Type: models.ColumnGutter, GutterName: models.GutterDirty},
		{Type: models.ColumnGutter, GutterName: models.GutterSequence},
		{Type: models.ColumnGutter, GutterName: models.GutterRowSelector, Multiple: true},
	}
}

func editable(align string) *models.RecordConfig {
	return &models.RecordConfig{Editable: true, Align: align}
}

func readOnly(align string) *models.RecordConfig {
	return &models.RecordConfig{Editable: false, Align: align}
}

func imexOf(header, key string, width int, typ string) *models.Imex {
	return &models.Imex{Header: header, Key: key, Width: width, Type: typ}
}

// textColumn is an editable, sortable, exported string column.
func textColumn(name, header string, width int) models.Column {
	return models.Column{
		Type:     models.ColumnString,
		Name:     name,
		Header:   header,
		Record:   editable("left"),
		Imex:     imexOf(header, name, width, "string"),
		Sortable: true,
		Width:    width,
	}
}

// numberColumn is an editable, right aligned, exported numeric column.
func numberColumn(typ, name, header string, width int) models.Column {
	return models.Column{
		Type:     typ,
		Name:     name,
		Header:   header,
		Record:   editable("right"),
		Imex:     imexOf(header, name, width, typ),
		Sortable: true,
		Width:    width,
	}
}

// codeColumn is a select column fed by a common code table.
func codeColumn(name, header string, width int, codes []models.Code) models.Column {
	options := make([]string, 0, len(codes)+1)
	options = append(options, "")
	arr := make([]models.ImexOption, 0, len(codes))
	for _, c := range codes {
		options = append(options, c.Name)
		arr = append(arr, models.ImexOption{Name: c.Name, ID: c.Name})
	}
	rec := editable("center")
	rec.Select = options
	im := imexOf(header, name, width, "array")
	im.ArrData = arr
	return models.Column{
		Type:     models.ColumnSelect,
		Name:     name,
		Header:   header,
		Record:   rec,
		Imex:     im,
		Sortable: true,
		Width:    width,
	}
}

// referenceColumn is an object picker over another list query. Files carry
// the referenced id so an imported row points at the same record.
func referenceColumn(name, header string, width int, opts *models.LookupOptions) models.Column {
	rec := editable("center")
	rec.Options = opts
	return models.Column{
		Type:     models.ColumnObject,
		Name:     name,
		Header:   header,
		Record:   rec,
		Imex:     imexOf(header+" ID", name+".id", width, "string"),
		Sortable: true,
		Width:    width,
	}
}

func productLookup(extra ...models.LookupColumn) *models.LookupOptions {
	sel := []models.LookupColumn{
		{Name: "id", Hidden: true},
		{Name: "sku", Header: "SKU", Width: 120},
		{Name: "name", Header: "Name", Width: 160},
		{Name: "description", Header: "Description", Width: 200},
	}
	return &models.LookupOptions{QueryName: "products", Select: append(sel, extra...)}
}

// dimensionColumns are the physical attribute columns shared by products and product sets.
func dimensionColumns(weightExtra ...models.Column) []models.Column {
	cols := []models.Column{
		textColumn("weightUnit", "Weight Unit", 90),
		numberColumn(models.ColumnFloat, "weight", "Weight", 80),
	}
	cols = append(cols, weightExtra...)
	return append(cols,
		textColumn("lengthUnit", "Length Unit", 90),
		numberColumn(models.ColumnFloat, "width", "Width", 80),
		numberColumn(models.ColumnFloat, "depth", "Depth", 80),
		numberColumn(models.ColumnFloat, "height", "Height", 80),
	)
}

func auxColumns() []models.Column {
	return []models.Column{
		textColumn("auxUnit1", "Aux Unit 1", 90),
		textColumn("auxValue1", "Aux Value 1", 90),
		textColumn("auxUnit2", "Aux Unit 2", 90),
		textColumn("auxValue2", "Aux Value 2", 90),
		textColumn("auxUnit3", "Aux Unit 3", 90),
		textColumn("auxValue3", "Aux Value 3", 90),
	}
}

func auditColumns() []models.Column {
	return []models.Column{
		{Type: models.ColumnObject, Name: "updater", Header: "Updater", Record: readOnly("center"), Sortable: true, Width: 150},
		{Type: models.ColumnTime, Name: "updatedAt", Header: "Updated At", Record: readOnly("center"), Sortable: true, Width: 180},
	}
}

var auditSelection = []string{
	"updater {",
	"  id",
	"  name",
	"  description",
	"}",
	"updatedAt",
}

func searchText(name, label string) models.SearchField {
	return models.SearchField{Name: name, Label: label, Type: "text", Props: models.SearchProps{SearchOper: grid.OperILike}}
}

func columns(groups ...[]models.Column) []models.Column {
	var out []models.Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
