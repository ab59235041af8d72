package grid_test

import (
	"testing"

	"catalog-admin/grid"
	"catalog-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productSearchFields() []models.SearchField {
	return []models.SearchField{
		{Name: "name", Type: "text", Props: models.SearchProps{SearchOper: grid.OperILike}},
		{Name: "productRef", Type: models.ColumnObject, Options: &models.SearchLookup{QueryName: "products"}},
		{Name: "type", Type: "text", Props: models.SearchProps{SearchOper: grid.OperILike}},
	}
}

func TestQueryFiltersInFieldOrder(t *testing.T) {
	form := grid.NewSearchForm(productSearchFields())
	require.NoError(t, form.SetValues(map[string]interface{}{
		"type":       "RAW%",
		"name":       "bolt",
		"productRef": map[string]interface{}{"id": "p9", "name": "Frame"},
	}))

	assert.Equal(t, []models.Filter{
		{Name: "name", Operator: "i_like", Value: "%bolt%"},
		{Name: "productRef", Operator: "eq", Value: "p9"},
		{Name: "type", Operator: "i_like", Value: "RAW%"},
	}, form.QueryFilters())
}

func TestQueryFiltersSkipsEmpty(t *testing.T) {
	form := grid.NewSearchForm(productSearchFields())
	require.NoError(t, form.Set("name", "  "))
	require.NoError(t, form.Set("productRef", map[string]interface{}{"name": "no id"}))

	assert.Empty(t, form.QueryFilters())
}

func TestSetUnknownField(t *testing.T) {
	form := grid.NewSearchForm(productSearchFields())
	assert.Error(t, form.Set("sku", "x"))
}
