package clients_test

import (
	"math"
	"testing"

	"catalog-admin/clients"
	"catalog-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgsListQuery(t *testing.T) {
	got, err := clients.BuildArgs(
		clients.Arg{Name: "filters", Value: []models.Filter{{Name: "name", Operator: "i_like", Value: "%bolt%"}}},
		clients.Arg{Name: "pagination", Value: models.Pagination{Page: 1, Limit: 20}},
		clients.Arg{Name: "sortings", Value: []models.Sorter{{Name: "name"}}},
	)
	require.NoError(t, err)

	assert.Equal(t,
		`filters: [{name: "name", operator: "i_like", value: "%bolt%"}], pagination: {limit: 20, page: 1}, sortings: [{name: "name"}]`,
		got)
}

func TestBuildArgsIDs(t *testing.T) {
	got, err := clients.BuildArgs(clients.Arg{Name: "ids", Value: []interface{}{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "ids: [1, 2]", got)
}

func TestBuildArgsSkipsNilArgument(t *testing.T) {
	got, err := clients.BuildArgs(
		clients.Arg{Name: "patches", Value: []models.Patch{{"weight": nil, "cuFlag": "+"}}},
		clients.Arg{Name: "productSetId", Value: nil},
	)
	require.NoError(t, err)
	assert.Equal(t, `patches: [{cuFlag: "+", weight: null}]`, got)
}

func TestLiteralEscapesStrings(t *testing.T) {
	got, err := clients.Literal(map[string]interface{}{"name": `say "hi"`, "ok": true, "weight": 12.5})
	require.NoError(t, err)
	assert.Equal(t, `{name: "say \"hi\"", ok: true, weight: 12.5}`, got)
}

func TestLiteralRejectsUnencodable(t *testing.T) {
	_, err := clients.Literal(math.Inf(1))
	assert.Error(t, err)
}
