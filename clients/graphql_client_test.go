package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-admin/clients"
	apperrors "catalog-admin/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	query  string
	auth   string
	caller string
}

func newGraphQLServer(t *testing.T, status int, reply string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if seen != nil {
			seen.query = body.Query
			seen.auth = r.Header.Get("Authorization")
			seen.caller = r.Header.Get("X-User-ID")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecuteDecodesData(t *testing.T) {
	seen := &capturedRequest{}
	srv := newGraphQLServer(t, http.StatusOK, `{"data":{"products":{"total":1,"items":[{"id":"p1"}]}}}`, seen)
	client := clients.NewGraphQLClient(srv.URL, "tok", time.Second)

	var out struct {
		Products struct {
			Total int `json:"total"`
		} `json:"products"`
	}
	ctx := clients.WithCaller(context.Background(), "user-7")
	require.NoError(t, client.Execute(ctx, "query { products { total } }", &out))

	assert.Equal(t, 1, out.Products.Total)
	assert.Equal(t, "query { products { total } }", seen.query)
	assert.Equal(t, "Bearer tok", seen.auth)
	assert.Equal(t, "user-7", seen.caller)
}

func TestExecuteReturnsQueryError(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusOK, `{"data":null,"errors":[{"message":"sku must be unique"}]}`, nil)
	client := clients.NewGraphQLClient(srv.URL, "", time.Second)

	err := client.Execute(context.Background(), "mutation { x }", nil)

	require.ErrorIs(t, err, apperrors.ErrQuery)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"sku must be unique"}, appErr.Details)
}

func TestExecuteErrorsListOnBadRequestStatus(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusBadRequest, `{"errors":[{"message":"Syntax Error"}]}`, nil)
	client := clients.NewGraphQLClient(srv.URL, "", time.Second)

	err := client.Execute(context.Background(), "query {", nil)
	assert.ErrorIs(t, err, apperrors.ErrQuery)
}

func TestExecuteTransportError(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)
	client := clients.NewGraphQLClient(srv.URL, "", time.Second)

	err := client.Execute(context.Background(), "query { x }", nil)
	require.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Contains(t, err.Error(), "status=502")
}
