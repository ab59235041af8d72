package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "catalog-admin/errors"

	"go.uber.org/zap"
)

// Executor runs a GraphQL document and decodes its data into out.
// A response with a non-empty errors list fails with a Query error;
// network and decoding failures fail with a Transport error.
type Executor interface {
	Execute(ctx context.Context, document string, out interface{}) error
}

type GraphQLClient struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewGraphQLClient(endpoint, token string, timeout time.Duration) *GraphQLClient {
	return &GraphQLClient{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLError is one entry of a GraphQL errors list.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// GraphQLResponse is the raw {data, errors} envelope.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type callerKey struct{}

// WithCaller stores the calling user so it is forwarded upstream as X-User-ID.
func WithCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

// CallerFrom returns the user stored by WithCaller.
func CallerFrom(ctx context.Context) string {
	v, _ := ctx.Value(callerKey{}).(string)
	return v
}

// Do posts the document and returns the decoded envelope.
func (g *GraphQLClient) Do(ctx context.Context, document string) (*GraphQLResponse, error) {
	body, err := json.Marshal(gqlRequest{Query: document})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	if user := CallerFrom(ctx); user != "" {
		req.Header.Set("X-User-ID", user)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out GraphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("upstream error: status=%d body=%s", resp.StatusCode, string(raw))
		}
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if resp.StatusCode >= 400 && len(out.Errors) == 0 {
		return nil, fmt.Errorf("upstream error: status=%d body=%s", resp.StatusCode, string(raw))
	}
	return &out, nil
}

// Execute implements Executor.
func (g *GraphQLClient) Execute(ctx context.Context, document string, out interface{}) error {
	resp, err := g.Do(ctx, document)
	if err != nil {
		zap.L().Warn("GraphQL request failed", zap.String("endpoint", g.endpoint), zap.Error(err))
		return apperrors.Transport(err)
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return apperrors.Query(messages)
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return apperrors.Transport(fmt.Errorf("decode graphql data: %w", err))
	}
	return nil
}
