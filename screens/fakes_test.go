package screens_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"catalog-admin/imex"
	"catalog-admin/models"
	"catalog-admin/notify"
	"catalog-admin/screens"
)

// fakeClient answers list queries with items and records every document.
type fakeClient struct {
	mu          sync.Mutex
	documents   []string
	items       string
	total       int
	queryErr    error
	mutationErr error
}

func (f *fakeClient) Execute(ctx context.Context, document string, out interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, document)

	if strings.HasPrefix(document, "mutation") {
		return f.mutationErr
	}
	if f.queryErr != nil {
		return f.queryErr
	}
	if out == nil {
		return nil
	}
	items := f.items
	if items == "" {
		items = "[]"
	}
	reply := fmt.Sprintf(`{%q:{"items":%s,"total":%d}}`, queryName(document), items, f.total)
	return json.Unmarshal([]byte(reply), out)
}

func (f *fakeClient) queries() []string   { return f.filter("query") }
func (f *fakeClient) mutations() []string { return f.filter("mutation") }

func (f *fakeClient) filter(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, d := range f.documents {
		if strings.HasPrefix(d, prefix) {
			out = append(out, d)
		}
	}
	return out
}

func queryName(document string) string {
	body := strings.TrimSpace(strings.TrimPrefix(document, "query {"))
	if i := strings.Index(body, "("); i > 0 {
		return body[:i]
	}
	return ""
}

type fakeCodes struct {
	codes map[string][]models.Code
	err   error
}

func (f *fakeCodes) CodesByName(ctx context.Context, name string) ([]models.Code, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes[name], nil
}

type fakeImporter struct {
	patches   []models.Patch
	confirmed bool
	err       error
	columns   []string
}

func (f *fakeImporter) Open(ctx context.Context, records []models.Record, cfg imex.ImportConfig) ([]models.Patch, bool, error) {
	for _, c := range cfg.Columns {
		f.columns = append(f.columns, c.Name)
	}
	return f.patches, f.confirmed, f.err
}

type harness struct {
	client    *fakeClient
	dialogs   *screens.RecordingDialogs
	notices   *notify.Collector
	navigator *screens.RecordingNavigator
}

func newHarness(confirm bool) *harness {
	return &harness{
		client:    &fakeClient{},
		dialogs:   screens.NewRecordingDialogs(confirm),
		notices:   notify.NewCollector(),
		navigator: &screens.RecordingNavigator{},
	}
}

func (h *harness) host() screens.Host {
	return screens.Host{
		Client:    h.client,
		Dialogs:   h.dialogs,
		Notifier:  h.notices,
		Navigator: h.navigator,
		Codes: &fakeCodes{codes: map[string][]models.Code{
			screens.ProductTypes: {{Name: "RAW"}, {Name: "FIN"}},
			screens.PackingTypes: {{Name: "BOX"}},
		}},
	}
}

var errBackend = errors.New("backend down")
