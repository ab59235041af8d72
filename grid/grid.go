package grid

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"catalog-admin/models"
)

// State is the grid lifecycle as seen by the screen.
type State string

const (
	StateIdle             State = "idle"
	StateFetching         State = "fetching"
	StateRendered         State = "rendered"
	StateConfirmingDelete State = "confirming-delete"
	StateDeleting         State = "deleting"
)

// DefaultLimit is the page size used until the caller asks for another.
const DefaultLimit = 20

// FetchFunc loads one page. A nil result with an error leaves the grid as it was.
type FetchFunc func(ctx context.Context, page, limit int, sorters []models.Sorter) (*models.ListResult, error)

// FieldChange is emitted after a cell value changes.
type FieldChange struct {
	Row    int
	Column string
	Before interface{}
	After  interface{}
	Record models.Record
}

// Grid holds the rows of one screen with their dirty state, selection,
// pagination and sort order.
type Grid struct {
	mu sync.Mutex

	config  models.GridConfig
	mode    models.GridMode
	fetch   FetchFunc
	page    int
	limit   int
	sorters []models.Sorter

	records  []models.Record
	total    int
	dirty    map[int]map[string]struct{}
	created  map[int]bool
	selected map[int]bool
	active   int
	state    State

	fieldListeners []func(FieldChange)
	clickListeners []func(row int, record models.Record)
}

// New creates an idle grid.
func New(config models.GridConfig, fetch FetchFunc) *Grid {
	return &Grid{
		config:   config,
		mode:     models.ModeGrid,
		fetch:    fetch,
		page:     1,
		limit:    DefaultLimit,
		dirty:    make(map[int]map[string]struct{}),
		created:  make(map[int]bool),
		selected: make(map[int]bool),
		active:   -1,
		state:    StateIdle,
	}
}

// Config returns a copy of the grid configuration.
func (g *Grid) Config() models.GridConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config.Clone()
}

// UpdateConfig lets row handlers adjust column options in place.
func (g *Grid) UpdateConfig(fn func(cfg *models.GridConfig)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.config)
}

func (g *Grid) Mode() models.GridMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

func (g *Grid) SetMode(mode models.GridMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = mode
}

func (g *Grid) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// SetState moves the grid through the delete confirmation states.
func (g *Grid) SetState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
}

// Page returns the current page and limit.
func (g *Grid) Page() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page, g.limit
}

// SetPage changes pagination; zero values keep the current setting.
func (g *Grid) SetPage(page, limit int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if page > 0 {
		g.page = page
	}
	if limit > 0 {
		g.limit = limit
	}
}

func (g *Grid) Sorters() []models.Sorter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Sorter(nil), g.sorters...)
}

func (g *Grid) SetSorters(sorters []models.Sorter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sorters = append([]models.Sorter(nil), sorters...)
}

// Fetch reloads the current page. On failure the rows, total and state from
// before the call are kept.
func (g *Grid) Fetch(ctx context.Context) error {
	g.mu.Lock()
	prev := g.state
	g.state = StateFetching
	page, limit := g.page, g.limit
	sorters := append([]models.Sorter(nil), g.sorters...)
	fetch := g.fetch
	g.mu.Unlock()

	if fetch == nil {
		g.SetState(prev)
		return fmt.Errorf("grid has no fetch handler")
	}

	result, err := fetch(ctx, page, limit, sorters)
	if err != nil || result == nil {
		g.SetState(prev)
		return err
	}

	g.Load(result.Records, result.Total)
	return nil
}

// Load replaces the rows with the given page and marks the grid rendered.
func (g *Grid) Load(records []models.Record, total int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = records
	if g.records == nil {
		g.records = []models.Record{}
	}
	g.total = total
	g.dirty = make(map[int]map[string]struct{})
	g.created = make(map[int]bool)
	g.selected = make(map[int]bool)
	g.active = -1
	g.state = StateRendered
}

func (g *Grid) Records() []models.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Record(nil), g.records...)
}

func (g *Grid) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.total
}

// AddRow appends an unsaved row and returns its index.
func (g *Grid) AddRow(record models.Record) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if record == nil {
		record = models.Record{}
	}
	g.records = append(g.records, record)
	row := len(g.records) - 1
	g.created[row] = true
	fields := make(map[string]struct{}, len(record))
	for k := range record {
		fields[k] = struct{}{}
	}
	g.dirty[row] = fields
	return row
}

// SetCell edits a cell, marks it dirty and notifies field-change listeners.
func (g *Grid) SetCell(row int, column string, value interface{}) error {
	g.mu.Lock()
	if row < 0 || row >= len(g.records) {
		g.mu.Unlock()
		return fmt.Errorf("row %d out of range", row)
	}
	rec := g.records[row]
	before := rec[column]
	rec[column] = value
	if g.dirty[row] == nil {
		g.dirty[row] = make(map[string]struct{})
	}
	g.dirty[row][column] = struct{}{}
	listeners := append([]func(FieldChange){}, g.fieldListeners...)
	g.mu.Unlock()

	change := FieldChange{Row: row, Column: column, Before: before, After: value, Record: rec}
	for _, fn := range listeners {
		fn(change)
	}
	return nil
}

// SetDerived writes a display value without marking the row dirty.
func (g *Grid) SetDerived(row int, column string, value interface{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= len(g.records) {
		return
	}
	g.records[row][column] = value
}

// OnFieldChange registers a listener for cell edits.
func (g *Grid) OnFieldChange(fn func(FieldChange)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fieldListeners = append(g.fieldListeners, fn)
}

// OnRowClick registers a listener for row activation. A negative row means
// the active row was cleared and record is nil.
func (g *Grid) OnRowClick(fn func(row int, record models.Record)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clickListeners = append(g.clickListeners, fn)
}

// ClickRow activates a row, or clears the active row when row < 0.
func (g *Grid) ClickRow(row int) {
	g.mu.Lock()
	var rec models.Record
	if row >= 0 && row < len(g.records) {
		rec = g.records[row]
	} else {
		row = -1
	}
	g.active = row
	listeners := append([]func(int, models.Record){}, g.clickListeners...)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(row, rec)
	}
}

// ActiveRow returns the active row index, -1 when none.
func (g *Grid) ActiveRow() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Select marks rows as selected. Out-of-range rows are ignored.
func (g *Grid) Select(rows ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range rows {
		if r >= 0 && r < len(g.records) {
			g.selected[r] = true
		}
	}
}

// SelectIDs selects the rows whose id matches one of ids.
func (g *Grid) SelectIDs(ids ...string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, rec := range g.records {
		if id := rec.IDString(); id != "" && want[id] {
			g.selected[i] = true
		}
	}
}

func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = make(map[int]bool)
}

// Selected returns the selected rows in grid order.
func (g *Grid) Selected() []models.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]int, 0, len(g.selected))
	for r := range g.selected {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, g.records[r])
	}
	return out
}

// PatchList returns one patch per dirty row: the changed fields, the id of
// persisted rows and the cuFlag.
func (g *Grid) PatchList() []models.Patch {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]int, 0, len(g.dirty))
	for r, fields := range g.dirty {
		if len(fields) > 0 {
			rows = append(rows, r)
		}
	}
	sort.Ints(rows)

	patches := make([]models.Patch, 0, len(rows))
	for _, r := range rows {
		rec := g.records[r]
		patch := models.Patch{}
		for f := range g.dirty[r] {
			patch[f] = rec[f]
		}
		patch = patch.Clone()
		if id, ok := rec.ID(); ok && !g.created[r] {
			patch["id"] = id
			patch[models.FlagField] = models.FlagUpdate
		} else {
			delete(patch, "id")
			patch[models.FlagField] = models.FlagCreate
		}
		patches = append(patches, patch)
	}
	return patches
}
