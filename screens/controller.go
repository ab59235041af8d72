package screens

import (
	"context"
	"fmt"
	"strings"

	"catalog-admin/clients"
	apperrors "catalog-admin/errors"
	"catalog-admin/grid"
	"catalog-admin/imex"
	"catalog-admin/logger"
	"catalog-admin/models"
	"catalog-admin/notify"

	"go.uber.org/zap"
)

// Outcome tells the caller what a screen action did.
type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomeNothingToDo Outcome = "nothing-to-do"
	OutcomeDeclined    Outcome = "declined"
	OutcomeFailed      Outcome = "failed"
)

// Params are route parameters such as productOptionId.
type Params map[string]string

// Screen is one catalog administration page.
type Screen interface {
	Tag() string
	Title() string
	Grid() *grid.Grid
	SearchForm() *grid.SearchForm
	Activate(ctx context.Context) error
	Fetch(ctx context.Context, page, limit int, sorters []models.Sorter) (*models.ListResult, error)
	Save(ctx context.Context, patches []models.Patch) (Outcome, error)
	Delete(ctx context.Context) (Outcome, error)
	ExportableData() (*imex.Exportable, error)
	Import(ctx context.Context, records []models.Record) (Outcome, error)
}

// Definition is the static description of an entity screen.
type Definition struct {
	Tag            string
	Title          string
	QueryName      string
	Selection      []string
	UpdateMutation string
	UpdateEcho     []string
	DeleteMutation string
	NumericFields  []string
	// StripNested lists, per reference field, the sub-fields the backend
	// rejects on nested writes.
	StripNested map[string][]string
	DefaultSort []models.Sorter
	Search      []models.SearchField
	Grid        models.GridConfig
}

// Controller implements Screen for a Definition. Sub-screens customise it
// through the scope, prepare, extraArgs and decorate hooks.
type Controller struct {
	def  Definition
	host Host
	grid *grid.Grid
	form *grid.SearchForm

	scope     func() []models.Filter
	prepare   func(patch models.Patch)
	extraArgs func() []clients.Arg
	decorate  func(rec models.Record)
}

func newController(def Definition, host Host, handlers RowHandlers) *Controller {
	c := &Controller{
		def:  def,
		host: host.withDefaults(),
		form: grid.NewSearchForm(def.Search),
	}
	c.grid = grid.New(def.Grid.Clone(), c.Fetch)
	c.grid.SetMode(c.host.Mode)
	handlers.bind(c.grid)
	return c
}

func (c *Controller) Tag() string                  { return c.def.Tag }
func (c *Controller) Title() string                { return c.def.Title }
func (c *Controller) Grid() *grid.Grid             { return c.grid }
func (c *Controller) SearchForm() *grid.SearchForm { return c.form }

// Activate loads the first page.
func (c *Controller) Activate(ctx context.Context) error {
	return c.grid.Fetch(ctx)
}

type listPayload struct {
	Items []models.Record `json:"items"`
	Total int             `json:"total"`
}

// Fetch queries one page with the scope filters followed by the search form
// filters. On error it returns nil and the grid keeps its rows.
func (c *Controller) Fetch(ctx context.Context, page, limit int, sorters []models.Sorter) (*models.ListResult, error) {
	if len(sorters) == 0 {
		sorters = c.def.DefaultSort
	}

	args, err := clients.BuildArgs(
		clients.Arg{Name: "filters", Value: c.filters()},
		clients.Arg{Name: "pagination", Value: models.Pagination{Page: page, Limit: limit}},
		clients.Arg{Name: "sortings", Value: nonNilSorters(sorters)},
	)
	if err != nil {
		return nil, apperrors.Validation("Invalid search filters", err)
	}

	query := fmt.Sprintf("query {\n  %s(%s) {\n    items {\n%s\n    }\n    total\n  }\n}",
		c.def.QueryName, args, selection(c.def.Selection, 6))

	var out map[string]listPayload
	if err := c.host.Client.Execute(ctx, query, &out); err != nil {
		logger.Warn(ctx, "Fetch failed, keeping current rows", zap.String("screen", c.def.Tag), zap.Error(err))
		return nil, err
	}

	payload := out[c.def.QueryName]
	records := payload.Items
	if records == nil {
		records = []models.Record{}
	}
	if c.decorate != nil {
		for _, rec := range records {
			c.decorate(rec)
		}
	}
	return &models.ListResult{Total: payload.Total, Records: records}, nil
}

func (c *Controller) filters() []models.Filter {
	filters := []models.Filter{}
	if c.scope != nil {
		filters = append(filters, c.scope()...)
	}
	return append(filters, c.form.QueryFilters()...)
}

// Save submits the patches as one bulk mutation. Numeric fields are coerced,
// nested reference fields stripped and parent references re-attached first.
func (c *Controller) Save(ctx context.Context, patches []models.Patch) (Outcome, error) {
	if len(patches) == 0 {
		c.host.Dialogs.Alert(ctx, alertNothingToSave)
		return OutcomeNothingToDo, apperrors.ErrNothingToSave
	}

	prepared := make([]models.Patch, 0, len(patches))
	for _, p := range patches {
		patch := p.Clone()
		CoerceNumbers(patch, c.def.NumericFields...)
		StripNested(patch, c.def.StripNested)
		if c.prepare != nil {
			c.prepare(patch)
		}
		prepared = append(prepared, patch)
	}

	args := []clients.Arg{{Name: "patches", Value: prepared}}
	if c.extraArgs != nil {
		args = append(args, c.extraArgs()...)
	}
	argText, err := clients.BuildArgs(args...)
	if err != nil {
		return OutcomeFailed, apperrors.Validation("Invalid patch", err)
	}

	mutation := fmt.Sprintf("mutation {\n  %s(%s) {\n%s\n  }\n}",
		c.def.UpdateMutation, argText, selection(c.def.UpdateEcho, 4))
	if err := c.host.Client.Execute(ctx, mutation, nil); err != nil {
		logger.Warn(ctx, "Save failed", zap.String("screen", c.def.Tag), zap.Int("patches", len(prepared)), zap.Error(err))
		return OutcomeFailed, err
	}

	c.refresh(ctx)
	c.host.Notifier.Notify(ctx, notify.Notice{Message: MsgDataUpdated})
	return OutcomeApplied, nil
}

// Delete asks for confirmation and removes the selected persisted rows.
// Unsaved selected rows have no id and are skipped.
func (c *Controller) Delete(ctx context.Context) (Outcome, error) {
	ids := c.selectedIDs()
	if len(ids) == 0 {
		c.host.Dialogs.Alert(ctx, alertNothingToDel)
		return OutcomeNothingToDo, apperrors.ErrNothingSelected
	}

	prev := c.grid.State()
	c.grid.SetState(grid.StateConfirmingDelete)
	ok, err := c.host.Dialogs.Confirm(ctx, confirmDelete)
	if err != nil {
		c.grid.SetState(prev)
		return OutcomeFailed, err
	}
	if !ok {
		c.grid.SetState(grid.StateIdle)
		return OutcomeDeclined, nil
	}

	c.grid.SetState(grid.StateDeleting)
	argText, err := clients.BuildArgs(clients.Arg{Name: "ids", Value: ids})
	if err != nil {
		c.grid.SetState(prev)
		return OutcomeFailed, apperrors.Validation("Invalid ids", err)
	}
	mutation := fmt.Sprintf("mutation {\n  %s(%s)\n}", c.def.DeleteMutation, argText)
	if err := c.host.Client.Execute(ctx, mutation, nil); err != nil {
		logger.Warn(ctx, "Delete failed", zap.String("screen", c.def.Tag), zap.Int("ids", len(ids)), zap.Error(err))
		c.grid.SetState(grid.StateRendered)
		return OutcomeFailed, err
	}

	c.refresh(ctx)
	c.host.Notifier.Notify(ctx, notify.Notice{Message: MsgDataDeleted})
	return OutcomeApplied, nil
}

func (c *Controller) selectedIDs() []interface{} {
	selected := c.grid.Selected()
	ids := make([]interface{}, 0, len(selected))
	for _, rec := range selected {
		if id, ok := rec.ID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// refresh reloads after a successful mutation. A failed reload is logged; the
// mutation itself already succeeded.
func (c *Controller) refresh(ctx context.Context) {
	if err := c.grid.Fetch(ctx); err != nil {
		logger.Warn(ctx, "Refresh after mutation failed", zap.String("screen", c.def.Tag), zap.Error(err))
		c.grid.SetState(grid.StateRendered)
	}
}

// ExportableData projects the selected rows, or every row when none is
// selected, through the imex keys of the grid columns.
func (c *Controller) ExportableData() (*imex.Exportable, error) {
	records := c.grid.Selected()
	if len(records) == 0 {
		records = c.grid.Records()
	}
	return imex.Build(imex.Columns(c.grid.Config()), records)
}

// Import opens the import dialog with the imex columns, saves the confirmed
// patches and navigates back.
func (c *Controller) Import(ctx context.Context, records []models.Record) (Outcome, error) {
	cfg := c.grid.Config()
	patches, confirmed, err := c.host.Importer.Open(ctx, records, imex.ImportConfig{
		Rows:    cfg.Rows,
		Columns: imex.Columns(cfg),
	})
	if err != nil {
		return OutcomeFailed, err
	}
	if !confirmed {
		return OutcomeDeclined, nil
	}

	outcome, err := c.Save(ctx, patches)
	c.host.Navigator.Back(ctx)
	return outcome, err
}

func nonNilSorters(s []models.Sorter) []models.Sorter {
	if s == nil {
		return []models.Sorter{}
	}
	return s
}

// selection renders a field list, one field per line.
func selection(fields []string, indent int) string {
	pad := strings.Repeat(" ", indent)
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = pad + f
	}
	return strings.Join(lines, "\n")
}
