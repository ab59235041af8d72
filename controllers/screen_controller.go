package controllers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"catalog-admin/clients"
	apperrors "catalog-admin/errors"
	"catalog-admin/logger"
	"catalog-admin/models"
	"catalog-admin/notify"
	awspkg "catalog-admin/pkg/aws"
	"catalog-admin/screens"
	"catalog-admin/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportQueue queues imports for the background worker.
type ImportQueue interface {
	Enqueue(ctx context.Context, page string, params map[string]string, userID string, records []models.Record) (*services.ImportJob, error)
	Get(ctx context.Context, id string) (*services.ImportJob, error)
}

// ExportUploader stores an export file and returns where to download it.
type ExportUploader interface {
	Put(ctx context.Context, name, contentType string, body []byte) (*awspkg.StoredExport, error)
}

// Deps are the collaborators of the screen controller. Notifier, Jobs,
// Exports and Metrics are optional.
type Deps struct {
	Registry       *screens.Registry
	Client         clients.Executor
	Codes          screens.CodeLookup
	Notifier       notify.Notifier
	Jobs           ImportQueue
	Exports        ExportUploader
	Metrics        *awspkg.MetricsClient
	ImportMaxBytes int64
}

// ScreenController serves the catalog screens over HTTP. Every request builds
// a fresh screen, replays the browser's view state into it and runs one action.
type ScreenController struct {
	deps      Deps
	validator *RequestValidator
}

func NewScreenController(deps Deps) *ScreenController {
	return &ScreenController{deps: deps, validator: NewRequestValidator()}
}

// session is one request's screen with the recorders its host writes to.
type session struct {
	page      string
	screen    screens.Screen
	dialogs   *screens.RecordingDialogs
	notices   *notify.Collector
	navigator *screens.RecordingNavigator
}

func (sc *ScreenController) host(c *gin.Context, s *session, importer screens.ImportDialog) screens.Host {
	mode := models.ModeGrid
	if strings.Contains(c.Request.UserAgent(), modeListUA) {
		mode = models.ModeList
	}
	return sc.hostFor(s, importer, mode)
}

func (sc *ScreenController) hostFor(s *session, importer screens.ImportDialog, mode models.GridMode) screens.Host {
	notifiers := notify.Fanout{s.notices}
	if sc.deps.Notifier != nil {
		notifiers = append(notifiers, sc.deps.Notifier)
	}
	return screens.Host{
		Client:    sc.deps.Client,
		Dialogs:   s.dialogs,
		Notifier:  notifiers,
		Navigator: s.navigator,
		Importer:  importer,
		Codes:     sc.deps.Codes,
		Mode:      mode,
	}
}

func newSession(page string, confirm bool) *session {
	return &session{
		page:      page,
		dialogs:   screens.NewRecordingDialogs(confirm),
		notices:   notify.NewCollector(),
		navigator: &screens.RecordingNavigator{},
	}
}

func routeParams(c *gin.Context) screens.Params {
	params := screens.Params{}
	for _, key := range []string{screens.ParamProductOptionID, screens.ParamProductSetID, screens.ParamProductID} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			params[key] = v
		}
	}
	return params
}

// open loads the screen of the :page parameter. confirm answers delete
// confirmations; importer is the import dialog, nil for the default.
func (sc *ScreenController) open(c *gin.Context, confirm bool, importer screens.ImportDialog) (*session, error) {
	s := newSession(c.Param("page"), confirm)
	screen, err := sc.deps.Registry.Load(c.Request.Context(), s.page, sc.host(c, s, importer), routeParams(c))
	if err != nil {
		return nil, err
	}
	s.screen = screen
	return s, nil
}

// applyView replays the search form, page and sort order into the screen.
func applyView(s screens.Screen, v ViewState) error {
	if len(v.Search) > 0 {
		if err := s.SearchForm().SetValues(v.Search); err != nil {
			return apperrors.Validation("Invalid search field", err)
		}
	}
	if v.Page > 0 || v.Limit > 0 {
		page, limit := s.Grid().Page()
		if v.Page > 0 {
			page = v.Page
		}
		if v.Limit > 0 {
			limit = v.Limit
		}
		s.Grid().SetPage(page, limit)
	}
	if len(v.Sorters) > 0 {
		s.Grid().SetSorters(v.Sorters)
	}
	return nil
}

// loadRows puts the browser's rows into the grid and selects ids. Without
// rows the selected ids stand in for them.
func loadRows(s screens.Screen, rows []models.Record, selected []interface{}) {
	if len(rows) == 0 && len(selected) > 0 {
		rows = make([]models.Record, 0, len(selected))
		for _, id := range selected {
			rows = append(rows, models.Record{"id": id})
		}
	}
	if len(rows) > 0 {
		s.Grid().Load(rows, len(rows))
	}
	if len(selected) > 0 {
		ids := make([]string, 0, len(selected))
		for _, id := range selected {
			if v := idString(id); v != "" {
				ids = append(ids, v)
			}
		}
		s.Grid().SelectIDs(ids...)
	}
}

// idString reads a row id posted either bare or as the row object.
func idString(v interface{}) string {
	if rec, ok := v.(map[string]interface{}); ok {
		return models.Record(rec).IDString()
	}
	return models.Record{"id": v}.IDString()
}

// applyActive clicks the row whose id matches active. A row that is not on
// the current page leaves no row active.
func applyActive(s screens.Screen, active interface{}) {
	id := idString(active)
	if id == "" {
		return
	}
	for i, rec := range s.Grid().Records() {
		if rec.IDString() == id {
			s.Grid().ClickRow(i)
			return
		}
	}
}

// applyEdits replays the browser's cell edits so derived columns follow them.
func applyEdits(s screens.Screen, edits []CellEdit) error {
	for _, e := range edits {
		if err := s.Grid().SetCell(e.Row, e.Column, e.Value); err != nil {
			return apperrors.Validation("Invalid cell edit", err)
		}
	}
	return nil
}

func (s *session) response(outcome screens.Outcome, err error) ScreenResponse {
	g := s.screen.Grid()
	resp := ScreenResponse{
		Page:     s.page,
		Tag:      s.screen.Tag(),
		Title:    s.screen.Title(),
		Mode:     g.Mode(),
		State:    g.State(),
		Total:    g.Total(),
		Records:  g.Records(),
		Active:   g.ActiveRow(),
		Outcome:  outcome,
		Notices:  s.notices.Notices(),
		Alerts:   s.dialogs.Alerts(),
		Navigate: strings.Join(s.navigator.Steps(), ","),
	}
	cfg := g.Config()
	resp.Config = &cfg
	if resp.Records == nil {
		resp.Records = []models.Record{}
	}
	if resp.Notices == nil {
		resp.Notices = []notify.Notice{}
	}
	if resp.Alerts == nil {
		resp.Alerts = []screens.Alert{}
	}
	if err != nil {
		var appErr *apperrors.Error
		if !stderrors.As(err, &appErr) {
			appErr = apperrors.New(http.StatusInternalServerError, apperrors.ErrInternalServer.Message, err)
		}
		resp.Error = appErr
	}
	return resp
}

func (sc *ScreenController) render(c *gin.Context, s *session, outcome screens.Outcome, err error) {
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	c.JSON(status, s.response(outcome, err))
}

func (sc *ScreenController) record(ctx context.Context, metric string, s *session, start time.Time, err error) {
	dims := map[string]string{"Screen": s.screen.Tag()}
	_ = sc.deps.Metrics.RecordCount(ctx, metric, dims)
	_ = sc.deps.Metrics.RecordLatency(ctx, metric+"Latency", time.Since(start), dims)
	if err != nil && !stderrors.Is(err, apperrors.ErrNothingToSave) && !stderrors.Is(err, apperrors.ErrNothingSelected) {
		dims["Kind"] = string(apperrors.KindOf(err))
		_ = sc.deps.Metrics.RecordCount(ctx, awspkg.MetricScreenErrors, dims)
	}
}

func (sc *ScreenController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Routes returns the page id to screen tag table.
func (sc *ScreenController) Routes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routes": sc.deps.Registry.Routes()})
}

// Activate renders a screen's configuration and its first page.
func (sc *ScreenController) Activate(c *gin.Context) {
	s, err := sc.open(c, false, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	err = s.screen.Activate(ctx)
	sc.record(ctx, awspkg.MetricScreenFetches, s, start, err)
	applyActive(s.screen, c.Query("active"))

	resp := s.response("", err)
	resp.Search = s.screen.SearchForm().Fields()

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	c.JSON(status, resp)
}

// Fetch runs a search with the posted view state.
func (sc *ScreenController) Fetch(c *gin.Context) {
	var req FetchRequest
	if err := sc.validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	s, err := sc.open(c, false, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := applyView(s.screen, req.ViewState); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	err = s.screen.Grid().Fetch(ctx)
	sc.record(ctx, awspkg.MetricScreenFetches, s, start, err)
	applyActive(s.screen, req.Active)
	sc.render(c, s, "", err)
}

// Save submits the posted patches and renders the refreshed page.
func (sc *ScreenController) Save(c *gin.Context) {
	var req SaveRequest
	if err := sc.validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	s, err := sc.open(c, false, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := applyView(s.screen, req.ViewState); err != nil {
		_ = c.Error(err)
		return
	}

	patches := req.Patches
	if len(req.Edits) > 0 {
		loadRows(s.screen, req.Rows, nil)
		if err := applyEdits(s.screen, req.Edits); err != nil {
			_ = c.Error(err)
			return
		}
		if len(patches) == 0 {
			patches = s.screen.Grid().PatchList()
		}
	}

	ctx := c.Request.Context()
	start := time.Now()
	outcome, err := s.screen.Save(ctx, patches)
	sc.record(ctx, awspkg.MetricScreenSaves, s, start, err)
	if err != nil && outcome == screens.OutcomeFailed {
		logger.Warn(ctx, "Screen save failed", zap.String("page", s.page), zap.Error(err))
	}
	applyActive(s.screen, req.Active)
	sc.render(c, s, outcome, err)
}

// Edit applies cell edits to the posted rows and renders them with their
// derived columns and the patches a save would send.
func (sc *ScreenController) Edit(c *gin.Context) {
	var req EditRequest
	if err := sc.validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	s, err := sc.open(c, false, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	loadRows(s.screen, req.Rows, nil)
	applyActive(s.screen, req.Active)
	if err := applyEdits(s.screen, req.Edits); err != nil {
		_ = c.Error(err)
		return
	}

	resp := s.response("", nil)
	resp.Patches = s.screen.Grid().PatchList()
	c.JSON(http.StatusOK, resp)
}

// Delete removes the selected rows. Without confirmed the screen only asks,
// and the response carries the confirmation dialog to show.
func (sc *ScreenController) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := sc.validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	s, err := sc.open(c, req.Confirmed, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := applyView(s.screen, req.ViewState); err != nil {
		_ = c.Error(err)
		return
	}
	loadRows(s.screen, req.Rows, req.Selected)

	ctx := c.Request.Context()
	start := time.Now()
	outcome, err := s.screen.Delete(ctx)
	sc.record(ctx, awspkg.MetricScreenDeletes, s, start, err)
	applyActive(s.screen, req.Active)

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	resp := s.response(outcome, err)
	if outcome == screens.OutcomeDeclined {
		if confirms := s.dialogs.Confirms(); len(confirms) > 0 {
			resp.Confirm = &confirms[len(confirms)-1]
		}
		resp.ConfirmationRequired = true
	}
	c.JSON(status, resp)
}
