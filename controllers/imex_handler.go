package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-admin/clients"
	apperrors "catalog-admin/errors"
	"catalog-admin/imex"
	"catalog-admin/logger"
	"catalog-admin/middleware"
	"catalog-admin/models"
	awspkg "catalog-admin/pkg/aws"
	"catalog-admin/screens"
	"catalog-admin/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var fileExt = map[string]string{
	imex.FormatJSON: "json",
	imex.FormatXLSX: "xlsx",
	imex.FormatCSV:  "csv",
}

// Export renders the selected rows, or every row, in the requested format.
// With store=s3 the file is uploaded and a download link returned instead.
func (sc *ScreenController) Export(c *gin.Context) {
	var req ExportRequest
	if err := sc.validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if req.Format == "" {
		req.Format = c.DefaultQuery("format", imex.FormatJSON)
	}
	if req.Store == "" {
		req.Store = c.Query("store")
	}
	if err := sc.validator.Validate(&req); err != nil {
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
	if len(req.Rows) == 0 {
		if err := s.screen.Activate(ctx); err != nil {
			sc.record(ctx, awspkg.MetricExports, s, start, err)
			sc.render(c, s, screens.OutcomeFailed, err)
			return
		}
	}
	loadRows(s.screen, req.Rows, req.Selected)

	data, err := s.screen.ExportableData()
	if err != nil {
		_ = c.Error(apperrors.New(http.StatusInternalServerError, "Failed to build export", err))
		return
	}

	if req.Format == imex.FormatJSON && req.Store == "" {
		sc.record(ctx, awspkg.MetricExports, s, start, nil)
		c.JSON(http.StatusOK, data)
		return
	}

	body, err := imex.Encode(req.Format, s.screen.Title(), data)
	if err != nil {
		_ = c.Error(apperrors.New(http.StatusInternalServerError, "Failed to encode export", err))
		return
	}
	filename := fmt.Sprintf("%s.%s", s.screen.Tag(), fileExt[req.Format])

	if req.Store == "s3" {
		if sc.deps.Exports == nil {
			_ = c.Error(apperrors.ErrServiceUnavailable)
			return
		}
		stored, err := sc.deps.Exports.Put(ctx, filename, imex.ContentType(req.Format), body)
		sc.record(ctx, awspkg.MetricExports, s, start, err)
		if err != nil {
			logger.Error(ctx, "Failed to upload export", err, zap.String("page", s.page))
			_ = c.Error(apperrors.New(http.StatusBadGateway, "Failed to store export", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"export": stored, "format": req.Format, "rows": len(data.Data)})
		return
	}

	sc.record(ctx, awspkg.MetricExports, s, start, nil)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, imex.ContentType(req.Format), body)
}

// Import reads the uploaded "file" and saves its rows through the screen.
// preview=true only decodes the rows; async=true queues the import.
func (sc *ScreenController) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.Validation("file is required", err))
		return
	}
	if sc.deps.ImportMaxBytes > 0 && file.Size > sc.deps.ImportMaxBytes {
		_ = c.Error(apperrors.Validation(fmt.Sprintf("file exceeds %d bytes", sc.deps.ImportMaxBytes), nil))
		return
	}
	format, err := imex.FormatFromFilename(file.Filename)
	if err != nil {
		_ = c.Error(apperrors.Validation("Unsupported import file", err))
		return
	}

	preview := formFlag(c, "preview")
	s, err := sc.open(c, false, imex.PreviewDialog{Confirmed: !preview})
	if err != nil {
		_ = c.Error(err)
		return
	}

	fh, err := file.Open()
	if err != nil {
		_ = c.Error(apperrors.New(http.StatusInternalServerError, "Failed to open file", err))
		return
	}
	defer fh.Close()

	header := imex.Headers(imex.Columns(s.screen.Grid().Config()))
	records, err := imex.Decode(format, fh, header)
	if err != nil {
		_ = c.Error(apperrors.Validation("Invalid import file", err))
		return
	}

	ctx := c.Request.Context()
	if formFlag(c, "async") && !preview {
		sc.enqueueImport(c, s, records)
		return
	}

	start := time.Now()
	outcome, err := s.screen.Import(ctx, records)
	sc.record(ctx, awspkg.MetricImports, s, start, err)
	if preview {
		s.screen.Grid().Load(records, len(records))
	}
	sc.render(c, s, outcome, err)
}

func (sc *ScreenController) enqueueImport(c *gin.Context, s *session, records []models.Record) {
	if sc.deps.Jobs == nil {
		_ = c.Error(apperrors.ErrServiceUnavailable)
		return
	}
	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	job, err := sc.deps.Jobs.Enqueue(ctx, s.page, routeParams(c), userID, records)
	if err != nil {
		logger.Error(ctx, "Failed to enqueue import", err, zap.String("page", s.page))
		_ = c.Error(apperrors.New(http.StatusInternalServerError, "Failed to queue import job", err))
		return
	}

	logger.Info(ctx, "Import job queued", zap.String("job_id", job.ID), zap.Int("records", len(records)))
	c.JSON(http.StatusAccepted, gin.H{
		"jobId":   job.ID,
		"status":  job.Status,
		"message": "Import queued for processing",
	})
}

// ImportJobStatus returns a queued import's progress.
func (sc *ScreenController) ImportJobStatus(c *gin.Context) {
	if sc.deps.Jobs == nil {
		_ = c.Error(apperrors.ErrServiceUnavailable)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		_ = c.Error(apperrors.Validation("Job ID required", nil))
		return
	}

	job, err := sc.deps.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ProcessImportJob runs a queued import as the user who uploaded it. The
// upload is the confirmation, so the import dialog accepts every row.
func (sc *ScreenController) ProcessImportJob(ctx context.Context, job *services.ImportJob) (*services.ImportResult, error) {
	s := newSession(job.Page, true)
	if job.UserID != "" {
		ctx = clients.WithCaller(ctx, job.UserID)
	}

	host := sc.hostFor(s, imex.PreviewDialog{Confirmed: true}, models.ModeGrid)
	screen, err := sc.deps.Registry.Load(ctx, job.Page, host, screens.Params(job.Params))
	if err != nil {
		return nil, err
	}
	s.screen = screen

	start := time.Now()
	outcome, err := screen.Import(ctx, job.Records)
	sc.record(ctx, awspkg.MetricImports, s, start, err)

	result := &services.ImportResult{Outcome: string(outcome)}
	for _, n := range s.notices.Notices() {
		result.Notices = append(result.Notices, n.Message)
	}
	return result, err
}

func formFlag(c *gin.Context, name string) bool {
	v := c.PostForm(name)
	if v == "" {
		v = c.Query(name)
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
