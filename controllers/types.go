package controllers

import (
	"io"
	"net/http"

	apperrors "catalog-admin/errors"
	"catalog-admin/grid"
	"catalog-admin/models"
	"catalog-admin/notify"
	"catalog-admin/screens"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	MaxPageSize = 500
	modeListUA  = "Mobi"
)

// ViewState is the search form, page, sort order and active row the browser
// is showing. Save, delete and export refresh with it. Active is the active
// row's id or the row itself.
type ViewState struct {
	Search  map[string]interface{} `json:"search"`
	Page    int                    `json:"page" validate:"omitempty,gte=1"`
	Limit   int                    `json:"limit" validate:"omitempty,gte=1,lte=500"`
	Sorters []models.Sorter        `json:"sorters" validate:"omitempty,dive"`
	Active  interface{}            `json:"active,omitempty"`
}

// CellEdit is one cell the user changed in the browser.
type CellEdit struct {
	Row    int         `json:"row" validate:"gte=0"`
	Column string      `json:"column" validate:"required"`
	Value  interface{} `json:"value"`
}

type FetchRequest struct {
	ViewState
}

// SaveRequest carries either ready patches or the grid rows with the edits
// made to them; with edits and no patches the patches come from the grid.
type SaveRequest struct {
	ViewState
	Patches []models.Patch  `json:"patches"`
	Rows    []models.Record `json:"rows"`
	Edits   []CellEdit      `json:"edits" validate:"omitempty,dive"`
}

// EditRequest applies cell edits to the posted rows without saving them.
type EditRequest struct {
	ViewState
	Rows  []models.Record `json:"rows" validate:"required,min=1"`
	Edits []CellEdit      `json:"edits" validate:"omitempty,dive"`
}

// DeleteRequest names the rows to delete. Rows is the grid content; when it
// is empty the selected ids stand in for the rows. Ids keep their JSON type.
type DeleteRequest struct {
	ViewState
	Rows      []models.Record `json:"rows"`
	Selected  []interface{}   `json:"selected"`
	Confirmed bool            `json:"confirmed"`
}

type ExportRequest struct {
	ViewState
	Rows     []models.Record `json:"rows"`
	Selected []interface{}   `json:"selected"`
	Format   string          `json:"format" validate:"omitempty,oneof=json xlsx csv"`
	Store    string          `json:"store" validate:"omitempty,oneof=s3"`
}

// ScreenResponse is the rendered screen after an action.
type ScreenResponse struct {
	Page                 string               `json:"page"`
	Tag                  string               `json:"tagname"`
	Title                string               `json:"title,omitempty"`
	Mode                 models.GridMode      `json:"mode,omitempty"`
	Config               *models.GridConfig   `json:"config,omitempty"`
	Search               []models.SearchField `json:"search,omitempty"`
	State                grid.State           `json:"state"`
	Total                int                  `json:"total"`
	Records              []models.Record      `json:"records"`
	Active               int                  `json:"active"`
	Patches              []models.Patch       `json:"patches,omitempty"`
	Outcome              screens.Outcome      `json:"outcome,omitempty"`
	Notices              []notify.Notice      `json:"notices"`
	Alerts               []screens.Alert      `json:"alerts"`
	Confirm              *screens.Alert       `json:"confirm,omitempty"`
	ConfirmationRequired bool                 `json:"confirmationRequired,omitempty"`
	Navigate             string               `json:"navigate,omitempty"`
	Error                *apperrors.Error     `json:"error,omitempty"`
}

// RequestValidator checks request DTOs against their validate tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// BindJSON decodes an optional JSON body and validates it. An empty body
// leaves req at its zero value.
func (rv *RequestValidator) BindJSON(c *gin.Context, req interface{}) error {
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil && err != io.EOF {
			return apperrors.Validation("Invalid request body", err)
		}
	}
	return rv.Validate(req)
}

func (rv *RequestValidator) Validate(req interface{}) error {
	if err := rv.validate.Struct(req); err != nil {
		return apperrors.Validation("Invalid request", err)
	}
	return nil
}

// statusFor maps a screen error to the HTTP status of the rendered response.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNothingToSave, apperrors.KindNothingSelected:
		return http.StatusUnprocessableEntity
	case apperrors.KindQuery, apperrors.KindTransport:
		return http.StatusBadGateway
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
