package screens

import (
	"context"
	"sync"

	"catalog-admin/clients"
	"catalog-admin/imex"
	"catalog-admin/models"
	"catalog-admin/notify"
)

// AlertType selects the icon of a dialog.
type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
)

// Alert is a blocking dialog. ConfirmText and CancelText are only used by Confirm.
type Alert struct {
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	ConfirmText string    `json:"confirmText,omitempty"`
	CancelText  string    `json:"cancelText,omitempty"`
}

// Dialogs shows alerts and asks for confirmation.
type Dialogs interface {
	Alert(ctx context.Context, a Alert)
	Confirm(ctx context.Context, a Alert) (bool, error)
}

// Navigator moves the host application between pages.
type Navigator interface {
	Back(ctx context.Context)
}

// ImportDialog previews imported records and returns the patches to save
// once the user confirms.
type ImportDialog interface {
	Open(ctx context.Context, records []models.Record, cfg imex.ImportConfig) ([]models.Patch, bool, error)
}

// CodeLookup returns the entries of a common code table.
type CodeLookup interface {
	CodesByName(ctx context.Context, name string) ([]models.Code, error)
}

// Host bundles what a screen needs from the hosting application.
// Nil collaborators are replaced by recording no-ops.
type Host struct {
	Client    clients.Executor
	Dialogs   Dialogs
	Notifier  notify.Notifier
	Navigator Navigator
	Importer  ImportDialog
	Codes     CodeLookup
	Mode      models.GridMode
}

func (h Host) withDefaults() Host {
	if h.Dialogs == nil {
		h.Dialogs = &RecordingDialogs{}
	}
	if h.Notifier == nil {
		h.Notifier = notify.Fanout{}
	}
	if h.Navigator == nil {
		h.Navigator = &RecordingNavigator{}
	}
	if h.Importer == nil {
		h.Importer = imex.PreviewDialog{}
	}
	if h.Mode == "" {
		h.Mode = models.ModeGrid
	}
	return h
}

// RecordingDialogs answers every confirmation with Answer and keeps what was
// shown, so an HTTP response can carry the alerts back to the browser.
type RecordingDialogs struct {
	Answer bool

	mu       sync.Mutex
	alerts   []Alert
	confirms []Alert
}

func NewRecordingDialogs(answer bool) *RecordingDialogs {
	return &RecordingDialogs{Answer: answer}
}

func (d *RecordingDialogs) Alert(ctx context.Context, a Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, a)
}

func (d *RecordingDialogs) Confirm(ctx context.Context, a Alert) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirms = append(d.confirms, a)
	return d.Answer, nil
}

func (d *RecordingDialogs) Alerts() []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Alert{}, d.alerts...)
}

func (d *RecordingDialogs) Confirms() []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Alert{}, d.confirms...)
}

// RecordingNavigator records navigation steps for the HTTP response.
type RecordingNavigator struct {
	mu    sync.Mutex
	steps []string
}

func (n *RecordingNavigator) Back(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.steps = append(n.steps, "back")
}

func (n *RecordingNavigator) Steps() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.steps...)
}
