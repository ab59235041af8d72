package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies screen failures so the HTTP layer and the screens agree on
// what happened without inspecting messages.
type Kind string

const (
	KindQuery           Kind = "query"
	KindTransport       Kind = "transport"
	KindNothingToSave   Kind = "nothing_to_save"
	KindNothingSelected Kind = "nothing_selected"
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int      `json:"code"`
	Kind    Kind     `json:"kind,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so errors.Is(err, ErrNothingToSave) works
// for any wrapped instance.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewKind creates a new Error of the given kind
func NewKind(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Query reports a GraphQL response that carried a non-empty errors list.
func Query(messages []string) *Error {
	e := NewKind(KindQuery, http.StatusBadGateway, "GraphQL query failed", nil)
	e.Details = messages
	if len(messages) > 0 {
		e.Err = stderrors.New(messages[0])
	}
	return e
}

// Transport reports a failure to reach or decode the backend.
func Transport(err error) *Error {
	return NewKind(KindTransport, http.StatusBadGateway, "Backend unavailable", err)
}

// Validation reports a malformed request payload.
func Validation(message string, err error) *Error {
	return NewKind(KindValidation, http.StatusBadRequest, message, err)
}

// NotFound reports an unknown page, screen or job.
func NotFound(message string) *Error {
	return NewKind(KindNotFound, http.StatusNotFound, message, nil)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		if appErr.Kind == "" {
			return KindInternal
		}
		return appErr.Kind
	}
	return KindInternal
}

// Sentinel kinds, compared with errors.Is.
var (
	ErrNothingToSave   = NewKind(KindNothingToSave, http.StatusUnprocessableEntity, "There is nothing to save", nil)
	ErrNothingSelected = NewKind(KindNothingSelected, http.StatusUnprocessableEntity, "There is nothing to delete", nil)
	ErrQuery           = &Error{Kind: KindQuery}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if !stderrors.As(err, &appErr) {
				appErr = New(http.StatusInternalServerError, ErrInternalServer.Message, err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
