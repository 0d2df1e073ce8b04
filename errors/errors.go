package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"storefront-service/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind classifies an error for callers and for HTTP mapping.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidCartLine Kind = "invalid_cart_line"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindFault           Kind = "fault"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func InvalidInput(message string) *Error {
	return New(http.StatusBadRequest, KindInvalidInput, message, nil)
}

// InvalidCartLine reports a checkout line that cannot be priced.
func InvalidCartLine(message string) *Error {
	return New(http.StatusBadRequest, KindInvalidCartLine, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

// Fault wraps an unexpected backend error.
func Fault(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindFault, message, err)
}

// From returns err as an *Error, wrapping anything foreign as a Fault.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Fault("Internal server error", err)
}

// KindOf reports the kind of err. Unknown errors are faults.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Body is the JSON payload written for an error response.
func (e *Error) Body() gin.H {
	body := gin.H{"message": e.Message, "kind": e.Kind}
	if e.Kind == KindFault && e.Err != nil {
		body["error"] = e.Err.Error()
	}
	return body
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := From(c.Errors.Last().Err)
		if appErr.Kind == KindFault {
			logger.WithRequest(log, c).Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(appErr),
			)
		}

		c.AbortWithStatusJSON(appErr.Code, appErr.Body())
	}
}
