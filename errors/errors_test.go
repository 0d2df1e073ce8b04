package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "storefront-service/errors"
	"storefront-service/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(apperrors.InvalidInput("bad")))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(fmt.Errorf("wrapped: %w", apperrors.NotFound("gone"))))
	assert.Equal(t, apperrors.KindFault, apperrors.KindOf(stderrors.New("boom")))
	assert.Equal(t, apperrors.Kind(""), apperrors.KindOf(nil))
}

func TestFrom_WrapsForeignErrorsAsFault(t *testing.T) {
	cause := stderrors.New("socket closed")
	appErr := apperrors.From(cause)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
}

func TestErrorMiddleware_RendersKindAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(zap.NewNop()))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.NotFound("Cart not found")) })
	r.GET("/fault", func(c *gin.Context) { _ = c.Error(stderrors.New("mongo down")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Cart not found", body["message"])
	assert.Equal(t, "not_found", body["kind"])
	assert.NotContains(t, body, "error")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fault", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mongo down", body["error"])
}

func TestErrorMiddleware_LogsFaultsWithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(logger.RequestID(), apperrors.ErrorMiddleware(zap.New(core)))
	r.GET("/fault", func(c *gin.Context) { _ = c.Error(stderrors.New("redis down")) })
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.NotFound("Cart not found")) })

	req := httptest.NewRequest(http.MethodGet, "/fault", nil)
	req.Header.Set(logger.RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()[logger.RequestIDKey])
	assert.Equal(t, "/fault", entries[0].ContextMap()["path"])
}
