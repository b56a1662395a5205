package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Nazarious-ucu/newsletter-api/internal/handlers/middleware"
)

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(middleware.AccessLog(zap.New(core), "X-Request-ID"))
	r.GET("/health_check", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/subscriptions", func(c *gin.Context) {
		c.Header("X-Request-ID", "abc")
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health_check", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/subscriptions", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/health_check", entries[0].ContextMap()["path"])
	assert.NotContains(t, entries[0].ContextMap(), "request_id")

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status_code"])
	assert.Equal(t, "abc", entries[1].ContextMap()["request_id"])
}
