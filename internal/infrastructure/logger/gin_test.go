package logger

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
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success is info", http.StatusOK, zapcore.InfoLevel},
		{"client error is warn", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"server error is error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)
			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
				c.Next()
			})
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/api/v1/music", func(c *gin.Context) {
				FromContext(c.Request.Context()).Info("Handler ran")
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/music", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			handlerLogs := recorded.FilterMessage("Handler ran").All()
			require.Len(t, handlerLogs, 1)
			assert.Equal(t, "req-42", handlerLogs[0].ContextMap()["request_id"])

			requestLogs := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, requestLogs, 1)
			assert.Equal(t, tt.level, requestLogs[0].Level)
			assert.Equal(t, int64(tt.status), requestLogs[0].ContextMap()["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}
