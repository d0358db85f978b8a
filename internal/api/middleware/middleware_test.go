package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/motolog/motolog/internal/session"
)

func newRouter(t *testing.T, v *session.Verifier, logger *zap.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Logger(logger))
	r.GET("/api/me", Authenticate(v), func(c *gin.Context) {
		rider, err := session.FromContext(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		ginRider, ok := Rider(c)
		if !ok || ginRider.ID != rider.ID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": rider.ID})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	v := session.NewVerifier("secret", "")
	token, err := v.Issue("rider-42", time.Hour)
	require.NoError(t, err)
	r := newRouter(t, v, zap.NewNop())

	tests := []struct {
		name   string
		url    string
		header string
		status int
	}{
		{"bearer header", "/api/me", "Bearer " + token, http.StatusOK},
		{"query token", "/api/me?token=" + token, "", http.StatusOK},
		{"missing", "/api/me", "", http.StatusUnauthorized},
		{"no bearer prefix", "/api/me", token, http.StatusUnauthorized},
		{"garbage", "/api/me", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"rider-42"}`, w.Body.String())
			}
		})
	}
}

func TestLogger_RecordsRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	v := session.NewVerifier("secret", "")
	r := newRouter(t, v, zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Request rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/me", fields["path"])
	assert.EqualValues(t, http.StatusUnauthorized, fields["status"])
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/api/trips", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/trips", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
