package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(handled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeRequest())
	r.GET("/api/menu", func(c *gin.Context) {
		*handled = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/orders", func(c *gin.Context) {
		*handled = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestSanitizeRejectsSuspiciousURLs(t *testing.T) {
	cases := []struct {
		name     string
		rawQuery string
	}{
		{"path traversal", "file=../etc/passwd"},
		{"script tag", "q=<script>alert(1)</script>"},
		{"destructive sql", "note=drop table orders"},
		{"uppercase sql", "note=DROP TABLE orders"},
		{"command injection", "cmd=whoami"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var handled bool
			r := newTestRouter(&handled)

			req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
			req.URL.RawQuery = tc.rawQuery
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, handled, "handler must not run for rejected requests")
			assert.Contains(t, w.Body.String(), "invalid request")
		})
	}
}

func TestSanitizeRejectsOversizedDeclaredBody(t *testing.T) {
	var handled bool
	r := newTestRouter(&handled)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Content-Length", "2000000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, handled)
}

func TestSanitizeIgnoresNonNumericContentLength(t *testing.T) {
	var handled bool
	r := newTestRouter(&handled)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Content-Length", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handled)
}

func TestSanitizePassesCleanRequests(t *testing.T) {
	var handled bool
	r := newTestRouter(&handled)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.URL.RawQuery = "category=Kabobs"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handled)
}
