package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		r := setupRouter(CORS([]string{"*"}))
		rec := doRequest(r, httptest.NewRequest(http.MethodPost, "/test", http.NoBody))
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow origin = %q, want *", got)
		}
	})

	t.Run("listed_origin", func(t *testing.T) {
		r := setupRouter(CORS([]string{"http://dash.test"}))
		req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
		req.Header.Set("Origin", "http://dash.test")
		rec := doRequest(r, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dash.test" {
			t.Errorf("allow origin = %q", got)
		}
	})

	t.Run("unlisted_origin", func(t *testing.T) {
		r := setupRouter(CORS([]string{"http://dash.test"}))
		req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
		req.Header.Set("Origin", "http://evil.test")
		rec := doRequest(r, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no allow origin header, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		r := setupRouter(CORS(nil))
		r.OPTIONS("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		rec := doRequest(r, httptest.NewRequest(http.MethodOptions, "/test", http.NoBody))
		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want 204", rec.Code)
		}
	})
}
