package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "spendchat/internal/errors"
)

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := setupRouter(RequestLogging())

	rec := doRequest(r, httptest.NewRequest(http.MethodPost, "/test", http.NoBody))
	if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("expected generated uuid request id, got %q", rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
	inbound := uuid.New().String()
	req.Header.Set("X-Request-ID", inbound)
	rec = doRequest(r, req)
	if rec.Header().Get("X-Request-ID") != inbound {
		t.Errorf("expected inbound request id to be reused")
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrUserNotFound) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("db exploded")) })

	rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "USER_NOT_FOUND" {
		t.Errorf("unexpected app error response %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "INTERNAL_ERROR" {
		t.Errorf("unexpected raw error response %d %s", rec.Code, rec.Body.String())
	}
}
