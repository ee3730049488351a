package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler("test").Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Root(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := NewHealthHandler("1.2.3").Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["success"] != true || resp["version"] != "1.2.3" {
		t.Fatalf("unexpected banner: %v", resp)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	e := newEcho()

	healthy := NewHealthDependenciesHandler(map[string]DependencyCheck{
		"mongodb": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	if err := healthy.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	degraded := NewHealthDependenciesHandler(map[string]DependencyCheck{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	if err := degraded.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	deps, _ := decode(t, rec)["dependencies"].(map[string]any)
	redis, _ := deps["redis"].(map[string]any)
	if redis["status"] != "unhealthy" {
		t.Fatalf("unexpected redis status: %v", deps["redis"])
	}
}
