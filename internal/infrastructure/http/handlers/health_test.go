package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/infrastructure/db/sqldb"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	db, err := sqldb.Open(context.Background(), sqldb.Config{Driver: sqldb.DriverSQLite, DSN: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	h := NewHealthDependenciesHandler(db, nil, nil)
	e := echo.New()

	probe := func() (int, readinessResponse) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
		if err := h.Readiness(c); err != nil {
			t.Fatalf("Readiness returned error: %v", err)
		}
		var body readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return rec.Code, body
	}

	code, body := probe()
	if code != http.StatusOK || body.Dependencies["database"].Status != "ok" {
		t.Fatalf("expected healthy database, got %d %+v", code, body)
	}
	if _, ok := body.Dependencies["redis"]; ok {
		t.Fatalf("unconfigured redis should not be reported")
	}

	if err := sqldb.Close(db); err != nil {
		t.Fatalf("close db: %v", err)
	}
	code, body = probe()
	if code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %+v", code, body)
	}
}
