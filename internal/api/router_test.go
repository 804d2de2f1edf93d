package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/internal/service"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Provide a service that returns a valid result so the handler answers 200.
	svc := &mockReportService{result: &service.Result{
		Workbook:   []byte("xlsx-bytes"),
		Filename:   "trades-summary-1.xlsx",
		TradeCount: 1,
	}}
	r := NewRouter(NewHandler(svc))

	// Hit the parsing route through the router created by NewRouter.
	req := httptest.NewRequest(http.MethodPost, "/parsing", strings.NewReader("Type,Event\n"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	if w.Body.String() != "xlsx-bytes" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockReportService{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parsing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /parsing should not exist, got %d", w.Code)
	}
}
