package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/internal/domain/dto"
	"github.com/emigdal/plnpulse/internal/ingestion"
	"github.com/emigdal/plnpulse/internal/service"
)

// mockReportService implements service.ReportService for handler tests.
type mockReportService struct {
	result *service.Result
	err    error
}

func (m *mockReportService) Generate(_ context.Context, ledger io.Reader) (*service.Result, error) {
	_, _ = io.Copy(io.Discard, ledger)
	return m.result, m.err
}

var _ service.ReportService = (*mockReportService)(nil)

func postLedger(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/parsing", h.ParseLedger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parsing", strings.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

func TestParseLedger_Success(t *testing.T) {
	h := NewHandler(&mockReportService{result: &service.Result{
		Workbook:   []byte("xlsx-bytes"),
		Filename:   "trades-summary-1700000000000.xlsx",
		TradeCount: 2,
	}})

	w := postLedger(t, h, "Type,Event\n")

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content type %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd != "attachment; filename=trades-summary-1700000000000.xlsx" {
		t.Fatalf("content disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Fatalf("body %q", w.Body.String())
	}
	if w.Header().Get("X-Skipped-Rows") != "" {
		t.Fatalf("unexpected X-Skipped-Rows header")
	}
}

func TestParseLedger_SkippedRowsHeader(t *testing.T) {
	h := NewHandler(&mockReportService{result: &service.Result{
		Workbook:   []byte("xlsx-bytes"),
		Filename:   "trades-summary-1.xlsx",
		TradeCount: 1,
		RowErrors:  []ingestion.RowError{{Line: 3, Err: errors.New("invalid Trade Date")}},
	}})

	w := postLedger(t, h, "Type,Event\n")

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Skipped-Rows"); got != "1" {
		t.Fatalf("X-Skipped-Rows %q, want 1", got)
	}
}

func TestParseLedger_EmptyBody(t *testing.T) {
	h := NewHandler(&mockReportService{})

	w := postLedger(t, h, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestParseLedger_HeaderError(t *testing.T) {
	h := NewHandler(&mockReportService{err: &ingestion.HeaderError{Missing: []string{"Trade Date"}}})

	w := postLedger(t, h, "Foo,Bar\n")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.Contains(resp.ErrorDetails, "Trade Date") {
		t.Fatalf("error details %q", resp.ErrorDetails)
	}
}

func TestParseLedger_RateServiceFailure(t *testing.T) {
	h := NewHandler(&mockReportService{err: errors.New("nbp request: connection refused")})

	w := postLedger(t, h, "Type,Event\n")

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", w.Code)
	}
}

func TestParseLedger_DeadlineExpiryIsGatewayTimeout(t *testing.T) {
	h := NewHandler(&mockReportService{err: fmt.Errorf("resolve USD rate for 2024-01-05: %w", context.DeadlineExceeded)})

	w := postLedger(t, h, "Type,Event\n")

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status %d, want 504", w.Code)
	}
}

func TestParseLedger_AllRowsFailed(t *testing.T) {
	h := NewHandler(&mockReportService{result: &service.Result{
		Workbook:   []byte("xlsx-bytes"),
		Filename:   "trades-summary-1.xlsx",
		TradeCount: 0,
		RowErrors: []ingestion.RowError{
			{Line: 2, Err: errors.New("invalid Trade Date")},
			{Line: 3, Err: errors.New("invalid Amount")},
		},
	}})

	w := postLedger(t, h, "Type,Event\n")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
	var resp dto.RowErrorsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.RowErrors) != 2 || resp.RowErrors[0].Line != 2 {
		t.Fatalf("row errors %+v", resp.RowErrors)
	}
}
