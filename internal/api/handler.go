package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emigdal/plnpulse/internal/domain/dto"
	"github.com/emigdal/plnpulse/internal/ingestion"
	"github.com/emigdal/plnpulse/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler provides HTTP handlers for the trade-report endpoint.
//
// Responsibilities:
//   - Validate the uploaded ledger stream
//   - Run the report pipeline through the service layer
//   - Stream the resulting workbook back as an attachment
//   - Return structured JSON errors with appropriate HTTP status codes
type Handler struct {
	svc service.ReportService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.ReportService) *Handler {
	return &Handler{svc: svc}
}

// ParseLedger handles POST /parsing requests.
//
// Request:
//   - Body: raw broker ledger CSV bytes.
//
// Responses:
//   - 200 OK: the generated xlsx report, delivered as an attachment named
//     trades-summary-<epoch-millis>.xlsx. When some rows were skipped the
//     X-Skipped-Rows header carries their count.
//   - 400 Bad Request: empty body or unusable CSV header.
//   - 422 Unprocessable Entity: trade rows were present but none could be
//     built; the body lists each row failure.
//   - 502 Bad Gateway: the exchange-rate service failed.
//   - 504 Gateway Timeout: the request deadline expired before every rate
//     round trip completed.
func (h *Handler) ParseLedger(c *gin.Context) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("request body must contain a CSV ledger", nil))
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), c.Request.Body)
	if err != nil {
		var headerErr *ingestion.HeaderError
		if errors.As(err, &headerErr) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid ledger header", err))
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponse("report generation timed out", err))
			return
		}
		// Anything else at this point is the rate service or the transport
		// to it; the upload itself was readable.
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("exchange-rate service failure", err))
		return
	}

	if result.TradeCount == 0 && len(result.RowErrors) > 0 {
		resp := dto.RowErrorsResponse{Message: "no trade rows could be processed"}
		for _, rowErr := range result.RowErrors {
			resp.RowErrors = append(resp.RowErrors, dto.RowError{Line: rowErr.Line, Reason: rowErr.Err.Error()})
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	if n := len(result.RowErrors); n > 0 {
		c.Header("X-Skipped-Rows", strconv.Itoa(n))
	}
	c.Header("Content-Disposition", `attachment; filename=`+result.Filename)
	c.Data(http.StatusOK, xlsxContentType, result.Workbook)
}
