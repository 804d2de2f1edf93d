package service

import (
	"context"
	"io"
	"time"

	"github.com/emigdal/plnpulse/internal/domain/models"
	"github.com/emigdal/plnpulse/internal/ingestion"
	"github.com/emigdal/plnpulse/internal/logger"
	"github.com/emigdal/plnpulse/internal/report"
)

// Result is one finished pipeline run: the workbook, its attachment name,
// the rows that were skipped, and the per-symbol headline figures.
type Result struct {
	Workbook   []byte
	Filename   string
	TradeCount int
	RowErrors  []ingestion.RowError
	Summaries  []models.SymbolSummary
}

// ReportService turns a ledger stream into an xlsx report.
// This decouples HTTP handlers and the CLI from parsing and rendering.
type ReportService interface {
	Generate(ctx context.Context, ledger io.Reader) (*Result, error)
}

type reportService struct {
	builder *ingestion.TradeBuilder
	now     func() time.Time
}

// NewReportService builds the pipeline on top of the given rate resolver.
func NewReportService(resolver ingestion.RateResolver) ReportService {
	return &reportService{
		builder: ingestion.NewTradeBuilder(resolver),
		now:     time.Now,
	}
}

// Generate runs the full pipeline: read the ledger, filter to trade rows,
// enrich row by row, group by symbol, render the workbook.
//
// Row-scoped failures come back in Result.RowErrors; only header validation,
// I/O, and rate-transport failures return a non-nil error.
func (s *reportService) Generate(ctx context.Context, ledger io.Reader) (*Result, error) {
	records, err := ingestion.ReadLedger(ledger)
	if err != nil {
		return nil, err
	}
	tradeRecords := ingestion.TradeRecords(records)

	trades, rowErrors, err := ingestion.BuildTrades(ctx, s.builder, tradeRecords)
	if err != nil {
		return nil, err
	}

	workbook, summaries, err := report.Generate(trades)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		logger.L().Info().
			Str("symbol", summary.Symbol).
			Int("trades", summary.Trades).
			Int("quantity", summary.Quantity).
			Float64("total_pln", summary.TotalPLN).
			Float64("fee_pln", summary.FeePLN).
			Msg("symbol summarized")
	}

	return &Result{
		Workbook:   workbook,
		Filename:   report.Filename(s.now()),
		TradeCount: len(trades),
		RowErrors:  rowErrors,
		Summaries:  summaries,
	}, nil
}
