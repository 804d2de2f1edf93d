package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emigdal/plnpulse/internal/domain/models"
	"github.com/emigdal/plnpulse/internal/logger"
	"github.com/emigdal/plnpulse/internal/rates"
)

// RowError records one trade row that could not be built, with enough
// context to report it back to the caller without aborting the batch.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// BuildTrades enriches the given trade records one at a time, in file order.
//
// Behavior:
//   - Row-scoped failures (malformed fields, an exhausted rate lookback for
//     that row's date) are collected as RowErrors; the remaining rows are
//     still processed.
//   - Rate-service transport failures abort the batch: every following row
//     would fail the same way, and retrying the walk cannot help.
//   - Rows are never reordered; the returned trades keep ledger order.
//
// Returns:
//   - []models.Trade: the successfully built trades.
//   - []RowError: per-row failures, in file order.
//   - error: a batch-fatal failure (context cancellation, rate transport).
func BuildTrades(ctx context.Context, builder *TradeBuilder, records []Record) ([]models.Trade, []RowError, error) {
	trades := make([]models.Trade, 0, len(records))
	var rowErrors []RowError

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return nil, rowErrors, ctx.Err()
		default:
		}

		start := time.Now()
		trade, err := builder.BuildTrade(ctx, rec)
		if err != nil {
			if isRowScoped(err) {
				logger.L().Warn().Int("line", rec.Line).Err(err).Msg("trade row skipped")
				rowErrors = append(rowErrors, RowError{Line: rec.Line, Err: err})
				continue
			}
			return nil, rowErrors, fmt.Errorf("line %d: %w", rec.Line, err)
		}

		logger.L().Debug().
			Int("line", rec.Line).
			Str("symbol", trade.Symbol).
			Str("rate_date", trade.PLNExchangeRateDate.Format("2006-01-02")).
			Dur("elapsed", time.Since(start)).
			Msg("trade built")
		trades = append(trades, trade)
	}

	return trades, rowErrors, nil
}

// isRowScoped reports whether err invalidates only the row it came from.
func isRowScoped(err error) bool {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return true
	}
	var unavailable *rates.RateUnavailableError
	return errors.As(err, &unavailable)
}
