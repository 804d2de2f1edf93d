package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emigdal/plnpulse/internal/domain/models"
)

// tradeDateLayout is the broker's date format, e.g. "02-Jan-2024".
const tradeDateLayout = "02-Jan-2006"

// moneyScale is the rounding scale for reported monetary figures.
const moneyScale = 2

// RateResolver is the capability the builder needs from the rates layer.
type RateResolver interface {
	PreviousWorkingRate(ctx context.Context, currency string, tradeDate time.Time) (time.Time, float64, error)
}

// FieldError reports a malformed value in one ledger column. It marks the
// error as row-scoped so the pipeline can isolate it instead of aborting.
type FieldError struct {
	Column string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Column, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// TradeBuilder maps one qualifying ledger record into a models.Trade,
// resolving the PLN rate for the trade date along the way.
type TradeBuilder struct {
	resolver RateResolver
}

// NewTradeBuilder constructs a TradeBuilder on top of the given resolver.
func NewTradeBuilder(resolver RateResolver) *TradeBuilder {
	return &TradeBuilder{resolver: resolver}
}

// BuildTrade converts a record whose Type is already confirmed to be "Trade".
//
// All monetary arithmetic runs on decimals and rounds half-to-even at 2
// decimals; the fee figure must reproduce broker reconciliation bit-for-bit.
//
// Failure modes:
//   - malformed date or numeric column: *FieldError (row-scoped).
//   - rate resolution failure: the resolver's error, unchanged, so callers
//     can distinguish an exhausted lookback from a transport failure.
func (b *TradeBuilder) BuildTrade(ctx context.Context, rec Record) (models.Trade, error) {
	eventType, quantity, price := ParseEvent(rec.MustGet(colEvent))

	tradeDate, err := time.Parse(tradeDateLayout, rec.MustGet(colTradeDate))
	if err != nil {
		return models.Trade{}, &FieldError{Column: colTradeDate, Err: err}
	}

	bookedAmount, err := bookedAmount(rec)
	if err != nil {
		return models.Trade{}, err
	}

	currency := rec.MustGet(colCurrency)
	rateDate, rate, err := b.resolver.PreviousWorkingRate(ctx, currency, tradeDate)
	if err != nil {
		return models.Trade{}, fmt.Errorf("resolve %s rate for %s: %w", currency, tradeDate.Format("2006-01-02"), err)
	}

	// The fee is derived from the unrounded amount and the unrounded
	// price-times-quantity product; only the reported figures are rounded,
	// half-to-even, at 2 decimals.
	total := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
	fee := bookedAmount.Sub(total).RoundBank(moneyScale)

	symbol, _, _ := strings.Cut(rec.MustGet(colSymbol), ":")

	return models.Trade{
		TradeDate:           tradeDate,
		Instrument:          rec.MustGet(colInstrument),
		ISIN:                rec.MustGet(colISIN),
		Currency:            currency,
		Exchange:            rec.MustGet(colExchange),
		Symbol:              symbol,
		EventType:           eventType,
		Quantity:            quantity,
		Price:               price,
		Total:               total.RoundBank(moneyScale).InexactFloat64(),
		BookedAmount:        bookedAmount.RoundBank(moneyScale).InexactFloat64(),
		Fee:                 fee.InexactFloat64(),
		PLNExchangeRate:     rate,
		PLNExchangeRateDate: rateDate,
	}, nil
}

// bookedAmount computes the settlement amount in the instrument currency,
// unrounded.
//
// Current exports carry Amount in the account currency plus the disclosed
// Conversion Rate: a rate of exactly 1 means the amount is already in the
// instrument currency and is taken as-is; any other rate de-converts the
// amount and takes the absolute value. Legacy exports carry Booked Amount
// directly in the instrument currency.
func bookedAmount(rec Record) (decimal.Decimal, error) {
	if raw, ok := rec.Get(colAmount); ok {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, &FieldError{Column: colAmount, Err: err}
		}
		rawRate := rec.MustGet(colConversionRate)
		conversion, err := decimal.NewFromString(rawRate)
		if err != nil {
			return decimal.Zero, &FieldError{Column: colConversionRate, Err: err}
		}
		if conversion.IsZero() {
			return decimal.Zero, &FieldError{Column: colConversionRate, Err: fmt.Errorf("conversion rate is zero")}
		}
		if conversion.Equal(decimal.NewFromInt(1)) {
			return amount, nil
		}
		return amount.Div(conversion).Abs(), nil
	}

	raw := rec.MustGet(colBookedAmount)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &FieldError{Column: colBookedAmount, Err: err}
	}
	return amount.Abs(), nil
}
