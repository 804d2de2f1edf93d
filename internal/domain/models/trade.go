package models

import "time"

// Trade represents one executed transaction reconstructed from a broker
// ledger row and enriched with the PLN exchange rate that applied to it.
//
// A Trade is built once per qualifying CSV row and never mutated afterwards.
//
// Monetary semantics:
//   - Price and Total are in the instrument currency.
//   - BookedAmount is the broker-reported settlement amount in the instrument
//     currency (already de-converted when the broker disclosed a conversion rate).
//   - Fee = BookedAmount - Total, rounded half-to-even at 2 decimals.
//   - PLNExchangeRate is PLN per one unit of Currency, as published by NBP on
//     PLNExchangeRateDate, which is always strictly before TradeDate.
type Trade struct {
	TradeDate  time.Time
	Instrument string
	ISIN       string
	Currency   string
	Exchange   string
	// Symbol is the instrument ticker with any ":EXCHANGE" suffix stripped.
	Symbol string
	// EventType is "Buy" or "Sell", or the raw event text when the event did
	// not match the trade grammar (dividends, transfers and the like).
	EventType string
	Quantity  int
	Price     float64
	Total     float64
	// BookedAmount is also referred to as the order amount in reports.
	BookedAmount        float64
	Fee                 float64
	PLNExchangeRate     float64
	PLNExchangeRateDate time.Time
}

// TotalPLN returns the trade total converted to PLN at the resolved rate.
func (t Trade) TotalPLN() float64 { return t.Total * t.PLNExchangeRate }

// FeePLN returns the fee converted to PLN at the resolved rate.
func (t Trade) FeePLN() float64 { return t.Fee * t.PLNExchangeRate }

// BookedAmountPLN returns the booked amount converted to PLN at the resolved rate.
func (t Trade) BookedAmountPLN() float64 { return t.BookedAmount * t.PLNExchangeRate }
