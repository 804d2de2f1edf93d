package ingestion

import (
	"errors"
	"strings"
	"testing"
)

const sampleLedger = `Type, Event, Trade Date, Instrument, Instrument ISIN, Instrument currency, Exchange Description, Instrument Symbol, Amount, Conversion Rate
Trade, Buy 10 @ 12.5, 05-Jan-2024, Apple Inc., US0378331005, USD, NASDAQ, AAPL:xnas, -125.17, 1
Cash Transfer, Deposit, 05-Jan-2024, , , USD, , , 500.00, 1
Trade, Sell 4 @ 30, 08-Jan-2024, Microsoft Corp., US5949181045, USD, NASDAQ, MSFT:xnas, 119.55, 1
`

func TestReadLedger(t *testing.T) {
	records, err := ReadLedger(strings.NewReader(sampleLedger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Values are trimmed and keyed by header name.
	if got := records[0].MustGet("Instrument"); got != "Apple Inc." {
		t.Fatalf("Instrument = %q", got)
	}
	if got := records[2].MustGet("Event"); got != "Sell 4 @ 30" {
		t.Fatalf("Event = %q", got)
	}
	// Line numbers count from the file start, header included.
	if records[0].Line != 2 || records[2].Line != 4 {
		t.Fatalf("line numbers %d, %d", records[0].Line, records[2].Line)
	}
}

func TestTradeRecords_FiltersNonTrades(t *testing.T) {
	records, err := ReadLedger(strings.NewReader(sampleLedger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trades := TradeRecords(records)
	if len(trades) != 2 {
		t.Fatalf("got %d trade records, want 2", len(trades))
	}
	for _, rec := range trades {
		if rec.MustGet("Type") != "Trade" {
			t.Fatalf("non-trade record passed the filter: %+v", rec)
		}
	}
}

func TestReadLedger_MissingHeaders(t *testing.T) {
	in := "Type, Event, Amount, Conversion Rate\nTrade, Buy 1 @ 2, -2.00, 1\n"
	_, err := ReadLedger(strings.NewReader(in))
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderError, got %v", err)
	}
	if len(headerErr.Missing) == 0 {
		t.Fatalf("HeaderError carries no column names")
	}
}

func TestReadLedger_AmountWithoutConversionRate(t *testing.T) {
	in := `Type, Event, Trade Date, Instrument, Instrument ISIN, Instrument currency, Exchange Description, Instrument Symbol, Amount
`
	_, err := ReadLedger(strings.NewReader(in))
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderError, got %v", err)
	}
	found := false
	for _, m := range headerErr.Missing {
		if m == "Conversion Rate" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing columns %v, want Conversion Rate flagged", headerErr.Missing)
	}
}

func TestReadLedger_BookedAmountVariant(t *testing.T) {
	in := `Type, Event, Trade Date, Instrument, Instrument ISIN, Instrument currency, Exchange Description, Instrument Symbol, Booked Amount
Trade, Buy 1 @ 2.5, 03-Jan-2024, Apple Inc., US0378331005, USD, NASDAQ, AAPL:xnas, -2.55
`
	records, err := ReadLedger(strings.NewReader(in))
	if err != nil {
		t.Fatalf("legacy Booked Amount variant rejected: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if _, ok := records[0].Get("Amount"); ok {
		t.Fatalf("Amount column should not exist in this variant")
	}
}

func TestReadLedger_Empty(t *testing.T) {
	_, err := ReadLedger(strings.NewReader(""))
	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderError for empty input, got %v", err)
	}
}
