package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Consumed ledger columns. The broker export carries more columns than these;
// extras are ignored, and column order is not fixed between export variants,
// so records are keyed by header name rather than position.
const (
	colType           = "Type"
	colEvent          = "Event"
	colTradeDate      = "Trade Date"
	colInstrument     = "Instrument"
	colISIN           = "Instrument ISIN"
	colCurrency       = "Instrument currency"
	colExchange       = "Exchange Description"
	colSymbol         = "Instrument Symbol"
	colAmount         = "Amount"
	colConversionRate = "Conversion Rate"
	colBookedAmount   = "Booked Amount"
)

// typeTrade marks rows that represent executed transactions; every other
// Type (dividends, transfers, fees) is filtered out before building.
const typeTrade = "Trade"

// requiredHeaders must all be present in the header row. Amount and
// Conversion Rate are validated separately because older export variants
// carry Booked Amount instead.
var requiredHeaders = []string{
	colType,
	colEvent,
	colTradeDate,
	colInstrument,
	colISIN,
	colCurrency,
	colExchange,
	colSymbol,
}

// HeaderError reports a ledger whose header row cannot drive the pipeline.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("ledger header is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Record is one ledger row with its fields keyed by header name.
type Record struct {
	// Line is the 1-based line number in the source file, header included.
	Line   int
	fields map[string]string
}

// Get returns the trimmed value of the named column and whether the column
// exists in this ledger variant.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// MustGet returns the trimmed value of the named column, or "" when absent.
func (r Record) MustGet(name string) string {
	return r.fields[name]
}

// ReadLedger consumes a broker ledger CSV and returns its rows as
// header-keyed records, in file order.
//
// Behavior:
//   - The header row is required and validated against requiredHeaders, plus
//     the amount variant check (Amount + Conversion Rate, or Booked Amount).
//   - Surrounding whitespace is trimmed from headers and values.
//   - Rows shorter than the header are rejected; the CSV reader already
//     rejects longer ones.
//
// Returns:
//   - []Record: all rows (callers filter by Type).
//   - error: *HeaderError for unusable headers, wrapped I/O errors otherwise.
func ReadLedger(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated against the header below

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &HeaderError{Missing: requiredHeaders}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	// Amount variant: either Amount + Conversion Rate, or legacy Booked Amount.
	_, hasAmount := index[colAmount]
	_, hasConversion := index[colConversionRate]
	_, hasBooked := index[colBookedAmount]
	switch {
	case hasAmount && !hasConversion:
		missing = append(missing, colConversionRate)
	case !hasAmount && !hasBooked:
		missing = append(missing, colAmount)
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	var records []Record
	line := 1 // header already read

	for {
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		fields := make(map[string]string, len(index))
		for name, i := range index {
			if i >= len(rec) {
				return nil, fmt.Errorf("line %d: missing column %q (row has %d fields)", line, name, len(rec))
			}
			fields[name] = strings.TrimSpace(rec[i])
		}
		records = append(records, Record{Line: line, fields: fields})
	}

	return records, nil
}

// TradeRecords filters a ledger down to the rows that represent executed
// trades, preserving file order.
func TradeRecords(records []Record) []Record {
	var out []Record
	for _, rec := range records {
		if rec.MustGet(colType) == typeTrade {
			out = append(out, rec)
		}
	}
	return out
}
