package ingestion

import (
	"regexp"
	"strconv"
)

// eventPattern matches trade events of the form "Buy 10 @ 12.5" /
// "Sell 3 @ 101" anywhere in the event text.
var eventPattern = regexp.MustCompile(`(Buy|Sell)\s+(\d+)\s+@\s+([\d.]+)`)

// ParseEvent extracts (action, quantity, price) from a free-text event
// description.
//
// Text that does not match the trade grammar is returned verbatim with zero
// quantity and price. Dividend payments, cash transfers and other non-trade
// events flow through the ledger with Type == "Trade" in some export
// variants, and must not abort the run.
func ParseEvent(text string) (action string, quantity int, price float64) {
	m := eventPattern.FindStringSubmatch(text)
	if m == nil {
		return text, 0, 0
	}

	quantity, err := strconv.Atoi(m[2])
	if err != nil {
		// \d+ can only fail Atoi by overflowing int.
		return text, 0, 0
	}
	price, err = strconv.ParseFloat(m[3], 64)
	if err != nil {
		// [\d.]+ admits forms like "1.2.3" that are not numbers.
		return text, 0, 0
	}
	return m[1], quantity, price
}
