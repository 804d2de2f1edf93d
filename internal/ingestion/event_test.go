package ingestion

import "testing"

func TestParseEvent(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		action   string
		quantity int
		price    float64
	}{
		{"buy", "Buy 10 @ 12.5", "Buy", 10, 12.5},
		{"sell", "Sell 3 @ 101", "Sell", 3, 101},
		{"integer price", "Buy 250 @ 7", "Buy", 250, 7},
		{"embedded in text", "Executed: Buy 5 @ 33.02 (limit order)", "Buy", 5, 33.02},
		{"dividend falls back", "Dividend payment", "Dividend payment", 0, 0},
		{"lowercase action falls back", "buy 10 @ 12.5", "buy 10 @ 12.5", 0, 0},
		{"missing at sign falls back", "Buy 10 12.5", "Buy 10 12.5", 0, 0},
		{"negative quantity falls back", "Buy -10 @ 12.5", "Buy -10 @ 12.5", 0, 0},
		{"empty", "", "", 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			action, quantity, price := ParseEvent(c.in)
			if action != c.action || quantity != c.quantity || price != c.price {
				t.Fatalf("ParseEvent(%q) = (%q, %d, %v), want (%q, %d, %v)",
					c.in, action, quantity, price, c.action, c.quantity, c.price)
			}
		})
	}
}
