package models

// SymbolSummary represents aggregated figures for one instrument symbol,
// matching the Summary row of that symbol's report sheet.
//
// Fields:
//   - Symbol: the instrument ticker the figures belong to.
//   - Trades: number of trade rows in the sheet.
//   - Quantity: total units traded across all rows.
//   - TotalPLN: sum of the PLN-converted trade totals.
//   - FeePLN: sum of the PLN-converted fees.
//
// This model is used for run logging and for API clients that want the
// headline numbers without opening the workbook.
type SymbolSummary struct {
	Symbol   string  `json:"symbol" example:"AAPL"`
	Trades   int     `json:"trades" example:"12"`
	Quantity int     `json:"quantity" example:"340"`
	TotalPLN float64 `json:"total_pln" example:"51234.78"`
	FeePLN   float64 `json:"fee_pln" example:"112.04"`
}
