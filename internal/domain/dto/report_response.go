package dto

// RowError describes one ledger row that could not be turned into a trade.
//
// Line is the 1-based line number in the uploaded CSV (header included),
// Reason is the parse failure for that row.
type RowError struct {
	Line   int    `json:"line" example:"17"`
	Reason string `json:"reason" example:"invalid Trade Date: parsing time \"31-Foo-2024\""`
}

// RowErrorsResponse is returned when the uploaded ledger contained trade rows
// but none of them could be built into a valid Trade record.
type RowErrorsResponse struct {
	Message   string     `json:"message" example:"no trade rows could be processed"`
	RowErrors []RowError `json:"row_errors"`
}
