// Package report renders enriched trades into an xlsx workbook, one sheet
// per instrument symbol, with a live SUM-formula summary row per sheet so the
// recipient can audit the totals against the rows that produced them.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/emigdal/plnpulse/internal/domain/models"
)

// cellKind tells the renderer whether a column holds text or numbers.
// Numeric columns are eligible for the summary SUM formula.
type cellKind int

const (
	kindText cellKind = iota
	kindNumeric
)

// column binds a header label to the kind and extractor for its cells.
// An explicit ordered table, not a map: the report's column order is part of
// its contract.
type column struct {
	label string
	kind  cellKind
	value func(models.Trade) any
}

const summaryLabel = "Summary"

var columns = []column{
	{"Action", kindText, func(t models.Trade) any { return t.EventType }},
	{"Date", kindText, func(t models.Trade) any { return t.TradeDate.Format("2006-01-02") }},
	{"Price", kindNumeric, func(t models.Trade) any { return t.Price }},
	{"Quantity", kindNumeric, func(t models.Trade) any { return t.Quantity }},
	{"Total $", kindNumeric, func(t models.Trade) any { return t.Total }},
	{"Fee $", kindNumeric, func(t models.Trade) any { return t.Fee }},
	{"Order $", kindNumeric, func(t models.Trade) any { return t.BookedAmount }},
	{"EXR", kindNumeric, func(t models.Trade) any { return t.PLNExchangeRate }},
	{"EXR Date", kindText, func(t models.Trade) any { return t.PLNExchangeRateDate.Format("2006-01-02") }},
	{"Total PLN", kindNumeric, func(t models.Trade) any { return t.TotalPLN() }},
	{"Fee PLN", kindNumeric, func(t models.Trade) any { return t.FeePLN() }},
	{"Order PLN", kindNumeric, func(t models.Trade) any { return t.BookedAmountPLN() }},
}

// summaryColumns are the labels that receive a SUM formula in the summary
// row. Price and EXR are per-unit figures; summing them is meaningless.
var summaryColumns = map[string]bool{
	"Quantity":  true,
	"Total $":   true,
	"Fee $":     true,
	"Order $":   true,
	"Total PLN": true,
	"Fee PLN":   true,
	"Order PLN": true,
}

// Filename returns the attachment name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("trades-summary-%d.xlsx", t.UnixMilli())
}

// Generate renders the trades into workbook bytes plus the per-symbol
// headline figures. It is a pure function of its input: identical trades
// produce identical bytes (the xlsx container's own metadata aside).
//
// Sheets appear in sorted symbol order; rows within a sheet ascend by trade
// date, ties keeping ledger order.
func Generate(trades []models.Trade) ([]byte, []models.SymbolSummary, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create cell style: %w", err)
	}

	groups := groupBySymbol(trades)
	symbols := make([]string, 0, len(groups))
	for symbol := range groups {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	if len(symbols) == 0 {
		// Excel refuses workbooks without sheets; emit a note instead.
		defaultSheet := f.GetSheetName(0)
		if err := f.SetSheetName(defaultSheet, "No trades"); err != nil {
			return nil, nil, fmt.Errorf("rename default sheet: %w", err)
		}
		if err := f.SetCellStr("No trades", "A1", "The ledger contained no trade rows."); err != nil {
			return nil, nil, fmt.Errorf("write placeholder: %w", err)
		}
	}

	summaries := make([]models.SymbolSummary, 0, len(symbols))
	for i, symbol := range symbols {
		if i == 0 {
			// Reuse the default sheet for the first group.
			if err := f.SetSheetName(f.GetSheetName(0), symbol); err != nil {
				return nil, nil, fmt.Errorf("sheet %s: %w", symbol, err)
			}
		} else if _, err := f.NewSheet(symbol); err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", symbol, err)
		}

		summary, err := renderSheet(f, symbol, groups[symbol], style)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", symbol, err)
		}
		summaries = append(summaries, summary)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), summaries, nil
}

// renderSheet writes the header, one date-sorted row per trade, and the
// summary row for a single symbol.
func renderSheet(f *excelize.File, sheet string, trades []models.Trade, style int) (models.SymbolSummary, error) {
	var summary models.SymbolSummary
	summary.Symbol = sheet

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return summary, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return summary, err
	}

	// Header row, then freeze it.
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return summary, err
		}
		if err := f.SetCellStr(sheet, cell, col.label); err != nil {
			return summary, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return summary, err
	}

	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TradeDate.Before(sorted[j].TradeDate)
	})

	for rowIdx, trade := range sorted {
		row := rowIdx + 2 // header occupies row 1
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				return summary, err
			}
			if err := f.SetCellValue(sheet, cell, col.value(trade)); err != nil {
				return summary, err
			}
		}

		summary.Trades++
		summary.Quantity += trade.Quantity
		summary.TotalPLN += trade.TotalPLN()
		summary.FeePLN += trade.FeePLN()
	}

	// Summary row: label plus SUM formulas spanning exactly the data rows.
	firstDataRow := 2
	lastDataRow := len(sorted) + 1
	summaryRow := lastDataRow + 1

	if err := f.SetCellStr(sheet, fmt.Sprintf("A%d", summaryRow), summaryLabel); err != nil {
		return summary, err
	}
	if len(sorted) > 0 {
		for colIdx, col := range columns {
			if !summaryColumns[col.label] {
				continue
			}
			name, err := excelize.ColumnNumberToName(colIdx + 1)
			if err != nil {
				return summary, err
			}
			cell := fmt.Sprintf("%s%d", name, summaryRow)
			formula := fmt.Sprintf("SUM(%s%d:%s%d)", name, firstDataRow, name, lastDataRow)
			if err := f.SetCellFormula(sheet, cell, formula); err != nil {
				return summary, err
			}
		}
	}

	// One pass of styling over everything written.
	lastCell, err := excelize.CoordinatesToCellName(len(columns), summaryRow)
	if err != nil {
		return summary, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCell, style); err != nil {
		return summary, err
	}

	return summary, nil
}

func groupBySymbol(trades []models.Trade) map[string][]models.Trade {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		groups[t.Symbol] = append(groups[t.Symbol], t)
	}
	return groups
}
