// Package xlsx exports analyses as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/etnz/returns"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SummarySheet  = "Summary"
	HoldingsSheet = "Holdings"
	SymbolsSheet  = "Symbols"
	PeriodsSheet  = "Periods"
	ValuesSheet   = "Values"
)

const (
	headerColor  = "#cfe2f3"
	percentStyle = 10 // 0.00%
	amountStyle  = 4  // #,##0.00
)

// Export writes the analysis as a workbook with a sheet per part of the
// analysis, in the order of the sheet names. Metrics not available are left
// blank.
func Export(w io.Writer, a *returns.Analysis) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("err", err.Error()))
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	for _, name := range []string{HoldingsSheet, SymbolsSheet, PeriodsSheet, ValuesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("error creating sheet %q: %w", name, err)
		}
	}

	s, err := newSheetWriter(f)
	if err != nil {
		return err
	}
	s.summary(a)
	s.holdings(a.Holdings)
	s.symbols(a.Symbols)
	s.periods(a.Periods)
	s.values(a.Values)
	if s.err != nil {
		return s.err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// sheetWriter fills cells, keeping the first error.
type sheetWriter struct {
	f                             *excelize.File
	header, percent, amount, days int
	err                           error
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	s := &sheetWriter{f: f}
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
	}); err != nil {
		return nil, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: percentStyle}); err != nil {
		return nil, err
	}
	if s.amount, err = f.NewStyle(&excelize.Style{NumFmt: amountStyle}); err != nil {
		return nil, err
	}
	fmtDays := "0.0"
	if s.days, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtDays}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sheetWriter) set(sheet string, col, row int, v any, style int) {
	if s.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(sheet, name, v); err != nil {
		s.err = err
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(sheet, name, name, style)
	}
}

// metric sets a metric cell, blank when the metric is not valid.
func (s *sheetWriter) metric(sheet string, col, row int, m returns.Metric, style int) {
	if !m.Valid {
		return
	}
	s.set(sheet, col, row, m.Value, style)
}

func (s *sheetWriter) headers(sheet string, names ...string) {
	for i, name := range names {
		s.set(sheet, i+1, 1, name, s.header)
	}
}

func (s *sheetWriter) summary(a *returns.Analysis) {
	const sheet = SummarySheet
	s.headers(sheet, "Metric", "Value")
	rows := []struct {
		label string
		write func(row int)
	}{
		{"Analysis", func(row int) { s.set(sheet, 2, row, a.ID.String(), 0) }},
		{"Date", func(row int) { s.set(sheet, 2, row, a.On.String(), 0) }},
		{"Currency", func(row int) { s.set(sheet, 2, row, a.Currency, 0) }},
		{"Total value", func(row int) { s.set(sheet, 2, row, a.TotalValue.Float(), s.amount) }},
		{"Total investment", func(row int) { s.set(sheet, 2, row, a.TotalInvestment.Float(), s.amount) }},
		{"Sell proceeds", func(row int) { s.set(sheet, 2, row, a.SellProceeds.Float(), s.amount) }},
		{"Total return", func(row int) { s.metric(sheet, 2, row, a.TotalReturn, s.percent) }},
		{"XIRR", func(row int) { s.metric(sheet, 2, row, a.XIRR, s.percent) }},
		{"MIRR", func(row int) { s.metric(sheet, 2, row, a.MIRR, s.percent) }},
		{"TWR", func(row int) { s.metric(sheet, 2, row, a.TWR, s.percent) }},
		{"Holding days", func(row int) { s.metric(sheet, 2, row, a.HoldingDays, s.days) }},
		{"Annualized return", func(row int) { s.metric(sheet, 2, row, a.AnnualizedReturn, s.percent) }},
	}
	for i, r := range rows {
		s.set(sheet, 1, i+2, r.label, 0)
		r.write(i + 2)
	}
}

func (s *sheetWriter) holdings(holdings []returns.Holding) {
	const sheet = HoldingsSheet
	s.headers(sheet, "Symbol", "Quantity", "Price", "Value")
	for i, h := range holdings {
		row := i + 2
		s.set(sheet, 1, row, h.Symbol, 0)
		s.set(sheet, 2, row, h.Quantity.Float(), 0)
		s.set(sheet, 3, row, h.Price.Float(), s.amount)
		s.set(sheet, 4, row, h.Value.Float(), s.amount)
	}
}

func (s *sheetWriter) symbols(symbols []returns.SymbolAnalysis) {
	const sheet = SymbolsSheet
	s.headers(sheet, "Symbol", "Quantity", "Price", "Value", "Average cost", "Total return", "XIRR", "Holding days", "Annualized return")
	for i, sa := range symbols {
		row := i + 2
		s.set(sheet, 1, row, sa.Symbol, 0)
		s.set(sheet, 2, row, sa.Quantity.Float(), 0)
		s.set(sheet, 3, row, sa.Price.Float(), s.amount)
		s.set(sheet, 4, row, sa.Value.Float(), s.amount)
		s.set(sheet, 5, row, sa.AverageCost.Float(), s.amount)
		s.metric(sheet, 6, row, sa.TotalReturn, s.percent)
		s.metric(sheet, 7, row, sa.XIRR, s.percent)
		s.metric(sheet, 8, row, sa.HoldingDays, s.days)
		s.metric(sheet, 9, row, sa.AnnualizedReturn, s.percent)
	}
}

func (s *sheetWriter) periods(periods []returns.SubPeriod) {
	const sheet = PeriodsSheet
	s.headers(sheet, "From", "To", "Start", "End", "Contribution", "Return")
	for i, p := range periods {
		row := i + 2
		s.set(sheet, 1, row, p.From.String(), 0)
		s.set(sheet, 2, row, p.To.String(), 0)
		s.set(sheet, 3, row, p.Start.Float(), s.amount)
		s.set(sheet, 4, row, p.End.Float(), s.amount)
		s.set(sheet, 5, row, p.Contribution.Float(), s.amount)
		s.set(sheet, 6, row, p.Return, s.percent)
	}
}

func (s *sheetWriter) values(values []returns.ValuePoint) {
	const sheet = ValuesSheet
	s.headers(sheet, "Date", "Value")
	for i, v := range values {
		row := i + 2
		s.set(sheet, 1, row, v.On.String(), 0)
		s.set(sheet, 2, row, v.Value.Float(), s.amount)
	}
}
