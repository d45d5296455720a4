// Package export renders query reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
)

const (
	SheetSummary      = "Summary"
	SheetTransactions = "Transactions"

	// TransferCategory labels transfer legs, which carry no category
	TransferCategory = "Transfer"

	dateLayout = "2006-01-02"
)

var transactionHeaders = []string{"Date", "Description", "Category", "Wallet", "Type", "Amount"}

// Exporter writes reports, resolving category and wallet ids to names
type Exporter struct {
	categories map[int64]string
	wallets    map[int64]string
}

// NewExporter creates a new Exporter over the given reference data
func NewExporter(categories []domain.Category, wallets []domain.Wallet) *Exporter {
	e := &Exporter{
		categories: make(map[int64]string, len(categories)),
		wallets:    make(map[int64]string, len(wallets)),
	}
	for _, c := range categories {
		e.categories[c.ID] = c.Name
	}
	for _, w := range wallets {
		e.wallets[w.ID] = w.Name
	}
	return e
}

// WriteReport writes the report as an XLSX workbook with a summary sheet
// and a transactions sheet
func (e *Exporter) WriteReport(w io.Writer, r query.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := e.writeSummary(f, styles, r); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if _, err := f.NewSheet(SheetTransactions); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := e.writeTransactions(f, styles, r.Transactions); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type styles struct {
	header int
	title  int
	money  int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4A6BFF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return styles{}, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return styles{}, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4, Border: border})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, title: title, money: money}, nil
}

func (e *Exporter) writeSummary(f *excelize.File, st styles, r query.Report) error {
	sheet := SheetSummary
	rows := [][]any{
		{"MoneyMaster report"},
		{"Period", periodLabel(r.StartDate, r.EndDate)},
		{},
		{"Income", r.Income.InexactFloat64()},
		{"Expense", r.Expense.InexactFloat64()},
		{"Net", r.Net.InexactFloat64()},
		{"Transactions", len(r.Transactions)},
		{"Income transactions", r.IncomeCount},
		{"Expense transactions", r.ExpenseCount},
		{},
		{"Category", "Total", "Percentage"},
	}
	for _, c := range r.Categories {
		rows = append(rows, []any{c.Name, c.Total.InexactFloat64(), c.Percentage.InexactFloat64()})
	}

	if err := setRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "B4", "B6", st.money); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A11", "C11", st.header); err != nil {
		return err
	}
	if len(r.Categories) > 0 {
		last := fmt.Sprintf("B%d", 11+len(r.Categories))
		if err := f.SetCellStyle(sheet, "B12", last, st.money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "C", 18)
}

func (e *Exporter) writeTransactions(f *excelize.File, st styles, txs []domain.Transaction) error {
	sheet := SheetTransactions
	rows := make([][]any, 0, len(txs)+1)
	header := make([]any, len(transactionHeaders))
	for i, h := range transactionHeaders {
		header[i] = h
	}
	rows = append(rows, header)

	for _, tx := range txs {
		rows = append(rows, []any{
			tx.Date.Format(dateLayout),
			tx.Description,
			e.categoryName(tx),
			e.walletName(tx.WalletID),
			string(tx.Type),
			tx.Amount.InexactFloat64(),
		})
	}

	if err := setRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", st.header); err != nil {
		return err
	}
	if len(txs) > 0 {
		if err := f.SetCellStyle(sheet, "F2", fmt.Sprintf("F%d", len(txs)+1), st.money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "D", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "F", "F", 16)
}

func (e *Exporter) categoryName(tx domain.Transaction) string {
	if tx.IsTransferLeg() {
		return TransferCategory
	}
	if name, ok := e.categories[tx.CategoryID]; ok {
		return name
	}
	return domain.UnknownName
}

func (e *Exporter) walletName(id int64) string {
	if name, ok := e.wallets[id]; ok {
		return name
	}
	return domain.UnknownName
}

func setRows(f *excelize.File, sheet string, firstRow int, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func periodLabel(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return start.Format(dateLayout) + " to " + end.Format(dateLayout)
	case start != nil:
		return "from " + start.Format(dateLayout)
	case end != nil:
		return "until " + end.Format(dateLayout)
	}
	return "all time"
}
