package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetReport       = "Report"
	sheetTransactions = "Transactions"
	sheetDraws        = "Draws"

	usdFormat = "$#,##0.00;($#,##0.00)"
)

// ExportAgentReport renders the monthly agent report as an XLSX workbook
// with Report, Transactions, and Draws sheets. Returns the file bytes and a
// suggested filename.
func (s *AgentReportService) ExportAgentReport(ctx context.Context, agentID uuid.UUID, month time.Month, year int) ([]byte, string, error) {
	report, err := s.AgentReport(ctx, agentID, month, year)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &workbookWriter{file: f}
	if err := w.writeReportSheet(report); err == nil {
		err = w.writeTransactionsSheet(report)
		if err == nil {
			err = w.writeDrawsSheet(report)
		}
	}
	if w.err != nil {
		err = w.err
	}
	if err != nil {
		s.logger.Error("Failed to build report workbook", zap.Error(err))
		return nil, "", shared.NewDomainError("INTERNAL_ERROR", "Failed to build report export")
	}

	// The default sheet is replaced by the three report sheets
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", shared.NewDomainError("INTERNAL_ERROR", "Failed to build report export")
	}
	if idx, err := f.GetSheetIndex(sheetReport); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("Failed to serialize report workbook", zap.Error(err))
		return nil, "", shared.NewDomainError("INTERNAL_ERROR", "Failed to build report export")
	}

	filename := fmt.Sprintf("agent-report-%s-%d-%02d.xlsx", agentID, year, int(month))
	return buf.Bytes(), filename, nil
}

// workbookWriter collects the first error so sheet builders can stay linear
type workbookWriter struct {
	file *excelize.File
	err  error

	usdStyle   int
	boldStyle  int
	titleStyle int
	headStyle  int
	stylesOnce bool
}

func (w *workbookWriter) styles() error {
	if w.stylesOnce {
		return w.err
	}
	w.stylesOnce = true

	fmtUSD := usdFormat
	w.usdStyle, w.err = w.file.NewStyle(&excelize.Style{CustomNumFmt: &fmtUSD})
	if w.err != nil {
		return w.err
	}
	w.boldStyle, w.err = w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if w.err != nil {
		return w.err
	}
	w.titleStyle, w.err = w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if w.err != nil {
		return w.err
	}
	w.headStyle, w.err = w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	})
	return w.err
}

func (w *workbookWriter) set(sheet, cell string, value interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetCellValue(sheet, cell, value)
}

func (w *workbookWriter) setMoney(sheet, cell string, value decimal.Decimal) {
	if w.err != nil {
		return
	}
	v, _ := value.Float64()
	if w.err = w.file.SetCellValue(sheet, cell, v); w.err != nil {
		return
	}
	w.err = w.file.SetCellStyle(sheet, cell, cell, w.usdStyle)
}

func (w *workbookWriter) style(sheet, from, to string, style int) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetCellStyle(sheet, from, to, style)
}

// writeReportSheet builds the summary sheet with the headline stats
func (w *workbookWriter) writeReportSheet(r *AgentReport) error {
	if _, err := w.file.NewSheet(sheetReport); err != nil {
		return err
	}
	if err := w.styles(); err != nil {
		return err
	}

	// Column A stays empty as a spacer, matching the report layout
	if err := w.file.SetColWidth(sheetReport, "B", "C", 30); err != nil {
		return err
	}

	if err := w.file.MergeCell(sheetReport, "B1", "C1"); err != nil {
		return err
	}
	w.set(sheetReport, "B1", "Monthly Report")
	w.style(sheetReport, "B1", "B1", w.titleStyle)

	meta := [][2]string{
		{"Agent", r.AgentName},
		{"Time Period", r.Period},
		{"Generated", r.GeneratedAt.Format("Mon Jan 2 2006")},
	}
	for i, m := range meta {
		row := 3 + i
		w.set(sheetReport, fmt.Sprintf("B%d", row), m[0])
		w.style(sheetReport, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), w.boldStyle)
		w.set(sheetReport, fmt.Sprintf("C%d", row), m[1])
	}

	stats := []struct {
		label  string
		value  decimal.Decimal
		payout bool
	}{
		{"Total Bill Out", r.Stats.TotalBillOut, false},
		{"70% Split Amount", r.Stats.SplitAmount, false},
		{"Total Chargebacks", r.Stats.TotalChargebacks, false},
		{"Total Draws", r.Stats.TotalDraws, false},
		{"Monthly Commission Check", r.Stats.MonthlyPayout, true},
	}
	for i, st := range stats {
		row := 8 + i
		labelCell := fmt.Sprintf("B%d", row)
		valueCell := fmt.Sprintf("C%d", row)
		w.set(sheetReport, labelCell, st.label)
		w.setMoney(sheetReport, valueCell, st.value)
		if st.payout {
			w.style(sheetReport, labelCell, labelCell, w.boldStyle)
		}
	}

	return w.err
}

// writeTransactionsSheet builds one header + entry block per lease
func (w *workbookWriter) writeTransactionsSheet(r *AgentReport) error {
	if _, err := w.file.NewSheet(sheetTransactions); err != nil {
		return err
	}
	if err := w.styles(); err != nil {
		return err
	}

	if err := w.file.MergeCell(sheetTransactions, "B2", "G4"); err != nil {
		return err
	}
	w.set(sheetTransactions, "B2", "Transactions Report")
	w.style(sheetTransactions, "B2", "B2", w.titleStyle)

	if err := w.file.SetColWidth(sheetTransactions, "B", "C", 18); err != nil {
		return err
	}
	if err := w.file.SetColWidth(sheetTransactions, "D", "G", 16); err != nil {
		return err
	}

	row := 6
	for _, sec := range r.Sections {
		// Lease header
		leaseLabels := []string{"Invoice", "Move In Date", "Rent", "Commission", "Status", "Total Bill Out"}
		for i, label := range leaseLabels {
			cell, _ := excelize.CoordinatesToCellName(2+i, row)
			w.set(sheetTransactions, cell, label)
		}
		from, _ := excelize.CoordinatesToCellName(2, row)
		to, _ := excelize.CoordinatesToCellName(7, row)
		w.style(sheetTransactions, from, to, w.headStyle)
		row++

		w.set(sheetTransactions, fmt.Sprintf("B%d", row), sec.InvoiceNumber)
		w.set(sheetTransactions, fmt.Sprintf("C%d", row), sec.MoveInDate.Format("2006-01-02"))
		w.setMoney(sheetTransactions, fmt.Sprintf("D%d", row), sec.RentAmount)
		w.setMoney(sheetTransactions, fmt.Sprintf("E%d", row), sec.Commission)
		w.set(sheetTransactions, fmt.Sprintf("F%d", row), sec.PaidStatus)
		w.setMoney(sheetTransactions, fmt.Sprintf("G%d", row), sec.Totals.TotalBillOut)
		row++

		// Entry rows
		entryLabels := []string{"Type", "Date", "Amount", "Payout", "Notes"}
		for i, label := range entryLabels {
			cell, _ := excelize.CoordinatesToCellName(2+i, row)
			w.set(sheetTransactions, cell, label)
		}
		from, _ = excelize.CoordinatesToCellName(2, row)
		to, _ = excelize.CoordinatesToCellName(6, row)
		w.style(sheetTransactions, from, to, w.headStyle)
		row++

		for _, e := range sec.Entries {
			w.set(sheetTransactions, fmt.Sprintf("B%d", row), e.Type)
			w.set(sheetTransactions, fmt.Sprintf("C%d", row), e.Date.Format("2006-01-02"))
			w.setMoney(sheetTransactions, fmt.Sprintf("D%d", row), e.Amount)
			w.setMoney(sheetTransactions, fmt.Sprintf("E%d", row), e.Payout)
			w.set(sheetTransactions, fmt.Sprintf("F%d", row), e.Notes)
			row++
		}

		row++ // spacer between leases
	}

	return w.err
}

// writeDrawsSheet lists the period's draws
func (w *workbookWriter) writeDrawsSheet(r *AgentReport) error {
	if _, err := w.file.NewSheet(sheetDraws); err != nil {
		return err
	}
	if err := w.styles(); err != nil {
		return err
	}

	if err := w.file.MergeCell(sheetDraws, "B2", "E4"); err != nil {
		return err
	}
	w.set(sheetDraws, "B2", "Draws")
	w.style(sheetDraws, "B2", "B2", w.titleStyle)

	if err := w.file.SetColWidth(sheetDraws, "B", "B", 15); err != nil {
		return err
	}
	if err := w.file.SetColWidth(sheetDraws, "C", "C", 12); err != nil {
		return err
	}
	if err := w.file.SetColWidth(sheetDraws, "D", "D", 40); err != nil {
		return err
	}

	w.set(sheetDraws, "B6", "Date")
	w.set(sheetDraws, "C6", "Amount")
	w.set(sheetDraws, "D6", "Notes")
	w.style(sheetDraws, "B6", "D6", w.headStyle)

	row := 7
	for _, d := range r.Draws {
		w.set(sheetDraws, fmt.Sprintf("B%d", row), d.Date.Format("2006-01-02"))
		w.setMoney(sheetDraws, fmt.Sprintf("C%d", row), d.Amount)
		w.set(sheetDraws, fmt.Sprintf("D%d", row), d.Notes)
		row++
	}

	return w.err
}
