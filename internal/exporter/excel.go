package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

// Sheet names of the workbook.
const (
	OverviewSheet   = "Overview"
	OperationsSheet = "Operations"
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct{}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Name() string { return "excel" }

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	rows := common.Rows(report)

	if err := e.writeOverview(f, styler, report, rows); err != nil {
		return err
	}
	if err := e.writeOperations(f, styler, rows); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	if idx, err := f.GetSheetIndex(OverviewSheet); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	return common.WriteFile(cfg.GetOutputPath(".xlsx"), func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// --- Overview Sheet ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report, rows []common.Row) error {
	sheet := OverviewSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	e.writeRow(f, sheet, row, []string{"Field", "Value"}, s.HeaderStyle)
	row++
	for _, kv := range common.Summary(report) {
		e.writeLabelRow(f, sheet, row, kv[0], kv[1], s)
		row++
	}

	row++ // spacer

	e.writeRow(f, sheet, row, []string{"Metric", "Count"}, s.HeaderStyle)
	row++

	kinds := common.KindCounts(rows)
	st := report.Stats
	metrics := []struct {
		Key string
		Val int
	}{
		{"Operations", len(rows)},
		{"Queries", kinds[common.KindQuery]},
		{"Mutations", kinds[common.KindMutation]},
		{"Subscriptions", kinds[common.KindSubscription]},
		{"Candidate Classes", st.CandidateClasses},
		{"Retained Classes", st.RetainedClasses},
		{"Constructors (data-class)", st.DataClassConstructors},
		{"Constructors (no-arg)", st.NoArgConstructors},
		{"Constructors (loose-string)", st.LooseStringConstructors},
		{"Constructors (unknown)", st.UnknownConstructors},
		{"XML Documents Scanned", st.DocumentsScanned},
		{"XML Documents Failed", st.DocumentsFailed},
		{"Distinct Client ID Values", st.ClientIDValues},
	}
	for _, m := range metrics {
		e.writeLabelRow(f, sheet, row, m.Key, m.Val, s)
		row++
	}

	return f.SetColWidth(sheet, "A", "B", 36)
}

func (e *ExcelExporter) writeLabelRow(f *excelize.File, sheet string, row int, label string, value interface{}, s *Styler) {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), s.LabelStyle)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
}

// --- Operations Sheet ---

func (e *ExcelExporter) writeOperations(f *excelize.File, s *Styler, rows []common.Row) error {
	sheet := OperationsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"No", "ID", "Name", "Kind", "Definition", "Note"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	row := 2
	for _, r := range rows {
		e.writeOperationRow(f, sheet, row, r, s)
		row++
	}

	if len(rows) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:F%d", row-1), nil); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 6)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 36)
	f.SetColWidth(sheet, "D", "D", 14)
	f.SetColWidth(sheet, "E", "E", 90)
	f.SetColWidth(sheet, "F", "F", 24)

	return nil
}

func (e *ExcelExporter) writeOperationRow(f *excelize.File, sheet string, row int, r common.Row, s *Styler) {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.No)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.ID)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Name)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Kind)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Definition)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), strings.Join(r.Notes, ", "))

	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), s.KindStyle(r.Kind))
	f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), s.DefinitionStyle)
	f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), s.NoteStyle)
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
