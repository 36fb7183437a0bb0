package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"churnlens/pkg/contracts/domain"
)

// maxSheetName is the Excel sheet name length limit.
const maxSheetName = 31

// sheetTitle truncates a sheet name to the Excel limit.
func sheetTitle(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

// writeWorkbook renders the snapshot as a multi-sheet Excel workbook:
// Overview, one "By <dimension>" sheet per summary table, Churn Reasons,
// At Risk, and the filtered rows on a streamed Records sheet.
func writeWorkbook(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	wb := &workbook{f: f, headerStyle: headerStyle}

	if err := f.SetSheetName(f.GetSheetName(0), "Overview"); err != nil {
		return fmt.Errorf("rename overview sheet: %w", err)
	}
	if err := wb.overviewSheet(snap); err != nil {
		return err
	}

	for _, table := range snap.Tables {
		if err := wb.tableSheet(table); err != nil {
			return err
		}
	}
	if err := wb.reasonsSheet(snap.Reasons); err != nil {
		return err
	}
	if err := wb.atRiskSheet(snap.AtRisk); err != nil {
		return err
	}
	if err := wb.recordsSheet(snap.Records); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type workbook struct {
	f           *excelize.File
	headerStyle int
}

// addSheet creates a named sheet, truncating to the Excel name limit.
func (wb *workbook) addSheet(name string) (string, error) {
	name = sheetTitle(name)
	if _, err := wb.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("create sheet %s: %w", name, err)
	}
	return name, nil
}

// setRow writes one row of values starting at column A.
func (wb *workbook) setRow(sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// headerRow writes one bold row of values starting at column A.
func (wb *workbook) headerRow(sheet string, row int, values ...interface{}) error {
	if err := wb.setRow(sheet, row, values...); err != nil {
		return err
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, start, end, wb.headerStyle)
}

func (wb *workbook) overviewSheet(snap Snapshot) error {
	const sheet = "Overview"
	if err := wb.f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}

	if err := wb.headerRow(sheet, 1, "Customer Churn Analysis"); err != nil {
		return err
	}
	provenance := [][2]interface{}{
		{"Generated", snap.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Source", snap.Dataset.Source},
		{"Rows Loaded", snap.Dataset.Rows},
		{"Rows Dropped", snap.Dataset.DroppedRows},
		{"Filter", snap.Filter.Describe()},
		{"Exported Rows", len(snap.Records)},
	}
	row := 2
	for _, p := range provenance {
		if err := wb.setRow(sheet, row, p[0], p[1]); err != nil {
			return err
		}
		row++
	}

	row++ // blank separator
	if err := wb.headerRow(sheet, row, "Metric", "Value"); err != nil {
		return err
	}
	row++

	o := snap.Overall
	metrics := [][2]interface{}{
		{"Total Customers", o.TotalCustomers},
		{"Churned Customers", o.ChurnedCustomers},
		{"Active Customers", o.ActiveCustomers},
		{"Churn Rate", o.ChurnRate},
		{"Total Revenue", o.TotalRevenue},
		{"Revenue Lost", o.RevenueLost},
		{"Avg Satisfaction", o.AvgSatisfaction},
		{"Avg Tenure (months)", o.AvgTenureMonths},
		{"Avg Monthly Revenue", o.AvgMonthlyRevenue},
	}
	for _, m := range metrics {
		if err := wb.setRow(sheet, row, m[0], m[1]); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (wb *workbook) tableSheet(table domain.SummaryTable) error {
	sheet, err := wb.addSheet("By " + table.Key.Title())
	if err != nil {
		return err
	}
	if err := wb.f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}

	if err := wb.headerRow(sheet, 1, "Segment", "Customers", "Churned",
		"Churn Rate", "Avg Satisfaction", "Total Revenue", "Revenue Lost"); err != nil {
		return err
	}
	for i, r := range table.Rows {
		if err := wb.setRow(sheet, i+2, r.Segment, r.Customers, r.Churned,
			r.ChurnRate, r.AvgSatisfaction, r.TotalRevenue, r.RevenueLost); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) reasonsSheet(reasons []domain.ReasonCount) error {
	sheet, err := wb.addSheet("Churn Reasons")
	if err != nil {
		return err
	}
	if err := wb.f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}

	if err := wb.headerRow(sheet, 1, "Reason", "Count"); err != nil {
		return err
	}
	for i, rc := range reasons {
		if err := wb.setRow(sheet, i+2, rc.Reason, rc.Count); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) atRiskSheet(ar domain.AtRiskMetrics) error {
	sheet, err := wb.addSheet("At Risk")
	if err != nil {
		return err
	}
	if err := wb.f.SetColWidth(sheet, "A", "A", 34); err != nil {
		return err
	}

	if err := wb.headerRow(sheet, 1, "Metric", "Value"); err != nil {
		return err
	}
	rows := [][2]interface{}{
		{"At-Risk Customers", ar.AtRiskCustomers},
		{"Revenue At Risk", ar.RevenueAtRisk},
		{"New Customers", ar.NewCustomers},
		{"High-Value Customers", ar.HighValue},
		{"High-Value At Risk", ar.HighValueAtRisk},
		{"High-Value Revenue Threshold", ar.RevenueThreshold},
	}
	for i, r := range rows {
		if err := wb.setRow(sheet, i+2, r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

// recordsSheet streams the filtered rows. The stream writer keeps memory
// flat no matter how many rows the filter passes through.
func (wb *workbook) recordsSheet(records []domain.CustomerRecord) error {
	sheet, err := wb.addSheet("Records")
	if err != nil {
		return err
	}
	sw, err := wb.f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream %s: %w", sheet, err)
	}

	header := make([]interface{}, len(recordColumns))
	for i, col := range recordColumns {
		header[i] = excelize.Cell{StyleID: wb.headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.CustomerID,
			rec.FullName,
			rec.Age,
			rec.Gender,
			rec.Region,
			rec.Device,
			rec.Plan,
			rec.TenureMonths,
			rec.DataAllotmentGB,
			rec.SatisfactionScore,
			rec.MonthlyRevenue,
			rec.UnitPrice,
			rec.PurchaseCount,
			formatDate(rec.PurchaseDate),
			churnLabel(rec.Churned),
			rec.ChurnReason,
			rec.Review,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write record row %d: %w", i, err)
		}
	}
	return sw.Flush()
}
