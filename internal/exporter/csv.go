package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"churnlens/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// recordColumns is the canonical column order for record exports. It matches
// the loader's canonical schema, so an exported file loads straight back in.
var recordColumns = []string{
	"customer_id",
	"full_name",
	"age",
	"gender",
	"region",
	"device",
	"plan",
	"tenure_months",
	"data_allotment_gb",
	"satisfaction_score",
	"monthly_revenue",
	"unit_price",
	"purchase_count",
	"purchase_date",
	"churned",
	"churn_reason",
	"review",
}

// recordRow converts one customer record to its CSV cells, in recordColumns
// order.
func recordRow(cr domain.CustomerRecord) []string {
	return []string{
		cr.CustomerID,
		cr.FullName,
		formatInt(cr.Age),
		cr.Gender,
		cr.Region,
		cr.Device,
		cr.Plan,
		formatInt(cr.TenureMonths),
		formatFloat(cr.DataAllotmentGB),
		formatFloat(cr.SatisfactionScore),
		formatFloat(cr.MonthlyRevenue),
		formatFloat(cr.UnitPrice),
		formatInt(cr.PurchaseCount),
		formatDate(cr.PurchaseDate),
		churnLabel(cr.Churned),
		cr.ChurnReason,
		cr.Review,
	}
}

// writeRecordsCSV writes the snapshot's record rows as a single CSV table.
// The BOM prefix is written for download responses so Excel opens the file
// as UTF-8 without an import dialog.
func writeRecordsCSV(w io.Writer, records []domain.CustomerRecord, withBOM bool) error {
	if withBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(recordColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
