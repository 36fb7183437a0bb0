package exporter

import (
	"time"

	"churnlens/internal/churn"
	"churnlens/pkg/contracts/domain"
)

// Snapshot is the fully assembled view of one filtered record set, ready to
// serialize. Every export format renders the same snapshot: csv writes the
// record rows, json writes the whole structure, xlsx spreads it over sheets.
type Snapshot struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Dataset     domain.DatasetInfo      `json:"dataset"`
	Filter      domain.FilterState      `json:"filter"`
	Overall     domain.OverallMetrics   `json:"overall"`
	Tables      []domain.SummaryTable   `json:"tables"`
	Geo         []domain.GeoMetrics     `json:"geo"`
	Reasons     []domain.ReasonCount    `json:"reasons"`
	AtRisk      domain.AtRiskMetrics    `json:"at_risk"`
	Records     []domain.CustomerRecord `json:"records"`
}

// TableKeys lists the breakdown dimensions included in workbook and JSON
// exports, in sheet order.
func TableKeys() []domain.SegmentKey {
	return []domain.SegmentKey{
		domain.SegmentRegion,
		domain.SegmentDevice,
		domain.SegmentPlan,
		domain.SegmentAgeBand,
		domain.SegmentTenureBand,
		domain.SegmentSatisfaction,
	}
}

// BuildSnapshot aggregates the record set into every view an export carries.
// The records are the already-filtered rows; info and filter ride along as
// provenance so a reader can tell which slice of the dataset they hold.
func BuildSnapshot(records []domain.CustomerRecord, info domain.DatasetInfo, filter domain.FilterState) Snapshot {
	keys := TableKeys()
	tables := make([]domain.SummaryTable, 0, len(keys))
	for _, key := range keys {
		table, err := churn.Breakdown(records, key)
		if err != nil {
			continue
		}
		tables = append(tables, table)
	}

	return Snapshot{
		GeneratedAt: time.Now(),
		Dataset:     info,
		Filter:      filter,
		Overall:     churn.Overall(records),
		Tables:      tables,
		Geo:         churn.GeoRollup(records),
		Reasons:     churn.ChurnReasons(records),
		AtRisk:      churn.AtRisk(records),
		Records:     records,
	}
}
