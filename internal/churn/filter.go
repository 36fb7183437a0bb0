package churn

import (
	"churnlens/pkg/contracts/domain"
)

// Apply returns the records matching the filter. It is a pure subset
// operation: idempotent, order-preserving, and an empty result is valid.
// A zero filter returns the input slice untouched.
func Apply(records []domain.CustomerRecord, filter domain.FilterState) []domain.CustomerRecord {
	if filter.IsZero() {
		return records
	}
	out := make([]domain.CustomerRecord, 0, len(records))
	for _, cr := range records {
		if filter.Matches(cr) {
			out = append(out, cr)
		}
	}
	return out
}

// ApplyDataset filters a dataset's records while keeping its load provenance,
// so exports of a filtered view still name their source.
func ApplyDataset(ds domain.Dataset, filter domain.FilterState) domain.Dataset {
	return domain.Dataset{
		Records:     Apply(ds.Records, filter),
		Source:      ds.Source,
		LoadedAt:    ds.LoadedAt,
		DroppedRows: ds.DroppedRows,
	}
}
