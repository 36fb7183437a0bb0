package churn

import (
	"fmt"
	"sort"
	"strconv"

	apperrors "churnlens/internal/errors"
	"churnlens/pkg/contracts/domain"
)

// SegmentValue returns the record's label for one breakdown dimension.
// The loader guarantees categorical fields are never empty, so every record
// lands in exactly one segment per dimension.
func SegmentValue(cr domain.CustomerRecord, key domain.SegmentKey) string {
	switch key {
	case domain.SegmentRegion:
		return cr.Region
	case domain.SegmentDevice:
		return cr.Device
	case domain.SegmentPlan:
		return cr.Plan
	case domain.SegmentGender:
		return cr.Gender
	case domain.SegmentAgeBand:
		return cr.AgeBand()
	case domain.SegmentTenureBand:
		return cr.TenureBand()
	case domain.SegmentSatisfaction:
		return strconv.FormatFloat(cr.SatisfactionScore, 'f', -1, 64)
	default:
		return ""
	}
}

// Breakdown groups records by one categorical dimension and aggregates each
// group. Rows are ordered by churn rate descending, ties broken by customer
// count descending then segment label ascending. The groups partition the
// input exactly: per-segment counts always sum back to len(records).
func Breakdown(records []domain.CustomerRecord, key domain.SegmentKey) (domain.SummaryTable, error) {
	if !key.IsValid() {
		return domain.SummaryTable{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownSegment, key)
	}

	groups := make(map[string]*segmentAccumulator)
	for _, cr := range records {
		label := SegmentValue(cr, key)
		g := groups[label]
		if g == nil {
			g = &segmentAccumulator{}
			groups[label] = g
		}
		g.add(cr)
	}

	rows := make([]domain.SegmentMetrics, 0, len(groups))
	for label, g := range groups {
		rows = append(rows, g.metrics(label))
	}
	sortSegmentRows(rows)

	return domain.SummaryTable{Key: key, Rows: rows}, nil
}

// GeoRollup aggregates churn per region, ordered by region name ascending so
// the map view can join rows to geography without reshuffling.
func GeoRollup(records []domain.CustomerRecord) []domain.GeoMetrics {
	groups := make(map[string]*segmentAccumulator)
	for _, cr := range records {
		g := groups[cr.Region]
		if g == nil {
			g = &segmentAccumulator{}
			groups[cr.Region] = g
		}
		g.add(cr)
	}

	rollup := make([]domain.GeoMetrics, 0, len(groups))
	for region, g := range groups {
		row := g.metrics(region)
		rollup = append(rollup, domain.GeoMetrics{
			Region:          region,
			Customers:       row.Customers,
			Churned:         row.Churned,
			ChurnRate:       row.ChurnRate,
			RevenueLost:     row.RevenueLost,
			AvgSatisfaction: row.AvgSatisfaction,
		})
	}
	sort.Slice(rollup, func(i, j int) bool {
		return rollup[i].Region < rollup[j].Region
	})
	return rollup
}

type segmentAccumulator struct {
	customers       int
	churned         int
	satisfactionSum float64
	revenue         float64
	lost            float64
}

func (a *segmentAccumulator) add(cr domain.CustomerRecord) {
	a.customers++
	a.satisfactionSum += cr.SatisfactionScore
	a.revenue += cr.MonthlyRevenue
	if cr.Churned {
		a.churned++
		a.lost += cr.MonthlyRevenue
	}
}

func (a *segmentAccumulator) metrics(label string) domain.SegmentMetrics {
	return domain.SegmentMetrics{
		Segment:         label,
		Customers:       a.customers,
		Churned:         a.churned,
		ChurnRate:       float64(a.churned) / float64(a.customers),
		AvgSatisfaction: a.satisfactionSum / float64(a.customers),
		TotalRevenue:    a.revenue,
		RevenueLost:     a.lost,
	}
}

func sortSegmentRows(rows []domain.SegmentMetrics) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ChurnRate != rows[j].ChurnRate {
			return rows[i].ChurnRate > rows[j].ChurnRate
		}
		if rows[i].Customers != rows[j].Customers {
			return rows[i].Customers > rows[j].Customers
		}
		return rows[i].Segment < rows[j].Segment
	})
}
