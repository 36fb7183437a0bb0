package churn

import (
	"math"
	"sort"
	"strings"
	"time"

	"churnlens/pkg/contracts/domain"
)

// ChurnReasons counts the stated reasons over churned records, ordered by
// count descending then reason ascending. Churned records with no stated
// reason are omitted rather than imputed.
func ChurnReasons(records []domain.CustomerRecord) []domain.ReasonCount {
	counts := make(map[string]int)
	for _, cr := range records {
		if !cr.Churned {
			continue
		}
		reason := strings.TrimSpace(cr.ChurnReason)
		if reason == "" {
			continue
		}
		counts[reason]++
	}

	out := make([]domain.ReasonCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, domain.ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

// Percentile returns the p-quantile (p in [0,1]) of values using linear
// interpolation between closest ranks. The input slice is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// AtRisk computes the descriptive risk counts: dissatisfied actives, their
// revenue, new customers, and the high-value customers above the revenue
// percentile cut. These are threshold counts over observed fields, not
// predictions.
func AtRisk(records []domain.CustomerRecord) domain.AtRiskMetrics {
	var m domain.AtRiskMetrics
	if len(records) == 0 {
		return m
	}

	revenues := make([]float64, 0, len(records))
	for _, cr := range records {
		revenues = append(revenues, cr.MonthlyRevenue)
	}
	m.RevenueThreshold = Percentile(revenues, domain.HighValuePercentile)

	for _, cr := range records {
		if cr.IsAtRisk() {
			m.AtRiskCustomers++
			m.RevenueAtRisk += cr.MonthlyRevenue
		}
		if cr.IsNewCustomer() {
			m.NewCustomers++
		}
		if cr.MonthlyRevenue >= m.RevenueThreshold {
			m.HighValue++
			if cr.IsAtRisk() {
				m.HighValueAtRisk++
			}
		}
	}
	return m
}

// Options enumerates the observed filter vocabulary (distinct regions,
// devices, plans, genders, sorted) and the observed age and tenure ranges,
// so the dashboard builds its widgets from data instead of hardcoding values.
func Options(records []domain.CustomerRecord) domain.FilterOptions {
	regions := make(map[string]struct{})
	devices := make(map[string]struct{})
	plans := make(map[string]struct{})
	genders := make(map[string]struct{})

	var opts domain.FilterOptions
	for i, cr := range records {
		regions[cr.Region] = struct{}{}
		devices[cr.Device] = struct{}{}
		plans[cr.Plan] = struct{}{}
		genders[cr.Gender] = struct{}{}

		if i == 0 {
			opts.AgeMin, opts.AgeMax = cr.Age, cr.Age
			opts.TenureMin, opts.TenureMax = cr.TenureMonths, cr.TenureMonths
			continue
		}
		if cr.Age < opts.AgeMin {
			opts.AgeMin = cr.Age
		}
		if cr.Age > opts.AgeMax {
			opts.AgeMax = cr.Age
		}
		if cr.TenureMonths < opts.TenureMin {
			opts.TenureMin = cr.TenureMonths
		}
		if cr.TenureMonths > opts.TenureMax {
			opts.TenureMax = cr.TenureMonths
		}
	}

	opts.Regions = sortedKeys(regions)
	opts.Devices = sortedKeys(devices)
	opts.Plans = sortedKeys(plans)
	opts.Genders = sortedKeys(genders)
	return opts
}

// Summary builds the one-page digest over the given records: headline
// metrics, the worst region/device/plan, the top five stated reasons, and
// the at-risk picture. The dataset info describes the full load, not the
// filtered subset the summary was computed from.
func Summary(records []domain.CustomerRecord, info domain.DatasetInfo) domain.ExecutiveSummary {
	summary := domain.ExecutiveSummary{
		GeneratedAt: time.Now(),
		Dataset:     info,
		Overall:     Overall(records),
		AtRisk:      AtRisk(records),
	}

	reasons := ChurnReasons(records)
	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	summary.TopReasons = reasons

	for _, key := range []domain.SegmentKey{domain.SegmentRegion, domain.SegmentDevice, domain.SegmentPlan} {
		table, err := Breakdown(records, key)
		if err != nil || len(table.Rows) == 0 {
			continue
		}
		worst := table.Rows[0]
		summary.Highlights = append(summary.Highlights, domain.SegmentHighlight{
			Key:       key,
			Segment:   worst.Segment,
			ChurnRate: worst.ChurnRate,
			Customers: worst.Customers,
		})
	}
	return summary
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
