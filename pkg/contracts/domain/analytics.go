package domain

import (
	"time"
)

// SegmentKey identifies the categorical attribute a breakdown groups by.
type SegmentKey string

const (
	SegmentRegion       SegmentKey = "region"
	SegmentDevice       SegmentKey = "device"
	SegmentPlan         SegmentKey = "plan"
	SegmentGender       SegmentKey = "gender"
	SegmentAgeBand      SegmentKey = "age_band"
	SegmentTenureBand   SegmentKey = "tenure_band"
	SegmentSatisfaction SegmentKey = "satisfaction"
)

// SegmentKeys lists every supported breakdown dimension in display order.
func SegmentKeys() []SegmentKey {
	return []SegmentKey{
		SegmentRegion,
		SegmentDevice,
		SegmentPlan,
		SegmentGender,
		SegmentAgeBand,
		SegmentTenureBand,
		SegmentSatisfaction,
	}
}

// IsValid reports whether the key names a supported breakdown dimension.
func (sk SegmentKey) IsValid() bool {
	switch sk {
	case SegmentRegion, SegmentDevice, SegmentPlan, SegmentGender,
		SegmentAgeBand, SegmentTenureBand, SegmentSatisfaction:
		return true
	default:
		return false
	}
}

// String returns the wire name of the segment key.
func (sk SegmentKey) String() string {
	return string(sk)
}

// Title returns a human-readable label for chart axes and sheet names.
func (sk SegmentKey) Title() string {
	switch sk {
	case SegmentRegion:
		return "Region"
	case SegmentDevice:
		return "Device"
	case SegmentPlan:
		return "Plan"
	case SegmentGender:
		return "Gender"
	case SegmentAgeBand:
		return "Age Band"
	case SegmentTenureBand:
		return "Tenure Band"
	case SegmentSatisfaction:
		return "Satisfaction"
	default:
		return "Unknown"
	}
}

// NumericField identifies a numeric attribute usable in correlation analysis.
type NumericField string

const (
	FieldAge            NumericField = "age"
	FieldTenureMonths   NumericField = "tenure_months"
	FieldDataAllotment  NumericField = "data_allotment_gb"
	FieldSatisfaction   NumericField = "satisfaction_score"
	FieldMonthlyRevenue NumericField = "monthly_revenue"
	FieldUnitPrice      NumericField = "unit_price"
	FieldPurchaseCount  NumericField = "purchase_count"
	FieldChurnIndicator NumericField = "churn_indicator"
)

// NumericFields lists every field accepted by the correlation endpoints.
func NumericFields() []NumericField {
	return []NumericField{
		FieldAge,
		FieldTenureMonths,
		FieldDataAllotment,
		FieldSatisfaction,
		FieldMonthlyRevenue,
		FieldUnitPrice,
		FieldPurchaseCount,
		FieldChurnIndicator,
	}
}

// IsValid reports whether the field can feed a correlation.
func (nf NumericField) IsValid() bool {
	switch nf {
	case FieldAge, FieldTenureMonths, FieldDataAllotment, FieldSatisfaction,
		FieldMonthlyRevenue, FieldUnitPrice, FieldPurchaseCount, FieldChurnIndicator:
		return true
	default:
		return false
	}
}

// String returns the wire name of the numeric field.
func (nf NumericField) String() string {
	return string(nf)
}

// Value extracts the field's numeric value from a record.
func (nf NumericField) Value(cr CustomerRecord) float64 {
	switch nf {
	case FieldAge:
		return float64(cr.Age)
	case FieldTenureMonths:
		return float64(cr.TenureMonths)
	case FieldDataAllotment:
		return cr.DataAllotmentGB
	case FieldSatisfaction:
		return cr.SatisfactionScore
	case FieldMonthlyRevenue:
		return cr.MonthlyRevenue
	case FieldUnitPrice:
		return cr.UnitPrice
	case FieldPurchaseCount:
		return float64(cr.PurchaseCount)
	case FieldChurnIndicator:
		return cr.ChurnIndicator()
	default:
		return 0
	}
}

// OverallMetrics carries the headline numbers for the metric cards.
type OverallMetrics struct {
	TotalCustomers    int     `json:"total_customers"`
	ChurnedCustomers  int     `json:"churned_customers"`
	ActiveCustomers   int     `json:"active_customers"`
	ChurnRate         float64 `json:"churn_rate"` // churned / total, 0 on empty input
	TotalRevenue      float64 `json:"total_revenue"`
	RevenueLost       float64 `json:"revenue_lost"` // revenue of churned customers only
	AvgSatisfaction   float64 `json:"avg_satisfaction"`
	AvgTenureMonths   float64 `json:"avg_tenure_months"`
	AvgMonthlyRevenue float64 `json:"avg_monthly_revenue"`
}

// SegmentMetrics is one row of a segment breakdown.
type SegmentMetrics struct {
	Segment         string  `json:"segment"`
	Customers       int     `json:"customers"`
	Churned         int     `json:"churned"`
	ChurnRate       float64 `json:"churn_rate"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	TotalRevenue    float64 `json:"total_revenue"`
	RevenueLost     float64 `json:"revenue_lost"`
}

// SummaryTable is a derived, read-only breakdown of the current record set by
// one segment key. Tables are recomputed wholesale when the filter changes;
// rows are ordered by churn rate descending, ties broken by descending
// customer count then ascending segment label.
type SummaryTable struct {
	Key  SegmentKey       `json:"key"`
	Rows []SegmentMetrics `json:"rows"`
}

// TotalCustomers sums the per-segment counts; by the partition invariant this
// equals the size of the record set the table was computed from.
func (st SummaryTable) TotalCustomers() int {
	total := 0
	for _, row := range st.Rows {
		total += row.Customers
	}
	return total
}

// GeoMetrics is one region's rollup for the map view, ordered by region name.
type GeoMetrics struct {
	Region          string  `json:"region"`
	Customers       int     `json:"customers"`
	Churned         int     `json:"churned"`
	ChurnRate       float64 `json:"churn_rate"`
	RevenueLost     float64 `json:"revenue_lost"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
}

// CorrelationResult is a single Pearson coefficient between two fields.
// Coefficient is NaN when either field has zero variance; it serializes as
// null on the wire so chart code can render "not defined".
type CorrelationResult struct {
	FieldX      NumericField `json:"field_x"`
	FieldY      NumericField `json:"field_y"`
	Coefficient float64      `json:"coefficient"`
	Samples     int          `json:"samples"`
}

// CorrelationMatrix is the pairwise Pearson grid for the heat table.
type CorrelationMatrix struct {
	Fields []NumericField    `json:"fields"`
	Matrix [][]float64       `json:"matrix"`
	Pairs  []CorrelationPair `json:"pairs,omitempty"`
}

// CorrelationPair is one off-diagonal cell of the matrix, flattened for
// tabular display.
type CorrelationPair struct {
	FieldX      NumericField `json:"field_x"`
	FieldY      NumericField `json:"field_y"`
	Coefficient float64      `json:"coefficient"`
}

// ReasonCount is one stated churn reason and how many churned customers gave it.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// AtRiskMetrics are descriptive threshold counts over observed fields; there
// is no model behind them.
type AtRiskMetrics struct {
	AtRiskCustomers  int     `json:"at_risk_customers"`  // active, satisfaction <= 2
	RevenueAtRisk    float64 `json:"revenue_at_risk"`    // their summed monthly revenue
	NewCustomers     int     `json:"new_customers"`      // tenure < 6 months
	HighValue        int     `json:"high_value"`         // revenue >= 75th percentile
	HighValueAtRisk  int     `json:"high_value_at_risk"` // both of the above
	RevenueThreshold float64 `json:"revenue_threshold"`  // the percentile cut used
}

// SegmentHighlight names the worst-churning value of one dimension.
type SegmentHighlight struct {
	Key       SegmentKey `json:"key"`
	Segment   string     `json:"segment"`
	ChurnRate float64    `json:"churn_rate"`
	Customers int        `json:"customers"`
}

// ExecutiveSummary is the one-page digest: headline metrics, the worst
// segments, the top stated reasons, and the at-risk picture.
type ExecutiveSummary struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Dataset     DatasetInfo        `json:"dataset"`
	Overall     OverallMetrics     `json:"overall"`
	Highlights  []SegmentHighlight `json:"highlights"`
	TopReasons  []ReasonCount      `json:"top_reasons"`
	AtRisk      AtRiskMetrics      `json:"at_risk"`
}

// FilterOptions enumerates the observed vocabulary so the dashboard can build
// its filter widgets without hardcoding values.
type FilterOptions struct {
	Regions   []string `json:"regions"`
	Devices   []string `json:"devices"`
	Plans     []string `json:"plans"`
	Genders   []string `json:"genders"`
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	TenureMin int      `json:"tenure_min"`
	TenureMax int      `json:"tenure_max"`
}
