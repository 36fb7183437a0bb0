package domain

import (
	"strings"
	"time"
)

// CustomerRecord is the Single Source of Truth (SSOT) for one subscriber row.
// Every aggregation, filter, and export in the system operates on this structure;
// the loader validates and coerces raw input into it exactly once, so downstream
// code never touches loosely-typed row data.
//
// Required fields are populated for every retained record. Optional fields hold
// their zero value when the source file does not carry the column.
type CustomerRecord struct {
	// === REQUIRED FIELDS (validated at load) ===

	// CustomerID is the unique subscriber identifier from the source system.
	CustomerID string `json:"customer_id" csv:"customer_id" validate:"required"`

	// Age in whole years at the observation date.
	Age int `json:"age" csv:"age" validate:"min=0,max=130"`

	// Gender is normalized to the fixed vocabulary: Male, Female, Other, Unknown.
	Gender string `json:"gender" csv:"gender"`

	// Region is the customer's state or region; empty source values are
	// imputed to "Unknown" so segment partitions stay exact.
	Region string `json:"region" csv:"region"`

	// Device is the handset or modem type the subscription runs on.
	Device string `json:"device" csv:"device"`

	// Plan is the subscription plan tier.
	Plan string `json:"plan" csv:"plan"`

	// TenureMonths is how long the customer has been subscribed, in months.
	TenureMonths int `json:"tenure_months" csv:"tenure_months" validate:"min=0"`

	// DataAllotmentGB is the monthly data allotment in gigabytes.
	DataAllotmentGB float64 `json:"data_allotment_gb" csv:"data_allotment_gb" validate:"min=0"`

	// SatisfactionScore is the customer-reported rating on a 0-5 scale.
	SatisfactionScore float64 `json:"satisfaction_score" csv:"satisfaction_score" validate:"min=0,max=5"`

	// MonthlyRevenue is the revenue attributed to this customer per month.
	MonthlyRevenue float64 `json:"monthly_revenue" csv:"monthly_revenue" validate:"min=0"`

	// Churned is the normalized churn label. Rows whose label cannot be
	// normalized are dropped at load time and counted, never imputed.
	Churned bool `json:"churned" csv:"churned"`

	// === OPTIONAL FIELDS (kept when the source provides them) ===

	FullName      string    `json:"full_name,omitempty" csv:"full_name,omitempty"`
	PurchaseDate  time.Time `json:"purchase_date,omitempty" csv:"purchase_date,omitempty"`
	UnitPrice     float64   `json:"unit_price,omitempty" csv:"unit_price,omitempty"`
	PurchaseCount int       `json:"purchase_count,omitempty" csv:"purchase_count,omitempty"`
	Review        string    `json:"review,omitempty" csv:"review,omitempty"`

	// ChurnReason is the stated reason for leaving; meaningful only when
	// Churned is true.
	ChurnReason string `json:"churn_reason,omitempty" csv:"churn_reason,omitempty"`
}

// ChurnIndicator returns the churn label as a numeric signal (1 churned,
// 0 active) for correlation analysis.
func (cr CustomerRecord) ChurnIndicator() float64 {
	if cr.Churned {
		return 1
	}
	return 0
}

// AgeBand buckets the customer's age into the fixed demographic bands used
// across every age breakdown: 0-25, 26-35, 36-45, 46-55, 55+.
func (cr CustomerRecord) AgeBand() string {
	switch {
	case cr.Age <= 25:
		return "0-25"
	case cr.Age <= 35:
		return "26-35"
	case cr.Age <= 45:
		return "36-45"
	case cr.Age <= 55:
		return "46-55"
	default:
		return "55+"
	}
}

// TenureBand buckets tenure into the fixed lifecycle bands: 0-6 months,
// 7-12 months, 13-24 months, 25-36 months, 36+ months.
func (cr CustomerRecord) TenureBand() string {
	switch {
	case cr.TenureMonths <= 6:
		return "0-6 months"
	case cr.TenureMonths <= 12:
		return "7-12 months"
	case cr.TenureMonths <= 24:
		return "13-24 months"
	case cr.TenureMonths <= 36:
		return "25-36 months"
	default:
		return "36+ months"
	}
}

// IsNewCustomer reports whether the customer joined within the last six months.
func (cr CustomerRecord) IsNewCustomer() bool {
	return cr.TenureMonths < 6
}

// IsAtRisk reports whether an active customer sits at or below the
// dissatisfaction threshold (score <= 2 on the 0-5 scale).
func (cr CustomerRecord) IsAtRisk() bool {
	return !cr.Churned && cr.SatisfactionScore <= AtRiskSatisfactionThreshold
}

// IsValid checks the required-field invariants a retained record must hold.
func (cr CustomerRecord) IsValid() bool {
	return cr.CustomerID != "" &&
		cr.Age >= 0 && cr.Age <= 130 &&
		cr.TenureMonths >= 0 &&
		cr.DataAllotmentGB >= 0 &&
		cr.SatisfactionScore >= 0 && cr.SatisfactionScore <= 5 &&
		cr.MonthlyRevenue >= 0 &&
		cr.Region != "" && cr.Device != "" && cr.Plan != "" && cr.Gender != ""
}

// NormalizeGender maps raw gender strings onto the fixed vocabulary.
// Empty or unrecognized values become Unknown rather than dropping the row.
func NormalizeGender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male":
		return GenderMale
	case "f", "female":
		return GenderFemale
	case "o", "other", "non-binary", "nonbinary":
		return GenderOther
	default:
		return GenderUnknown
	}
}

// Gender vocabulary.
const (
	GenderMale    = "Male"
	GenderFemale  = "Female"
	GenderOther   = "Other"
	GenderUnknown = "Unknown"
)

// UnknownSegment is the imputed value for missing categorical fields
// (region, device, plan). Using a real vocabulary value instead of dropping
// the row keeps segment breakdowns an exact partition of the dataset.
const UnknownSegment = "Unknown"

// AtRiskSatisfactionThreshold marks the satisfaction score at or below which
// an active customer counts as at risk of churning.
const AtRiskSatisfactionThreshold = 2.0

// NewCustomerTenureMonths is the tenure below which a customer counts as new.
const NewCustomerTenureMonths = 6

// HighValuePercentile is the revenue percentile at or above which a customer
// counts as high value.
const HighValuePercentile = 0.75

// Dataset is an ordered, immutable collection of customer records plus load
// provenance. It is loaded once at process start and shared read-only across
// requests; nothing mutates it after Load returns.
type Dataset struct {
	Records  []CustomerRecord `json:"records"`
	Source   string           `json:"source"`
	LoadedAt time.Time        `json:"loaded_at"`

	// DroppedRows counts source rows discarded during cleaning (missing or
	// unrecognizable churn labels, unparsable required numerics).
	DroppedRows int `json:"dropped_rows"`
}

// Len returns the number of retained records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Info summarizes load provenance for the dashboard and the API.
func (d Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Source:      d.Source,
		Rows:        len(d.Records),
		DroppedRows: d.DroppedRows,
		LoadedAt:    d.LoadedAt,
	}
}

// DatasetInfo is the wire form of dataset load provenance.
type DatasetInfo struct {
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	DroppedRows int       `json:"dropped_rows"`
	LoadedAt    time.Time `json:"loaded_at"`
}
