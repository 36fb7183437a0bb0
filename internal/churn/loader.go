package churn

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "churnlens/internal/errors"
	"churnlens/pkg/contracts/domain"
)

// requiredColumns is the canonical column set every usable dataset must carry.
// Header validation happens once, before any row is read.
var requiredColumns = []string{
	"customer_id",
	"age",
	"gender",
	"region",
	"device",
	"plan",
	"tenure_months",
	"data_allotment_gb",
	"satisfaction_score",
	"monthly_revenue",
	"churned",
}

// headerAliases maps normalized source headers onto the canonical column set.
// The keys cover both the canonical snake_case names and the headers of the
// original telecom export, so either file loads without renaming columns.
var headerAliases = map[string]string{
	"customer_id":               "customer_id",
	"customerid":                "customer_id",
	"id":                        "customer_id",
	"full_name":                 "full_name",
	"customer_name":             "full_name",
	"name":                      "full_name",
	"date_of_purchase":          "purchase_date",
	"purchase_date":             "purchase_date",
	"age":                       "age",
	"gender":                    "gender",
	"state":                     "region",
	"region":                    "region",
	"mtn_device":                "device",
	"device":                    "device",
	"device_type":               "device",
	"subscription_plan":         "plan",
	"plan":                      "plan",
	"plan_tier":                 "plan",
	"customer_tenure_in_months": "tenure_months",
	"tenure_months":             "tenure_months",
	"tenure":                    "tenure_months",
	"data_usage":                "data_allotment_gb",
	"data_allotment_gb":         "data_allotment_gb",
	"data_allotment":            "data_allotment_gb",
	"satisfaction_rate":         "satisfaction_score",
	"satisfaction_score":        "satisfaction_score",
	"satisfaction":              "satisfaction_score",
	"customer_review":           "review",
	"review":                    "review",
	"unit_price":                "unit_price",
	"number_of_times_purchased": "purchase_count",
	"purchase_count":            "purchase_count",
	"total_revenue":             "monthly_revenue",
	"monthly_revenue":           "monthly_revenue",
	"revenue":                   "monthly_revenue",
	"customer_churn_status":     "churned",
	"churn_status":              "churned",
	"churned":                   "churned",
	"churn":                     "churned",
	"reasons_for_churn":         "churn_reason",
	"churn_reasons":             "churn_reason",
	"churn_reason":              "churn_reason",
}

// purchaseDateLayouts are tried in order when parsing the optional purchase
// date column. An unparsable date leaves the field zero; it never drops a row.
var purchaseDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Loader reads a delimited customer file into an immutable Dataset, applying
// the cleaning rules exactly once so downstream aggregation never revalidates.
type Loader struct {
	logger *slog.Logger
	strict bool
}

// NewLoader creates a dataset loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "dataset_loader")),
	}
}

// SetStrict makes Load fail on the first dropped row instead of counting it.
func (l *Loader) SetStrict(strict bool) {
	l.strict = strict
}

// Load reads and cleans the dataset file at path.
func (l *Loader) Load(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDatasetMissing, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return l.LoadReader(f, filepath.Base(path))
}

// LoadReader reads and cleans a dataset from r. The source name is carried
// into the Dataset provenance and appears on the dashboard and in exports.
//
// Cleaning rules:
//   - a missing required column fails the whole load,
//   - rows with a missing or unrecognized churn label are dropped and counted,
//   - rows with unparsable required numerics are dropped and counted,
//   - missing categorical values are imputed to "Unknown" so segment
//     breakdowns stay an exact partition,
//   - optional columns are parsed best-effort and never drop a row.
func (l *Loader) LoadReader(r io.Reader, source string) (*domain.Dataset, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewDataFormatError("dataset has no readable header row", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		records []domain.CustomerRecord
		dropped int
		rowNum  = 1 // header consumed
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			if l.strict {
				return nil, apperrors.NewDataFormatError(
					fmt.Sprintf("row %d is malformed", rowNum), err).
					WithContext("row", rowNum)
			}
			dropped++
			l.logger.Debug("dropped malformed row",
				slog.Int("row", rowNum),
				slog.String("error", err.Error()))
			continue
		}

		rec, reason := parseRecord(columns, row)
		if reason != "" {
			if l.strict {
				return nil, apperrors.NewDataFormatError(
					fmt.Sprintf("row %d: %s", rowNum, reason), nil).
					WithContext("row", rowNum)
			}
			dropped++
			l.logger.Debug("dropped row",
				slog.Int("row", rowNum),
				slog.String("reason", reason))
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s (%d rows dropped)", apperrors.ErrDatasetEmpty, source, dropped)
	}

	ds := &domain.Dataset{
		Records:     records,
		Source:      source,
		LoadedAt:    time.Now(),
		DroppedRows: dropped,
	}

	l.logger.Info("dataset loaded",
		slog.String("source", source),
		slog.Int("rows", len(records)),
		slog.Int("dropped", dropped),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

// mapColumns resolves the header row to canonical column positions and
// verifies every required column is present. Unknown columns are ignored.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := columns[name]; dup {
			continue // first occurrence wins
		}
		columns[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewDataFormatError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing_columns", missing)
	}
	return columns, nil
}

// parseRecord coerces one raw row into a CustomerRecord. A non-empty reason
// means the row must be dropped.
func parseRecord(columns map[string]int, row []string) (domain.CustomerRecord, string) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	churned, ok := ParseChurnLabel(get("churned"))
	if !ok {
		return domain.CustomerRecord{}, fmt.Sprintf("unrecognized churn label %q", get("churned"))
	}

	id := get("customer_id")
	if id == "" {
		return domain.CustomerRecord{}, "missing customer id"
	}

	age, err := parseIntCell(get("age"))
	if err != nil {
		return domain.CustomerRecord{}, fmt.Sprintf("unparsable age %q", get("age"))
	}
	tenure, err := parseIntCell(get("tenure_months"))
	if err != nil {
		return domain.CustomerRecord{}, fmt.Sprintf("unparsable tenure %q", get("tenure_months"))
	}
	allotment, err := parseFloatCell(get("data_allotment_gb"))
	if err != nil {
		return domain.CustomerRecord{}, fmt.Sprintf("unparsable data allotment %q", get("data_allotment_gb"))
	}
	satisfaction, err := parseFloatCell(get("satisfaction_score"))
	if err != nil {
		return domain.CustomerRecord{}, fmt.Sprintf("unparsable satisfaction score %q", get("satisfaction_score"))
	}
	revenue, err := parseFloatCell(get("monthly_revenue"))
	if err != nil {
		return domain.CustomerRecord{}, fmt.Sprintf("unparsable revenue %q", get("monthly_revenue"))
	}

	rec := domain.CustomerRecord{
		CustomerID:        id,
		Age:               age,
		Gender:            domain.NormalizeGender(get("gender")),
		Region:            categoricalOrUnknown(get("region")),
		Device:            categoricalOrUnknown(get("device")),
		Plan:              categoricalOrUnknown(get("plan")),
		TenureMonths:      tenure,
		DataAllotmentGB:   allotment,
		SatisfactionScore: satisfaction,
		MonthlyRevenue:    revenue,
		Churned:           churned,

		FullName:    get("full_name"),
		Review:      get("review"),
		ChurnReason: get("churn_reason"),
	}

	// Optional numerics parse best-effort; a bad cell keeps the zero value.
	if v, err := parseFloatCell(get("unit_price")); err == nil {
		rec.UnitPrice = v
	}
	if v, err := parseIntCell(get("purchase_count")); err == nil {
		rec.PurchaseCount = v
	}
	if raw := get("purchase_date"); raw != "" {
		for _, layout := range purchaseDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				rec.PurchaseDate = t
				break
			}
		}
	}

	if !rec.IsValid() {
		return domain.CustomerRecord{}, "field values out of range"
	}
	return rec, ""
}

// ParseChurnLabel normalizes a raw churn label. The second return reports
// whether the label belongs to the recognized vocabulary; callers drop the
// row when it does not, they never guess.
func ParseChurnLabel(raw string) (churned bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "churned", "yes", "true", "1":
		return true, true
	case "active", "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

func categoricalOrUnknown(v string) string {
	if v == "" {
		return domain.UnknownSegment
	}
	return v
}

// parseFloatCell parses a numeric cell, tolerating thousands separators.
func parseFloatCell(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// parseIntCell parses an integer cell, accepting values written as floats
// ("30.0") as long as they are whole numbers.
func parseIntCell(s string) (int, error) {
	v, err := parseFloatCell(s)
	if err != nil {
		return 0, err
	}
	n := int(v)
	if float64(n) != v {
		return 0, fmt.Errorf("not a whole number: %s", s)
	}
	return n, nil
}
