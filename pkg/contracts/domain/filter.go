package domain

import (
	"sort"
	"strconv"
	"strings"
)

// FilterState is the user's current selection. Multi-value dimensions match
// when the record's value is any of the selected values (OR within a
// dimension); dimensions combine with logical AND. Nil slices and nil bounds
// mean "no restriction". A zero FilterState matches every record.
//
// FilterState is owned by the caller (one per request or CLI invocation) and
// is never persisted.
type FilterState struct {
	Regions []string `json:"regions,omitempty"`
	Devices []string `json:"devices,omitempty"`
	Plans   []string `json:"plans,omitempty"`
	Genders []string `json:"genders,omitempty"`

	AgeMin    *int `json:"age_min,omitempty"`
	AgeMax    *int `json:"age_max,omitempty"`
	TenureMin *int `json:"tenure_min,omitempty"`
	TenureMax *int `json:"tenure_max,omitempty"`
}

// IsZero reports whether no filter dimension is active.
func (fs FilterState) IsZero() bool {
	return len(fs.Regions) == 0 && len(fs.Devices) == 0 &&
		len(fs.Plans) == 0 && len(fs.Genders) == 0 &&
		fs.AgeMin == nil && fs.AgeMax == nil &&
		fs.TenureMin == nil && fs.TenureMax == nil
}

// Matches reports whether the record satisfies every active dimension.
func (fs FilterState) Matches(cr CustomerRecord) bool {
	if !matchesAny(fs.Regions, cr.Region) {
		return false
	}
	if !matchesAny(fs.Devices, cr.Device) {
		return false
	}
	if !matchesAny(fs.Plans, cr.Plan) {
		return false
	}
	if !matchesAny(fs.Genders, cr.Gender) {
		return false
	}
	if fs.AgeMin != nil && cr.Age < *fs.AgeMin {
		return false
	}
	if fs.AgeMax != nil && cr.Age > *fs.AgeMax {
		return false
	}
	if fs.TenureMin != nil && cr.TenureMonths < *fs.TenureMin {
		return false
	}
	if fs.TenureMax != nil && cr.TenureMonths > *fs.TenureMax {
		return false
	}
	return true
}

// Normalize trims, drops empty values, deduplicates, and sorts every
// multi-value dimension so equal selections compare and log identically.
func (fs *FilterState) Normalize() {
	fs.Regions = normalizeValues(fs.Regions)
	fs.Devices = normalizeValues(fs.Devices)
	fs.Plans = normalizeValues(fs.Plans)
	fs.Genders = normalizeValues(fs.Genders)
}

// Describe renders the active dimensions as a short human-readable string for
// logs and report headers; "all customers" when nothing is active.
func (fs FilterState) Describe() string {
	var parts []string
	if len(fs.Regions) > 0 {
		parts = append(parts, "region="+strings.Join(fs.Regions, "|"))
	}
	if len(fs.Devices) > 0 {
		parts = append(parts, "device="+strings.Join(fs.Devices, "|"))
	}
	if len(fs.Plans) > 0 {
		parts = append(parts, "plan="+strings.Join(fs.Plans, "|"))
	}
	if len(fs.Genders) > 0 {
		parts = append(parts, "gender="+strings.Join(fs.Genders, "|"))
	}
	if fs.AgeMin != nil || fs.AgeMax != nil {
		parts = append(parts, "age="+boundString(fs.AgeMin, fs.AgeMax))
	}
	if fs.TenureMin != nil || fs.TenureMax != nil {
		parts = append(parts, "tenure="+boundString(fs.TenureMin, fs.TenureMax))
	}
	if len(parts) == 0 {
		return "all customers"
	}
	return strings.Join(parts, ", ")
}

func matchesAny(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func normalizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func boundString(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return strconv.Itoa(*min) + ".." + strconv.Itoa(*max)
	case min != nil:
		return ">=" + strconv.Itoa(*min)
	default:
		return "<=" + strconv.Itoa(*max)
	}
}
