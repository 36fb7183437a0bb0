// Package api contains API contract definitions for churnlens.
// Version v1 represents the current stable API version.
package api

import (
	"churnlens/pkg/contracts/domain"
)

// Analytics API Requests

// FilterRequest carries the filter dimensions accepted by every analytics
// endpoint. Multi-value dimensions repeat the query parameter; bounds are
// inclusive.
type FilterRequest struct {
	Regions []string `json:"regions,omitempty" query:"region"`
	Devices []string `json:"devices,omitempty" query:"device"`
	Plans   []string `json:"plans,omitempty" query:"plan"`
	Genders []string `json:"genders,omitempty" query:"gender"`

	AgeMin    *int `json:"age_min,omitempty" query:"age_min" validate:"omitempty,min=0,max=130"`
	AgeMax    *int `json:"age_max,omitempty" query:"age_max" validate:"omitempty,min=0,max=130"`
	TenureMin *int `json:"tenure_min,omitempty" query:"tenure_min" validate:"omitempty,min=0,max=600"`
	TenureMax *int `json:"tenure_max,omitempty" query:"tenure_max" validate:"omitempty,min=0,max=600"`
}

// FilterState converts the request into the domain filter, normalized so
// equal selections behave identically everywhere.
func (fr FilterRequest) FilterState() domain.FilterState {
	fs := domain.FilterState{
		Regions:   fr.Regions,
		Devices:   fr.Devices,
		Plans:     fr.Plans,
		Genders:   fr.Genders,
		AgeMin:    fr.AgeMin,
		AgeMax:    fr.AgeMax,
		TenureMin: fr.TenureMin,
		TenureMax: fr.TenureMax,
	}
	fs.Normalize()
	return fs
}

// SegmentBreakdownRequest selects one breakdown dimension.
type SegmentBreakdownRequest struct {
	FilterRequest
	Key string `json:"key" param:"key" validate:"required,segment_key"`
}

// CorrelationRequest names the two numeric fields to correlate.
type CorrelationRequest struct {
	FilterRequest
	FieldX string `json:"field_x" query:"x" validate:"required,numeric_field"`
	FieldY string `json:"field_y" query:"y" validate:"required,numeric_field"`
}

// CorrelationMatrixRequest names the fields of the pairwise grid; empty means
// the default field set.
type CorrelationMatrixRequest struct {
	FilterRequest
	Fields []string `json:"fields,omitempty" query:"fields" validate:"omitempty,max=8,dive,numeric_field"`
}

// Export API Requests

// ExportRequest asks for a file download of the currently filtered view.
type ExportRequest struct {
	FilterRequest
	Format string `json:"format" query:"format" validate:"required,export_format"`
}
