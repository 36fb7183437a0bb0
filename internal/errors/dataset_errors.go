package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Dataset and analytics errors (using errors package for sentinel errors)
var (
	ErrDatasetMissing    = errors.New("dataset file not found")
	ErrDatasetEmpty      = errors.New("dataset contains no usable records")
	ErrMalformedDataset  = errors.New("dataset does not match the expected format")
	ErrNoMatchingRecords = errors.New("no records match the active filter")
	ErrUnknownSegment    = errors.New("unknown segment dimension")
	ErrUnknownField      = errors.New("unknown numeric field")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})

	// Add standard fields
	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status

	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	// Add extensions
	for k, v := range pd.Extensions {
		data[k] = v
	}

	// Use standard JSON marshaling
	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// MapDatasetError maps dataset and analytics errors to HTTP problem details
func MapDatasetError(err error, traceID string) render.Renderer {
	instance := fmt.Sprintf("/api/analytics#trace-%s", traceID)

	// Check if it's an APIError from errors.go
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode == "DATASET_NOT_FOUND" {
			return NewProblemDetails(
				http.StatusNotFound,
				TypeDatasetNotFound,
				"Dataset Not Found",
				"No dataset file found at the configured path.",
				instance,
			).WithExtension("trace_id", traceID).
				WithExtension("error_code", "DATASET_NOT_FOUND")
		}
	}

	switch {
	case errors.Is(err, ErrDatasetMissing):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeDatasetNotFound,
			"Dataset Not Found",
			"No dataset file found at the configured path.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATASET_NOT_FOUND")

	case errors.Is(err, ErrDatasetEmpty):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeDataFormat,
			"Empty Dataset",
			"The dataset contains no usable records after validation.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATASET_EMPTY")

	case errors.Is(err, ErrMalformedDataset):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeDataFormat,
			"Dataset Format Error",
			"The dataset does not match the expected column layout.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATA_FORMAT_ERROR")

	case errors.Is(err, ErrNoMatchingRecords):
		return NewProblemDetails(
			http.StatusOK,
			TypeEmptyResult,
			"No Matching Records",
			"No records match the active filter. Relax the filter to see results.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NO_MATCHING_RECORDS")

	case errors.Is(err, ErrUnknownSegment):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Unknown Segment",
			"The requested segment dimension is not recognized.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "SEGMENT_NOT_FOUND")

	case errors.Is(err, ErrUnknownField):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Unknown Field",
			"The requested numeric field is not recognized.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "FIELD_NOT_FOUND")

	case errors.Is(err, ErrUnsupportedFormat):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeExportFormat,
			"Unsupported Export Format",
			"The requested export format is not supported. Use csv, xlsx, or json.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "UNSUPPORTED_EXPORT_FORMAT")

	default:
		// Generic error
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}
}
