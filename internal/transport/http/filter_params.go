package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apierrors "churnlens/internal/errors"
	custommw "churnlens/internal/middleware"
	api "churnlens/pkg/contracts/api/v1"
)

// parseFilterRequest builds the shared filter DTO from query parameters.
// Multi-value dimensions repeat the parameter (?region=Lagos&region=Abuja);
// bounds are inclusive integers. A false return means a validation problem
// has already been written to the response.
func parseFilterRequest(w http.ResponseWriter, r *http.Request, v *custommw.ValidationMiddleware, errorHandler *apierrors.ErrorHandler) (api.FilterRequest, bool) {
	q := r.URL.Query()
	req := api.FilterRequest{
		Regions: trimValues(q["region"]),
		Devices: trimValues(q["device"]),
		Plans:   trimValues(q["plan"]),
		Genders: trimValues(q["gender"]),
	}

	bounds := []struct {
		param string
		dst   **int
	}{
		{"age_min", &req.AgeMin},
		{"age_max", &req.AgeMax},
		{"tenure_min", &req.TenureMin},
		{"tenure_max", &req.TenureMax},
	}
	for _, b := range bounds {
		raw := strings.TrimSpace(q.Get(b.param))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorHandler.HandleError(w, r, apierrors.ErrValidation(b.param, fmt.Sprintf("%s must be a valid integer", b.param)))
			return api.FilterRequest{}, false
		}
		*b.dst = &n
	}

	if err := v.ValidateStruct(req); err != nil {
		errorHandler.HandleError(w, r, err)
		return api.FilterRequest{}, false
	}

	return req, true
}

// trimValues drops empty entries from repeated query parameters.
func trimValues(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitFieldList parses a comma-separated field list parameter; empty input
// means the caller's default set.
func splitFieldList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var fields []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}
