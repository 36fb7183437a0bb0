package api

import (
	"math"

	"churnlens/pkg/contracts/domain"
)

// Correlation API Responses
//
// A Pearson coefficient over a zero-variance field is NaN, and NaN has no
// JSON representation. These payloads mirror the domain results with
// nullable coefficients so an undefined correlation crosses the wire as
// null instead of failing to marshal.

// CorrelationPayload is the wire form of a single coefficient.
type CorrelationPayload struct {
	FieldX      string   `json:"field_x"`
	FieldY      string   `json:"field_y"`
	Coefficient *float64 `json:"coefficient"`
	Samples     int      `json:"samples"`
}

// NewCorrelationPayload converts a domain result for serialization.
func NewCorrelationPayload(result domain.CorrelationResult) CorrelationPayload {
	return CorrelationPayload{
		FieldX:      result.FieldX.String(),
		FieldY:      result.FieldY.String(),
		Coefficient: nullableCoefficient(result.Coefficient),
		Samples:     result.Samples,
	}
}

// CorrelationPairPayload is one off-diagonal matrix cell.
type CorrelationPairPayload struct {
	FieldX      string   `json:"field_x"`
	FieldY      string   `json:"field_y"`
	Coefficient *float64 `json:"coefficient"`
}

// CorrelationMatrixPayload is the wire form of the pairwise grid.
type CorrelationMatrixPayload struct {
	Fields []string                 `json:"fields"`
	Matrix [][]*float64             `json:"matrix"`
	Pairs  []CorrelationPairPayload `json:"pairs,omitempty"`
}

// NewCorrelationMatrixPayload converts a domain matrix for serialization.
func NewCorrelationMatrixPayload(matrix domain.CorrelationMatrix) CorrelationMatrixPayload {
	payload := CorrelationMatrixPayload{
		Fields: make([]string, len(matrix.Fields)),
		Matrix: make([][]*float64, len(matrix.Matrix)),
	}
	for i, field := range matrix.Fields {
		payload.Fields[i] = field.String()
	}
	for i, row := range matrix.Matrix {
		cells := make([]*float64, len(row))
		for j, c := range row {
			cells[j] = nullableCoefficient(c)
		}
		payload.Matrix[i] = cells
	}
	for _, pair := range matrix.Pairs {
		payload.Pairs = append(payload.Pairs, CorrelationPairPayload{
			FieldX:      pair.FieldX.String(),
			FieldY:      pair.FieldY.String(),
			Coefficient: nullableCoefficient(pair.Coefficient),
		})
	}
	return payload
}

// nullableCoefficient maps values without a JSON representation to nil.
func nullableCoefficient(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
