package churn

import (
	"math"

	"churnlens/pkg/contracts/domain"
)

// Correlation computes the Pearson coefficient between two numeric fields.
// It returns NaN when either field has zero variance or fewer than two
// records are present; a field correlated with itself is exactly 1.
func Correlation(records []domain.CustomerRecord, x, y domain.NumericField) float64 {
	n := len(records)
	if n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for _, cr := range records {
		sumX += x.Value(cr)
		sumY += y.Value(cr)
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for _, cr := range records {
		dx := x.Value(cr) - meanX
		dy := y.Value(cr) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	if x == y {
		return 1
	}

	r := cov / math.Sqrt(varX*varY)
	// Rounding can push |r| marginally past 1 on perfectly collinear data.
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// Correlate pairs the coefficient with its inputs and sample size for the
// single-coefficient endpoint.
func Correlate(records []domain.CustomerRecord, x, y domain.NumericField) domain.CorrelationResult {
	return domain.CorrelationResult{
		FieldX:      x,
		FieldY:      y,
		Coefficient: Correlation(records, x, y),
		Samples:     len(records),
	}
}

// DefaultMatrixFields is the field set the dashboard heat table shows when
// the request does not name its own.
func DefaultMatrixFields() []domain.NumericField {
	return []domain.NumericField{
		domain.FieldSatisfaction,
		domain.FieldTenureMonths,
		domain.FieldMonthlyRevenue,
		domain.FieldAge,
		domain.FieldDataAllotment,
		domain.FieldChurnIndicator,
	}
}

// Matrix computes the pairwise Pearson grid over the given fields, defaulting
// to DefaultMatrixFields. The grid is symmetric; Pairs carries each
// off-diagonal cell once for tabular display.
func Matrix(records []domain.CustomerRecord, fields ...domain.NumericField) domain.CorrelationMatrix {
	if len(fields) == 0 {
		fields = DefaultMatrixFields()
	}

	grid := make([][]float64, len(fields))
	var pairs []domain.CorrelationPair
	for i, fx := range fields {
		grid[i] = make([]float64, len(fields))
		for j, fy := range fields {
			if j < i {
				grid[i][j] = grid[j][i]
				continue
			}
			c := Correlation(records, fx, fy)
			grid[i][j] = c
			if j > i {
				pairs = append(pairs, domain.CorrelationPair{
					FieldX:      fx,
					FieldY:      fy,
					Coefficient: c,
				})
			}
		}
	}

	return domain.CorrelationMatrix{Fields: fields, Matrix: grid, Pairs: pairs}
}
