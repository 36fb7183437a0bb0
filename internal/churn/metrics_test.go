package churn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"churnlens/pkg/contracts/domain"
)

func TestOverall(t *testing.T) {
	t.Run("100 records with 29 churned", func(t *testing.T) {
		records := generateRecords(100, 29)

		m := Overall(records)

		assert.Equal(t, 100, m.TotalCustomers)
		assert.Equal(t, 29, m.ChurnedCustomers)
		assert.Equal(t, 71, m.ActiveCustomers)
		assert.InDelta(t, 0.29, m.ChurnRate, 1e-12)
	})

	t.Run("empty input yields zeros not errors", func(t *testing.T) {
		m := Overall(nil)

		assert.Equal(t, 0, m.TotalCustomers)
		assert.Equal(t, 0, m.ChurnedCustomers)
		assert.Zero(t, m.ChurnRate)
		assert.Zero(t, m.RevenueLost)
		assert.Zero(t, m.AvgSatisfaction)
	})

	t.Run("revenue lost sums churned records only", func(t *testing.T) {
		a := customer("C1")
		a.MonthlyRevenue = 100
		a.Churned = true
		b := customer("C2")
		b.MonthlyRevenue = 250
		b.Churned = true
		c := customer("C3")
		c.MonthlyRevenue = 999

		m := Overall([]domain.CustomerRecord{a, b, c})

		assert.InDelta(t, 350, m.RevenueLost, 1e-9)
		assert.InDelta(t, 1349, m.TotalRevenue, 1e-9)
		assert.InDelta(t, 1.0/3.0, m.ChurnRate, 1e-12)
	})

	t.Run("averages", func(t *testing.T) {
		a := customer("C1")
		a.SatisfactionScore = 2
		a.TenureMonths = 10
		a.MonthlyRevenue = 100
		b := customer("C2")
		b.SatisfactionScore = 5
		b.TenureMonths = 30
		b.MonthlyRevenue = 300

		m := Overall([]domain.CustomerRecord{a, b})

		assert.InDelta(t, 3.5, m.AvgSatisfaction, 1e-9)
		assert.InDelta(t, 20, m.AvgTenureMonths, 1e-9)
		assert.InDelta(t, 200, m.AvgMonthlyRevenue, 1e-9)
	})

	t.Run("churn rate stays in unit interval", func(t *testing.T) {
		for _, churned := range []int{0, 1, 50, 99, 100} {
			m := Overall(generateRecords(100, churned))
			assert.GreaterOrEqual(t, m.ChurnRate, 0.0)
			assert.LessOrEqual(t, m.ChurnRate, 1.0)
		}
	})
}
