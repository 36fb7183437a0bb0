package churn

import (
	"churnlens/pkg/contracts/domain"
)

// Overall computes the headline metrics for a record set. The churn rate is
// the churned fraction of the set (0 on empty input, never an error) and
// revenue lost sums monthly revenue over churned records only.
func Overall(records []domain.CustomerRecord) domain.OverallMetrics {
	m := domain.OverallMetrics{TotalCustomers: len(records)}
	if len(records) == 0 {
		return m
	}

	var satisfactionSum, tenureSum float64
	for _, cr := range records {
		m.TotalRevenue += cr.MonthlyRevenue
		satisfactionSum += cr.SatisfactionScore
		tenureSum += float64(cr.TenureMonths)
		if cr.Churned {
			m.ChurnedCustomers++
			m.RevenueLost += cr.MonthlyRevenue
		}
	}

	total := float64(m.TotalCustomers)
	m.ActiveCustomers = m.TotalCustomers - m.ChurnedCustomers
	m.ChurnRate = float64(m.ChurnedCustomers) / total
	m.AvgSatisfaction = satisfactionSum / total
	m.AvgTenureMonths = tenureSum / total
	m.AvgMonthlyRevenue = m.TotalRevenue / total
	return m
}
