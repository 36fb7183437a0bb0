package churn

import (
	"io"
	"log/slog"

	"churnlens/pkg/contracts/domain"
)

// customer returns a valid baseline record; tests mutate the fields they
// exercise.
func customer(id string) domain.CustomerRecord {
	return domain.CustomerRecord{
		CustomerID:        id,
		Age:               30,
		Gender:            domain.GenderFemale,
		Region:            "Lagos",
		Device:            "Smartphone",
		Plan:              "Premium",
		TenureMonths:      12,
		DataAllotmentGB:   10,
		SatisfactionScore: 4,
		MonthlyRevenue:    100,
	}
}

// generateRecords builds total records of which the first churned are labeled
// churned, spreading them over a small fixed vocabulary so breakdowns get
// multiple segments.
func generateRecords(total, churned int) []domain.CustomerRecord {
	regions := []string{"Lagos", "Abuja", "Kano", "Rivers"}
	devices := []string{"Smartphone", "Feature Phone", "Router"}
	plans := []string{"Basic", "Standard", "Premium"}

	records := make([]domain.CustomerRecord, 0, total)
	for i := 0; i < total; i++ {
		cr := customer(fmtID(i))
		cr.Region = regions[i%len(regions)]
		cr.Device = devices[i%len(devices)]
		cr.Plan = plans[i%len(plans)]
		cr.Age = 18 + i%50
		cr.TenureMonths = i % 48
		cr.SatisfactionScore = float64(i % 6)
		cr.MonthlyRevenue = float64(50 + i*3)
		cr.Churned = i < churned
		if cr.Churned {
			cr.ChurnReason = "High call charges"
		}
		records = append(records, cr)
	}
	return records
}

func fmtID(i int) string {
	const digits = "0123456789"
	return "CUST-" + string([]byte{
		digits[(i/1000)%10],
		digits[(i/100)%10],
		digits[(i/10)%10],
		digits[i%10],
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
