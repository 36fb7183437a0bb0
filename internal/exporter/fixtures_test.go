package exporter

import (
	"fmt"
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

// generateRecords spreads records over a small fixed vocabulary so exports
// get several segments per breakdown; the first churned records carry a
// stated reason. Every numeric lands exactly on two decimals, so CSV
// round-trips compare equal.
func generateRecords(total, churned int) []domain.CustomerRecord {
	regions := []string{"Lagos", "Abuja", "Kano", "Rivers"}
	devices := []string{"Smartphone", "Feature Phone", "Router"}
	plans := []string{"Basic", "Standard", "Premium"}

	records := make([]domain.CustomerRecord, 0, total)
	for i := 0; i < total; i++ {
		cr := customer(fmt.Sprintf("CUST-%04d", i))
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

func testSnapshot(total, churned int) Snapshot {
	records := generateRecords(total, churned)
	info := domain.DatasetInfo{Source: "customers.csv", Rows: total, DroppedRows: 3}
	return BuildSnapshot(records, info, domain.FilterState{})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
