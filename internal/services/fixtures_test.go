package services

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"churnlens/pkg/contracts/domain"
)

// testDataset builds a deterministic dataset: regions, devices, and plans
// cycle so per-segment counts are predictable, and the first churned
// records all share one stated reason.
func testDataset(total, churned int) *domain.Dataset {
	regions := []string{"Lagos", "Abuja", "Kano", "Rivers"}
	devices := []string{"Smartphone", "Feature Phone", "Router"}
	plans := []string{"Basic", "Standard", "Premium"}

	records := make([]domain.CustomerRecord, 0, total)
	for i := 0; i < total; i++ {
		cr := domain.CustomerRecord{
			CustomerID:        fmt.Sprintf("CUST-%04d", i),
			FullName:          fmt.Sprintf("Customer %d", i),
			Age:               18 + i%50,
			Gender:            "Female",
			Region:            regions[i%len(regions)],
			Device:            devices[i%len(devices)],
			Plan:              plans[i%len(plans)],
			TenureMonths:      i % 48,
			DataAllotmentGB:   float64(10 + i%20),
			SatisfactionScore: float64(i % 6),
			MonthlyRevenue:    float64(50 + 3*i),
		}
		if i < churned {
			cr.Churned = true
			cr.ChurnReason = "High call charges"
		}
		records = append(records, cr)
	}

	return &domain.Dataset{
		Records:     records,
		Source:      "customers.csv",
		LoadedAt:    time.Now(),
		DroppedRows: 3,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
