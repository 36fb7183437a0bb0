package churn

import (
	"fmt"
	"strconv"
	"strings"

	"churnlens/pkg/contracts/domain"
)

const reportWidth = 60

// RenderReport renders the executive summary as the plain-text report written
// by the CLI. Sections mirror the dashboard: headline metrics, the worst
// segments, stated churn reasons, and the at-risk counts.
func RenderReport(summary domain.ExecutiveSummary) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	divider := strings.Repeat("-", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString("CUSTOMER CHURN ANALYSIS - EXECUTIVE SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Dataset:   %s (%d rows kept, %d dropped)\n",
		summary.Dataset.Source, summary.Dataset.Rows, summary.Dataset.DroppedRows)
	b.WriteString("\n")

	o := summary.Overall
	b.WriteString("KEY METRICS\n" + divider + "\n")
	fmt.Fprintf(&b, "• Total customers:   %d\n", o.TotalCustomers)
	fmt.Fprintf(&b, "• Churned customers: %d (%s churn rate)\n",
		o.ChurnedCustomers, FormatPercent(o.ChurnRate))
	fmt.Fprintf(&b, "• Active customers:  %d\n", o.ActiveCustomers)
	fmt.Fprintf(&b, "• Total revenue:     %s\n", FormatAmount(o.TotalRevenue))
	fmt.Fprintf(&b, "• Revenue lost:      %s\n", FormatAmount(o.RevenueLost))
	fmt.Fprintf(&b, "• Avg satisfaction:  %.2f / 5\n", o.AvgSatisfaction)
	fmt.Fprintf(&b, "• Avg tenure:        %.1f months\n", o.AvgTenureMonths)
	b.WriteString("\n")

	if len(summary.Highlights) > 0 {
		b.WriteString("SEGMENT HIGHLIGHTS\n" + divider + "\n")
		for _, h := range summary.Highlights {
			fmt.Fprintf(&b, "• Highest-churn %s: %s (%s across %d customers)\n",
				strings.ToLower(h.Key.Title()), h.Segment,
				FormatPercent(h.ChurnRate), h.Customers)
		}
		b.WriteString("\n")
	}

	if len(summary.TopReasons) > 0 {
		b.WriteString("TOP CHURN REASONS\n" + divider + "\n")
		for i, rc := range summary.TopReasons {
			if o.ChurnedCustomers > 0 {
				share := float64(rc.Count) / float64(o.ChurnedCustomers)
				fmt.Fprintf(&b, "%d. %s: %d (%s of churned)\n",
					i+1, rc.Reason, rc.Count, FormatPercent(share))
			} else {
				fmt.Fprintf(&b, "%d. %s: %d\n", i+1, rc.Reason, rc.Count)
			}
		}
		b.WriteString("\n")
	}

	ar := summary.AtRisk
	b.WriteString("RISK INDICATORS\n" + divider + "\n")
	fmt.Fprintf(&b, "• At-risk customers (satisfaction <= %.0f): %d\n",
		domain.AtRiskSatisfactionThreshold, ar.AtRiskCustomers)
	fmt.Fprintf(&b, "• Revenue at risk: %s\n", FormatAmount(ar.RevenueAtRisk))
	fmt.Fprintf(&b, "• New customers (tenure < %d months): %d\n",
		domain.NewCustomerTenureMonths, ar.NewCustomers)
	fmt.Fprintf(&b, "• High-value customers (revenue >= %s): %d\n",
		FormatAmount(ar.RevenueThreshold), ar.HighValue)
	fmt.Fprintf(&b, "• High-value customers at risk: %d\n", ar.HighValueAtRisk)
	b.WriteString(rule + "\n")

	return b.String()
}

// FormatPercent renders a 0..1 rate as a percentage with one decimal.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// FormatAmount renders a currency-agnostic amount with thousands separators
// and two decimals.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteString(frac)
	return b.String()
}
