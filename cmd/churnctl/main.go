// Command churnctl runs churn analytics from the terminal: a one-page
// report, filtered exports, and dataset validation, all over the same
// engine the dashboard uses.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"churnlens/internal/churn"
	"churnlens/internal/config"
	"churnlens/internal/exporter"
	"churnlens/pkg/contracts/domain"
)

var rootCmd = &cobra.Command{
	Use:           "churnctl",
	Short:         "Customer churn analytics from the command line",
	Long:          "churnctl loads a customer CSV and answers the same questions as the ChurnLens dashboard: overall churn, segment breakdowns, and filtered exports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var flags struct {
	dataset string
	strict  bool

	regions []string
	devices []string
	plans   []string
	genders []string

	ageMin    int
	ageMax    int
	tenureMin int
	tenureMax int
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.dataset, "dataset", "", "path to the customer CSV (or CHURN_DATASET_PATH)")
	pf.BoolVar(&flags.strict, "strict", false, "fail on the first malformed row instead of dropping it")
	pf.StringSliceVar(&flags.regions, "region", nil, "restrict to one or more regions")
	pf.StringSliceVar(&flags.devices, "device", nil, "restrict to one or more device types")
	pf.StringSliceVar(&flags.plans, "plan", nil, "restrict to one or more plans")
	pf.StringSliceVar(&flags.genders, "gender", nil, "restrict to one or more genders")
	pf.IntVar(&flags.ageMin, "age-min", -1, "minimum age (inclusive)")
	pf.IntVar(&flags.ageMax, "age-max", -1, "maximum age (inclusive)")
	pf.IntVar(&flags.tenureMin, "tenure-min", -1, "minimum tenure in months (inclusive)")
	pf.IntVar(&flags.tenureMax, "tenure-max", -1, "maximum tenure in months (inclusive)")

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(segmentsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(validateCmd())
}

// datasetPath resolves the CSV location: flag first, then environment.
func datasetPath() (string, error) {
	if flags.dataset != "" {
		return flags.dataset, nil
	}
	if p := os.Getenv("CHURN_DATASET_PATH"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no dataset given: pass --dataset or set CHURN_DATASET_PATH")
}

// loadDataset loads and cleans the CSV with a quiet logger; CLI output
// stays on stdout.
func loadDataset() (*domain.Dataset, error) {
	path, err := datasetPath()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loader := churn.NewLoader(logger)
	loader.SetStrict(flags.strict)
	return loader.Load(path)
}

// activeFilter assembles the filter from the shared flags.
func activeFilter() domain.FilterState {
	fs := domain.FilterState{
		Regions: flags.regions,
		Devices: flags.devices,
		Plans:   flags.plans,
		Genders: flags.genders,
	}
	if flags.ageMin >= 0 {
		fs.AgeMin = &flags.ageMin
	}
	if flags.ageMax >= 0 {
		fs.AgeMax = &flags.ageMax
	}
	if flags.tenureMin >= 0 {
		fs.TenureMin = &flags.tenureMin
	}
	if flags.tenureMax >= 0 {
		fs.TenureMax = &flags.tenureMax
	}
	fs.Normalize()
	return fs
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func reportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the executive churn report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			filter := activeFilter()
			records := churn.Apply(ds.Records, filter)
			summary := churn.Summary(records, ds.Info())

			headline := fmt.Sprintf("%s\n%s customers, churn rate %s, revenue lost %s",
				titleStyle.Render(config.AppName+" report — "+filter.Describe()),
				churn.FormatAmount(float64(summary.Overall.TotalCustomers)),
				churn.FormatPercent(summary.Overall.ChurnRate),
				churn.FormatAmount(summary.Overall.RevenueLost))
			fmt.Fprintln(cmd.OutOrStdout(), cardStyle.Render(headline))

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("No records match the active filter."))
				return nil
			}

			report := churn.RenderReport(summary)
			fmt.Fprintln(cmd.OutOrStdout(), report)

			if out != "" {
				if err := os.WriteFile(out, []byte(report), 0644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "also write the plain-text report to this file")
	return cmd
}

func segmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments <dimension>",
		Short: "Print the churn breakdown by one dimension (device, plan, region, gender, age_band, tenure_band, satisfaction_band)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			records := churn.Apply(ds.Records, activeFilter())
			table, err := churn.Breakdown(records, domain.SegmentKey(args[0]))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Breakdown by "+args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %10s %10s %12s %14s\n",
				"SEGMENT", "CUSTOMERS", "CHURNED", "CHURN RATE", "REVENUE LOST")
			for _, row := range table.Rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %10d %10d %12s %14s\n",
					row.Segment, row.Customers, row.Churned,
					churn.FormatPercent(row.ChurnRate),
					churn.FormatAmount(row.RevenueLost))
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered view to a csv, xlsx, or json file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}

			ds, err := loadDataset()
			if err != nil {
				return err
			}

			filter := activeFilter()
			records := churn.Apply(ds.Records, filter)
			snap := exporter.BuildSnapshot(records, ds.Info(), filter)

			if out == "" {
				paths, err := config.GetPaths()
				if err != nil {
					return err
				}
				if err := paths.EnsureDirectories(); err != nil {
					return err
				}
				out = paths.GetExportPath(config.ExportFileName(f.String(), time.Now()))
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			if err := exporter.New(logger).ExportFile(out, f, snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records (%s) to %s\n",
				len(snap.Records), filter.Describe(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, xlsx, or json")
	cmd.Flags().StringVar(&out, "out", "", "output file path (defaults to the exports directory)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset loads cleanly and report its vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			bar := progressbar.Default(int64(ds.Len()), "scanning records")
			invalid := 0
			for _, cr := range ds.Records {
				if !cr.IsValid() {
					invalid++
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			opts := churn.Options(ds.Records)

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Dataset validation"))
			fmt.Fprintf(cmd.OutOrStdout(), "Source:        %s\n", ds.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Records:       %d\n", ds.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped rows:  %d\n", ds.DroppedRows)
			fmt.Fprintf(cmd.OutOrStdout(), "Regions:       %s\n", strings.Join(opts.Regions, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Devices:       %s\n", strings.Join(opts.Devices, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Plans:         %s\n", strings.Join(opts.Plans, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Age range:     %d-%d\n", opts.AgeMin, opts.AgeMax)
			fmt.Fprintf(cmd.OutOrStdout(), "Tenure range:  %d-%d months\n", opts.TenureMin, opts.TenureMax)

			if invalid > 0 {
				return fmt.Errorf("%d retained records violate required-field invariants", invalid)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}
