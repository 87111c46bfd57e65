// cmd/reorderctl/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
	"github.com/Githubtestacc12/reorder-dashboard/internal/pipeline"
	"github.com/Githubtestacc12/reorder-dashboard/internal/report"
	"github.com/Githubtestacc12/reorder-dashboard/internal/service"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "reorderctl",
		Usage: "inspect and export reorder reports from the command line",
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "print the KPI summary of the filtered report",
				Flags:  filterFlags(),
				Action: runSummary,
			},
			{
				Name:  "export",
				Usage: "write the filtered report to a CSV file",
				Flags: append(filterFlags(), &cli.StringFlag{
					Name:  "out",
					Usage: "Destination CSV file",
					Value: "filtered_reorder_report.csv",
				}),
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "report",
			Usage:   "Path to the reorder report workbook",
			Value:   "./reorder_report.xlsx",
			EnvVars: []string{"APP_REPORT_PATH"},
		},
		&cli.IntFlag{
			Name:    "buffer-days",
			Usage:   "Reorder processing buffer in days",
			Value:   pipeline.DefaultBufferDays,
			EnvVars: []string{"APP_BUFFER_DAYS"},
		},
		&cli.StringSliceFlag{
			Name:  "customers",
			Usage: "Customer labels to include (default: all)",
		},
		&cli.StringSliceFlag{
			Name:  "items",
			Usage: "Item labels to include (default: all)",
		},
		&cli.StringFlag{
			Name:  "status",
			Usage: `Status filter: "All", "Reorder Soon" or "OK"`,
			Value: domain.StatusAll,
		},
		&cli.IntFlag{
			Name:  "max-days",
			Usage: "Ceiling on Days Until Out (default: no ceiling)",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "Start of the Last Due range (2006-01-02)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "End of the Last Due range (2006-01-02)",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Free-text search over every column",
		},
	}
}

func loadService(c *cli.Context) (*service.ReportService, error) {
	loader := report.NewLoader(report.NewMemoryTableCache())
	table, err := loader.Load(c.Context, c.String("report"))
	if err != nil {
		return nil, err
	}
	return service.NewReportService(table, c.Int("buffer-days")), nil
}

func criteriaFromFlags(c *cli.Context) (domain.Criteria, error) {
	criteria := domain.Criteria{
		Status: strings.TrimSpace(c.String("status")),
		Search: c.String("search"),
	}

	if customers := c.StringSlice("customers"); len(customers) > 0 {
		criteria.Customers = domain.SelectSubset(customers...)
	}
	if items := c.StringSlice("items"); len(items) > 0 {
		criteria.Items = domain.SelectSubset(items...)
	}
	if maxDays := c.Int("max-days"); maxDays >= 0 {
		limit := float64(maxDays)
		criteria.MaxDays = &limit
	}

	var err error
	if criteria.DueFrom, err = parseDateFlag(c, "from"); err != nil {
		return criteria, err
	}
	if criteria.DueTo, err = parseDateFlag(c, "to"); err != nil {
		return criteria, err
	}

	return criteria, nil
}

func parseDateFlag(c *cli.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.String(name))
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q: expected %s", name, raw, domain.DateLayout)
	}
	return &d, nil
}

func runSummary(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	criteria, err := criteriaFromFlags(c)
	if err != nil {
		return err
	}

	summary := svc.Summary(criteria)
	fmt.Printf("Total Items:         %d\n", summary.TotalItems)
	fmt.Printf("Need Reorder:        %d\n", summary.NeedReorder)
	fmt.Printf("Avg Days Until Out:  %d\n", summary.AvgDaysUntilOut)
	fmt.Printf("Total Suggested Qty: %d\n", summary.TotalSuggestedQty)
	return nil
}

func runExport(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	criteria, err := criteriaFromFlags(c)
	if err != nil {
		return err
	}

	data, err := svc.ExportCSV(criteria)
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}
