package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pstn-call-report/internal/config"
	"pstn-call-report/internal/graph"
	"pstn-call-report/internal/models"
	"pstn-call-report/internal/report"
	"pstn-call-report/internal/services"
)

// One-shot batch mode: run the pipeline once for the configured rolling
// window (or an explicit window from the arguments) and exit.
func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var window *models.Period
	switch len(os.Args) {
	case 1:
		// default rolling window
	case 3:
		start, err := time.Parse(time.RFC3339, os.Args[1])
		if err != nil {
			log.Fatalf("Invalid start: %v", err)
		}
		end, err := time.Parse(time.RFC3339, os.Args[2])
		if err != nil {
			log.Fatalf("Invalid end: %v", err)
		}
		window = &models.Period{Start: start.UTC(), End: end.UTC()}
	default:
		fmt.Println("Usage: go run cmd/run-report/main.go [<start> <end>]")
		fmt.Println("Example: go run cmd/run-report/main.go 2025-12-01T06:00:00Z 2025-12-02T06:00:00Z")
		os.Exit(1)
	}

	graphClient := graph.NewClient(cfg.Graph)
	normalizer, err := report.NewNormalizer(cfg.Report.Timezone)
	if err != nil {
		log.Fatalf("Failed to create normalizer: %v", err)
	}
	planner := report.NewPlanner(cfg.Report.UserPrincipalNames, cfg.Report.ManagerEmail)
	excelService := services.NewExcelService()

	var mailer services.ReportMailer
	if cfg.Email.APIKey != "" {
		mailer = services.NewEmailService(cfg.Email)
	} else {
		log.Printf("SendGrid API key not configured, mail dispatch disabled")
	}

	runService := services.NewRunService(
		graphClient,
		normalizer,
		planner,
		excelService,
		mailer,
		cfg.Report.WindowHours,
	)

	var summary *models.RunSummary
	if window != nil {
		summary, err = runService.RunWindow(context.Background(), *window)
	} else {
		summary, err = runService.Run(context.Background())
	}
	if err != nil {
		log.Fatalf("Report run failed: %v", err)
	}

	fmt.Printf("=== Report Run Summary ===\n\n")
	fmt.Printf("Window: %s to %s\n",
		summary.WindowStart.Format(time.RFC3339), summary.WindowEnd.Format(time.RFC3339))
	fmt.Printf("Records fetched: %d\n", summary.RecordsFetched)
	fmt.Printf("Records in scope: %d\n", summary.RecordsInScope)
	fmt.Printf("Emails sent: %d, failed: %d\n", summary.EmailsSent, summary.EmailsFailed)
	if len(summary.UsersWithoutData) > 0 {
		fmt.Printf("Users without data: %v\n", summary.UsersWithoutData)
	}
	if summary.NoData {
		fmt.Println("No call data found for the specified date range.")
	}
}
