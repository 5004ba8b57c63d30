package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/report"

	"github.com/robfig/cron/v3"
)

// RecordSource fetches raw call records for a reporting window.
type RecordSource interface {
	GetToken(ctx context.Context) (string, error)
	GetCallLogs(ctx context.Context, token string, from, to time.Time) ([]models.RawCallRecord, error)
}

// ReportMailer dispatches one distribution bundle with its attachment.
type ReportMailer interface {
	SendReportEmail(bundle models.DistributionBundle, xlsxData []byte) error
}

// RunService orchestrates the report pipeline: fetch, normalize, plan
// distribution, render spreadsheets and dispatch mail. One run is a
// single linear pass; recipients are processed strictly in roster
// order with the manager last.
type RunService struct {
	source       RecordSource
	normalizer   *report.Normalizer
	planner      *report.Planner
	excelService *ExcelService
	mailer       ReportMailer // nil disables dispatch
	windowHours  int
	cron         *cron.Cron
}

// NewRunService creates a new run service. A nil mailer disables mail
// dispatch; reports are still built and rendered.
func NewRunService(
	source RecordSource,
	normalizer *report.Normalizer,
	planner *report.Planner,
	excelService *ExcelService,
	mailer ReportMailer,
	windowHours int,
) *RunService {
	return &RunService{
		source:       source,
		normalizer:   normalizer,
		planner:      planner,
		excelService: excelService,
		mailer:       mailer,
		windowHours:  windowHours,
		cron:         cron.New(),
	}
}

// Start starts the cron scheduler
func (s *RunService) Start() {
	s.cron.Start()
	log.Println("Report run scheduler started")
}

// Stop stops the cron scheduler
func (s *RunService) Stop() {
	s.cron.Stop()
	log.Println("Report run scheduler stopped")
}

// Schedule registers the recurring report run for the given cron
// expression.
func (s *RunService) Schedule(spec string) (cron.EntryID, error) {
	entryID, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			log.Printf("ERROR: Scheduled report run failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to schedule report run: %w", err)
	}
	log.Printf("Scheduled report run with schedule: %s", spec)
	return entryID, nil
}

// Run executes the pipeline once over the configured rolling window
// ending now.
func (s *RunService) Run(ctx context.Context) (*models.RunSummary, error) {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(s.windowHours) * time.Hour)
	return s.RunWindow(ctx, models.Period{Start: start, End: end})
}

// RunWindow executes the pipeline once for an explicit window. Token
// acquisition and fetch failures abort the run before any
// normalization; an empty fetch ends the run early with a no-data
// summary; dispatch failures are logged per recipient and the run
// continues.
func (s *RunService) RunWindow(ctx context.Context, window models.Period) (*models.RunSummary, error) {
	log.Printf("Querying for calls from %s to %s",
		window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))

	token, err := s.source.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token: %w", err)
	}

	raws, err := s.source.GetCallLogs(ctx, token, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch call logs: %w", err)
	}

	summary := &models.RunSummary{
		WindowStart:    window.Start,
		WindowEnd:      window.End,
		RecordsFetched: len(raws),
	}

	if len(raws) == 0 {
		log.Printf("No call data found for the specified date range")
		summary.NoData = true
		return summary, nil
	}

	records, diags := s.normalizer.NormalizeAll(raws)
	for _, d := range diags {
		log.Printf("WARNING: %s", d)
	}
	summary.Diagnostics = diags

	plan := s.planner.Plan(records, window)
	summary.RecordsInScope = plan.RecordsInScope
	summary.UsersWithoutData = plan.UsersWithoutData
	for _, upn := range plan.UsersWithoutData {
		log.Printf("No call data found for user: %s", upn)
	}

	for _, bundle := range plan.UserBundles {
		s.dispatch(bundle, summary)
	}
	s.dispatch(plan.Consolidated, summary)

	return summary, nil
}

// dispatch renders one bundle's report and hands it to the mailer.
func (s *RunService) dispatch(bundle models.DistributionBundle, summary *models.RunSummary) {
	xlsxData, err := s.excelService.RenderReport(bundle.Report)
	if err != nil {
		log.Printf("ERROR: Failed to render report for %s: %v", bundle.Recipient, err)
		summary.EmailsFailed++
		return
	}

	if s.mailer == nil {
		log.Printf("WARNING: Mail dispatch disabled, skipping email to %s", bundle.Recipient)
		return
	}

	if err := s.mailer.SendReportEmail(bundle, xlsxData); err != nil {
		log.Printf("ERROR: Failed to send report email to %s: %v", bundle.Recipient, err)
		summary.EmailsFailed++
		return
	}
	summary.EmailsSent++
	log.Printf("Report sent to %s", bundle.Recipient)
}
