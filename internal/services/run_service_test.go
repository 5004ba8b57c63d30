package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/report"
)

type fakeSource struct {
	records   []models.RawCallRecord
	tokenErr  error
	fetchErr  error
	gotWindow models.Period
}

func (f *fakeSource) GetToken(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "test-token", nil
}

func (f *fakeSource) GetCallLogs(ctx context.Context, token string, from, to time.Time) ([]models.RawCallRecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.gotWindow = models.Period{Start: from, End: to}
	return f.records, nil
}

type fakeMailer struct {
	sent []models.DistributionBundle
	err  error
}

func (f *fakeMailer) SendReportEmail(bundle models.DistributionBundle, xlsxData []byte) error {
	if f.err != nil {
		return f.err
	}
	if len(xlsxData) == 0 {
		return fmt.Errorf("no attachment data")
	}
	f.sent = append(f.sent, bundle)
	return nil
}

func newTestRunService(t *testing.T, source RecordSource, mailer ReportMailer) *RunService {
	t.Helper()
	normalizer, err := report.NewNormalizer("Europe/London")
	if err != nil {
		t.Fatalf("create normalizer: %v", err)
	}
	planner := report.NewPlanner([]string{"alice@x.com", "bob@x.com"}, "manager@x.com")
	return NewRunService(source, normalizer, planner, NewExcelService(), mailer, 24)
}

func TestRunWindowDispatchesReports(t *testing.T) {
	source := &fakeSource{records: []models.RawCallRecord{
		{"userPrincipalName": "alice@x.com", "duration": "120", "charge": "0.50"},
		{"userPrincipalName": "carol@x.com", "duration": "10"},
	}}
	mailer := &fakeMailer{}
	svc := newTestRunService(t, source, mailer)

	window := models.Period{
		Start: time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
	}
	summary, err := svc.RunWindow(context.Background(), window)
	if err != nil {
		t.Fatalf("run window: %v", err)
	}

	if summary.RecordsFetched != 2 || summary.RecordsInScope != 1 {
		t.Fatalf("expected 2 fetched / 1 in scope, got %d / %d",
			summary.RecordsFetched, summary.RecordsInScope)
	}
	if len(summary.UsersWithoutData) != 1 || summary.UsersWithoutData[0] != "bob@x.com" {
		t.Fatalf("expected bob without data, got %v", summary.UsersWithoutData)
	}

	// alice's individual mail first, then the manager's consolidated one
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.sent))
	}
	if mailer.sent[0].Recipient != "alice@x.com" || mailer.sent[1].Recipient != "manager@x.com" {
		t.Fatalf("unexpected dispatch order: %s, %s",
			mailer.sent[0].Recipient, mailer.sent[1].Recipient)
	}
	if summary.EmailsSent != 2 || summary.EmailsFailed != 0 {
		t.Fatalf("expected 2 sent / 0 failed, got %d / %d",
			summary.EmailsSent, summary.EmailsFailed)
	}
}

func TestRunWindowNoData(t *testing.T) {
	source := &fakeSource{}
	mailer := &fakeMailer{}
	svc := newTestRunService(t, source, mailer)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !summary.NoData {
		t.Fatalf("expected no-data summary")
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no emails for an empty window, got %d", len(mailer.sent))
	}

	// Run uses the configured rolling window.
	gotHours := source.gotWindow.End.Sub(source.gotWindow.Start).Hours()
	if gotHours != 24 {
		t.Fatalf("expected a 24 hour window, got %v hours", gotHours)
	}
}

func TestRunWindowAuthFailureAborts(t *testing.T) {
	source := &fakeSource{tokenErr: fmt.Errorf("invalid client secret")}
	mailer := &fakeMailer{}
	svc := newTestRunService(t, source, mailer)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected auth failure to abort the run")
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no emails after auth failure")
	}
}

func TestRunWindowDispatchFailureContinues(t *testing.T) {
	source := &fakeSource{records: []models.RawCallRecord{
		{"userPrincipalName": "alice@x.com", "duration": "120"},
		{"userPrincipalName": "bob@x.com", "duration": "30"},
	}}
	mailer := &fakeMailer{err: fmt.Errorf("smtp unavailable")}
	svc := newTestRunService(t, source, mailer)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("dispatch failures must not fail the run: %v", err)
	}
	// two user bundles plus the consolidated one all failed to send
	if summary.EmailsFailed != 3 || summary.EmailsSent != 0 {
		t.Fatalf("expected 3 failed / 0 sent, got %d / %d",
			summary.EmailsFailed, summary.EmailsSent)
	}
}

func TestRunWindowNilMailerSkipsDispatch(t *testing.T) {
	source := &fakeSource{records: []models.RawCallRecord{
		{"userPrincipalName": "alice@x.com", "duration": "120"},
	}}
	svc := newTestRunService(t, source, nil)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.EmailsSent != 0 || summary.EmailsFailed != 0 {
		t.Fatalf("expected no dispatch with mail disabled, got %d sent / %d failed",
			summary.EmailsSent, summary.EmailsFailed)
	}
}
