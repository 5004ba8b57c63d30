package report

import (
	"reflect"
	"strings"
	"testing"

	"pstn-call-report/internal/models"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("Europe/London")
	if err != nil {
		t.Fatalf("create normalizer: %v", err)
	}
	return n
}

func TestNormalizeDerivesAllFields(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawCallRecord{
		"startDateTime":     "2026-01-15T10:30:00Z",
		"endDateTime":       "2026-01-15T10:32:00Z",
		"userDisplayName":   "Alice Example",
		"userPrincipalName": "alice@x.com",
		"callerNumber":      "+441234567890",
		"calleeNumber":      "+441234567891",
		"callType":          "inbound",
		"duration":          "90",
		"charge":            "1.234",
	}

	rec, diags := n.Normalize(raw)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if rec.CallDate != "15-01-26" {
		t.Fatalf("expected call date 15-01-26, got %s", rec.CallDate)
	}
	if rec.CallTime != "10:30" {
		t.Fatalf("expected call time 10:30 (GMT), got %s", rec.CallTime)
	}
	if rec.CallType != "Inbound" {
		t.Fatalf("expected call type Inbound, got %s", rec.CallType)
	}
	if rec.TalkingMinutes != 1.5 {
		t.Fatalf("expected talking minutes 1.5, got %v", rec.TalkingMinutes)
	}
	if rec.TotalMinutes != 1.5 {
		t.Fatalf("expected total minutes 1.5, got %v", rec.TotalMinutes)
	}
	if rec.Status != "Answered" {
		t.Fatalf("expected status Answered, got %s", rec.Status)
	}
	if rec.Cost != 1.23 {
		t.Fatalf("expected cost rounded to 1.23, got %v", rec.Cost)
	}
	for _, f := range []models.Field{
		models.FieldStartTimeLocal, models.FieldEndTimeLocal,
		models.FieldCallDate, models.FieldCallTime,
		models.FieldUserDisplayName, models.FieldUserPrincipalName,
		models.FieldCallerID, models.FieldDestination,
		models.FieldCallType, models.FieldStatus,
		models.FieldTalkingMinutes, models.FieldTotalMinutes, models.FieldCost,
	} {
		if !rec.Has(f) {
			t.Fatalf("expected field %s to be defined", f)
		}
	}
}

func TestNormalizeSummerTimeConversion(t *testing.T) {
	n := newTestNormalizer(t)

	rec, diags := n.Normalize(models.RawCallRecord{
		"startDateTime": "2026-07-01T10:00:00Z",
	})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if rec.CallTime != "11:00" {
		t.Fatalf("expected BST call time 11:00, got %s", rec.CallTime)
	}
	if rec.CallDate != "01-07-26" {
		t.Fatalf("expected call date 01-07-26, got %s", rec.CallDate)
	}
}

func TestNormalizeAbsentFieldsStayAbsent(t *testing.T) {
	n := newTestNormalizer(t)

	rec, diags := n.Normalize(models.RawCallRecord{
		"userPrincipalName": "alice@x.com",
	})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !rec.Has(models.FieldUserPrincipalName) {
		t.Fatalf("expected userPrincipalName to be defined")
	}
	for _, f := range []models.Field{
		models.FieldStartTimeLocal, models.FieldCallDate, models.FieldCallTime,
		models.FieldEndTimeLocal, models.FieldUserDisplayName,
		models.FieldCallerID, models.FieldDestination, models.FieldCallType,
		models.FieldStatus, models.FieldTalkingMinutes,
		models.FieldTotalMinutes, models.FieldCost,
	} {
		if rec.Has(f) {
			t.Fatalf("expected field %s to be absent", f)
		}
	}
}

func TestNormalizeStatusThreshold(t *testing.T) {
	n := newTestNormalizer(t)

	rec, _ := n.Normalize(models.RawCallRecord{"duration": "30"})
	if rec.TalkingMinutes != 0.5 {
		t.Fatalf("expected talking minutes 0.5, got %v", rec.TalkingMinutes)
	}
	if rec.Status != "Unanswered" {
		t.Fatalf("expected status Unanswered, got %s", rec.Status)
	}

	// Exactly one minute does not count as answered.
	rec, _ = n.Normalize(models.RawCallRecord{"duration": float64(60)})
	if rec.Status != "Unanswered" {
		t.Fatalf("expected status Unanswered at exactly 1 minute, got %s", rec.Status)
	}

	rec, _ = n.Normalize(models.RawCallRecord{"duration": float64(61)})
	if rec.Status != "Answered" {
		t.Fatalf("expected status Answered above 1 minute, got %s", rec.Status)
	}
}

func TestNormalizeCallTypeCapitalization(t *testing.T) {
	n := newTestNormalizer(t)

	rec, _ := n.Normalize(models.RawCallRecord{"callType": "VOIP"})
	if rec.CallType != "VOIP" {
		t.Fatalf("expected VOIP to stay VOIP, got %s", rec.CallType)
	}

	rec, _ = n.Normalize(models.RawCallRecord{"callType": "byotDirect"})
	if rec.CallType != "ByotDirect" {
		t.Fatalf("expected ByotDirect, got %s", rec.CallType)
	}
}

func TestNormalizeCoercionFailureIsolated(t *testing.T) {
	n := newTestNormalizer(t)

	rec, diags := n.Normalize(models.RawCallRecord{
		"userPrincipalName": "alice@x.com",
		"duration":          "not-a-number",
		"charge":            "0.50",
	})

	if len(diags) != 1 || !strings.Contains(diags[0], "duration") {
		t.Fatalf("expected a single duration diagnostic, got %v", diags)
	}
	if rec.Has(models.FieldTalkingMinutes) || rec.Has(models.FieldTotalMinutes) || rec.Has(models.FieldStatus) {
		t.Fatalf("expected duration-derived fields to be absent")
	}
	// Other derivations are unaffected.
	if !rec.Has(models.FieldUserPrincipalName) || !rec.Has(models.FieldCost) {
		t.Fatalf("expected unrelated fields to still be derived")
	}
	if rec.Cost != 0.5 {
		t.Fatalf("expected cost 0.5, got %v", rec.Cost)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawCallRecord{
		"startDateTime":     "2026-03-10T08:15:00Z",
		"userPrincipalName": "alice@x.com",
		"duration":          "120",
		"charge":            "0.50",
	}

	first, _ := n.Normalize(raw)
	second, _ := n.Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results across runs:\nfirst: %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizeAllPrefixesDiagnostics(t *testing.T) {
	n := newTestNormalizer(t)

	records, diags := n.NormalizeAll([]models.RawCallRecord{
		{"duration": "60"},
		{"duration": "bogus"},
	})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(diags) != 1 || !strings.Contains(diags[0], "record 1") {
		t.Fatalf("expected one diagnostic for record 1, got %v", diags)
	}
}
