package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/utils"
)

// answeredThresholdMinutes is the talking-time threshold above which a
// call counts as answered. Carried over unchanged from the source
// system pending product clarification.
const answeredThresholdMinutes = 1.0

// Normalizer derives report fields from raw call records. Timestamp
// conversion to local civil time depends only on the UTC instant and
// the loaded location, so DST transitions are handled by the zone data.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer converting timestamps into the
// given IANA timezone (e.g. "Europe/London").
func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Normalize derives a NormalizedCallRecord from one raw record. Every
// derived field is defined iff its source field was present; missing
// inputs never synthesize values and never error. Coercion failures are
// returned as diagnostics, leave only the affected field undefined, and
// never fail the record.
func (n *Normalizer) Normalize(raw models.RawCallRecord) (models.NormalizedCallRecord, []string) {
	rec := models.NormalizedCallRecord{Defined: make(map[models.Field]bool)}
	var diags []string

	if v, ok := stringField(raw, "startDateTime"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			diags = append(diags, fmt.Sprintf("startDateTime %q is not a valid timestamp: %v", v, err))
		} else {
			local := t.In(n.loc)
			rec.StartTimeLocal = local
			rec.CallDate = utils.FormatCallDate(local)
			rec.CallTime = utils.FormatCallTime(local)
			rec.Defined[models.FieldStartTimeLocal] = true
			rec.Defined[models.FieldCallDate] = true
			rec.Defined[models.FieldCallTime] = true
		}
	}

	if v, ok := stringField(raw, "endDateTime"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			diags = append(diags, fmt.Sprintf("endDateTime %q is not a valid timestamp: %v", v, err))
		} else {
			rec.EndTimeLocal = t.In(n.loc)
			rec.Defined[models.FieldEndTimeLocal] = true
		}
	}

	if v, ok := stringField(raw, "userDisplayName"); ok {
		rec.UserDisplayName = v
		rec.Defined[models.FieldUserDisplayName] = true
	}
	if v, ok := stringField(raw, "userPrincipalName"); ok {
		rec.UserPrincipalName = v
		rec.Defined[models.FieldUserPrincipalName] = true
	}
	if v, ok := stringField(raw, "callerNumber"); ok {
		rec.CallerID = v
		rec.Defined[models.FieldCallerID] = true
	}
	if v, ok := stringField(raw, "calleeNumber"); ok {
		rec.Destination = v
		rec.Defined[models.FieldDestination] = true
	}
	if v, ok := stringField(raw, "callType"); ok {
		rec.CallType = capitalize(v)
		rec.Defined[models.FieldCallType] = true
	}

	if seconds, present, err := numericField(raw, "duration"); present {
		if err != nil {
			diags = append(diags, fmt.Sprintf("duration: %v", err))
		} else {
			rec.TalkingMinutes = utils.SecondsToMinutes(seconds)
			rec.TotalMinutes = rec.TalkingMinutes
			rec.Defined[models.FieldTalkingMinutes] = true
			rec.Defined[models.FieldTotalMinutes] = true

			// Status derives from talking time, so it exists only when
			// duration does.
			if rec.TalkingMinutes > answeredThresholdMinutes {
				rec.Status = "Answered"
			} else {
				rec.Status = "Unanswered"
			}
			rec.Defined[models.FieldStatus] = true
		}
	}

	if charge, present, err := numericField(raw, "charge"); present {
		if err != nil {
			diags = append(diags, fmt.Sprintf("charge: %v", err))
		} else {
			rec.Cost = utils.Round2(charge)
			rec.Defined[models.FieldCost] = true
		}
	}

	return rec, diags
}

// NormalizeAll normalizes a batch of raw records, preserving order and
// collecting per-record diagnostics.
func (n *Normalizer) NormalizeAll(raws []models.RawCallRecord) ([]models.NormalizedCallRecord, []string) {
	records := make([]models.NormalizedCallRecord, 0, len(raws))
	var diags []string
	for i, raw := range raws {
		rec, recDiags := n.Normalize(raw)
		for _, d := range recDiags {
			diags = append(diags, fmt.Sprintf("record %d: %s", i, d))
		}
		records = append(records, rec)
	}
	return records, diags
}

// stringField reads a field as a string. Non-string scalar values are
// rendered with fmt.Sprint since the source feed is loosely typed.
func stringField(raw models.RawCallRecord, key string) (string, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// numericField reads a field that may arrive as a number or a numeric
// string. The error return signals a present but uncoercible value.
func numericField(raw models.RawCallRecord, key string) (float64, bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, true, fmt.Errorf("value %q is not numeric", n)
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("value of type %T is not numeric", v)
	}
}

// capitalize upper-cases only the first rune, leaving the rest as
// received ("inbound" -> "Inbound", "VOIP" -> "VOIP").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
