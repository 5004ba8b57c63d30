package models

import "time"

// Field identifies one derived field on a normalized call record. The
// set of defined fields is carried explicitly so that presence/absence
// stays queryable after normalization.
type Field string

const (
	FieldStartTimeLocal    Field = "startTimeLocal"
	FieldEndTimeLocal      Field = "endTimeLocal"
	FieldCallDate          Field = "callDate"
	FieldCallTime          Field = "callTime"
	FieldUserDisplayName   Field = "userDisplayName"
	FieldUserPrincipalName Field = "userPrincipalName"
	FieldCallerID          Field = "callerId"
	FieldDestination       Field = "destination"
	FieldCallType          Field = "callType"
	FieldStatus            Field = "status"
	FieldTalkingMinutes    Field = "talkingMinutes"
	FieldTotalMinutes      Field = "totalMinutes"
	FieldCost              Field = "cost"
)

// RawCallRecord is a single PSTN call entry as decoded from the Graph
// payload. Any field may be absent.
type RawCallRecord map[string]interface{}

// NormalizedCallRecord is the derived form of one raw call record.
// A field carries a meaningful value only when Defined marks it; a
// derived field is defined iff its source field was present on the raw
// record.
type NormalizedCallRecord struct {
	StartTimeLocal    time.Time
	EndTimeLocal      time.Time
	CallDate          string
	CallTime          string
	UserDisplayName   string
	UserPrincipalName string
	CallerID          string
	Destination       string
	CallType          string
	Status            string
	TalkingMinutes    float64
	TotalMinutes      float64
	Cost              float64
	Defined           map[Field]bool
}

// Has reports whether the derived field is defined on this record.
func (r NormalizedCallRecord) Has(f Field) bool {
	return r.Defined[f]
}
