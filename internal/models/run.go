package models

import "time"

// RunSummary describes the outcome of one report run.
type RunSummary struct {
	WindowStart      time.Time `json:"windowStart"`
	WindowEnd        time.Time `json:"windowEnd"`
	RecordsFetched   int       `json:"recordsFetched"`
	RecordsInScope   int       `json:"recordsInScope"`
	UsersWithoutData []string  `json:"usersWithoutData,omitempty"`
	EmailsSent       int       `json:"emailsSent"`
	EmailsFailed     int       `json:"emailsFailed"`
	Diagnostics      []string  `json:"diagnostics,omitempty"`
	NoData           bool      `json:"noData"`
}
