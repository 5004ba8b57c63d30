package models

import "time"

// RowStyle carries presentation flags for a report row. The builder
// only flags styling; rendering is up to the report sink.
type RowStyle struct {
	Bold     bool
	Centered bool
}

// Row is one rendered report row.
type Row struct {
	Cells []string
	Style RowStyle
}

// Report is the assembled tabular report for one recipient scope: a
// header row, one row per record in input order, and a totals row.
// ColumnWidths is advisory metadata for fixed-width sinks.
type Report struct {
	Rows         []Row
	ColumnWidths []int
}

// Period is a reporting window.
type Period struct {
	Start time.Time
	End   time.Time
}

// DistributionBundle ties one recipient to their report, message and
// attachment name. Built once per run and handed to the mail dispatcher.
type DistributionBundle struct {
	Recipient string
	Report    *Report
	Subject   string
	Body      string // HTML
	Filename  string
}

// DistributionPlan is the full output of the distribution planner for
// one run: the consolidated bundle for the manager, one bundle per
// roster member with data, and the members with none.
type DistributionPlan struct {
	Consolidated     DistributionBundle
	UserBundles      []DistributionBundle
	UsersWithoutData []string
	RecordsInScope   int
}
