package report

import (
	"fmt"
	"strconv"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/utils"
)

// columnSpec declares one report column: its header label, the
// normalized field whose dataset-level presence controls whether the
// column renders, and how a row's cell is produced. Numeric columns set
// value instead of text; their cells are formatted to 2 decimal places
// and they participate in the totals row.
type columnSpec struct {
	label string
	field models.Field
	text  func(models.NormalizedCallRecord) string
	value func(models.NormalizedCallRecord) float64
}

// reportColumns is the fixed column contract: two leading spacer
// columns (always rendered), then the call detail columns in report
// order. Adding or removing a column is an edit here, not a new branch.
var reportColumns = []columnSpec{
	{label: "", field: ""},
	{label: "", field: ""},
	{label: "User Display Name", field: models.FieldUserDisplayName,
		text: func(r models.NormalizedCallRecord) string { return r.UserDisplayName }},
	{label: "User Principal Name", field: models.FieldUserPrincipalName,
		text: func(r models.NormalizedCallRecord) string { return r.UserPrincipalName }},
	{label: "Call Date", field: models.FieldCallDate,
		text: func(r models.NormalizedCallRecord) string { return r.CallDate }},
	{label: "Call Time", field: models.FieldCallTime,
		text: func(r models.NormalizedCallRecord) string { return r.CallTime }},
	{label: "Caller ID", field: models.FieldCallerID,
		text: func(r models.NormalizedCallRecord) string { return r.CallerID }},
	{label: "Destination", field: models.FieldDestination,
		text: func(r models.NormalizedCallRecord) string { return r.Destination }},
	{label: "Call Type", field: models.FieldCallType,
		text: func(r models.NormalizedCallRecord) string { return r.CallType }},
	{label: "Status", field: models.FieldStatus,
		text: func(r models.NormalizedCallRecord) string { return r.Status }},
	{label: "Talking", field: models.FieldTalkingMinutes,
		value: func(r models.NormalizedCallRecord) float64 { return r.TalkingMinutes }},
	{label: "Totals", field: models.FieldTotalMinutes,
		value: func(r models.NormalizedCallRecord) float64 { return r.TotalMinutes }},
	{label: "Cost", field: models.FieldCost,
		value: func(r models.NormalizedCallRecord) float64 { return r.Cost }},
}

// BuildReport assembles the tabular report for one recipient scope: a
// styled header row, one row per record in input order, and a bold
// totals row. A column renders only when its field is defined for at
// least one record in the dataset; rows missing the field within a
// rendered column get an empty cell. An empty dataset yields a valid
// report of header plus zero totals.
func BuildReport(records []models.NormalizedCallRecord) *models.Report {
	present := make(map[models.Field]bool)
	for _, r := range records {
		for f, ok := range r.Defined {
			if ok {
				present[f] = true
			}
		}
	}

	var included []columnSpec
	var absentTotals []columnSpec
	for _, c := range reportColumns {
		switch {
		case c.field == "" || present[c.field]:
			included = append(included, c)
		case c.value != nil:
			absentTotals = append(absentTotals, c)
		}
	}

	header := models.Row{Style: models.RowStyle{Bold: true, Centered: true}}
	for _, c := range included {
		header.Cells = append(header.Cells, c.label)
	}

	rows := []models.Row{header}
	for _, r := range records {
		row := models.Row{Cells: make([]string, len(included))}
		for i, c := range included {
			if !r.Has(c.field) {
				continue
			}
			if c.value != nil {
				row.Cells[i] = formatAmount(c.value(r))
			} else if c.text != nil {
				row.Cells[i] = c.text(r)
			}
		}
		rows = append(rows, row)
	}

	// The call count reflects the dataset handed in, not the rendered
	// columns.
	totals := models.Row{Cells: make([]string, len(included)), Style: models.RowStyle{Bold: true}}
	totals.Cells[0] = "Total:"
	totals.Cells[1] = fmt.Sprintf("Calls - %d", len(records))
	for i, c := range included {
		if c.value == nil {
			continue
		}
		totals.Cells[i] = formatAmount(sumColumn(records, c))
	}
	// Totals the dataset never populated still render as zero rather
	// than being omitted.
	for range absentTotals {
		totals.Cells = append(totals.Cells, formatAmount(0))
	}
	rows = append(rows, totals)

	return &models.Report{Rows: rows, ColumnWidths: columnWidths(rows)}
}

// sumColumn sums a numeric column over the records that define it.
func sumColumn(records []models.NormalizedCallRecord, c columnSpec) float64 {
	var sum float64
	for _, r := range records {
		if r.Has(c.field) {
			sum += c.value(r)
		}
	}
	return utils.Round2(sum)
}

// formatAmount renders a numeric cell to exactly 2 decimal places.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// columnWidths computes advisory widths: the longest cell text in each
// column plus 2.
func columnWidths(rows []models.Row) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}
