package report

import (
	"fmt"
	"strings"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/utils"
)

// Planner partitions the normalized record set by recipient and
// assembles the distribution bundles handed to the mail dispatcher.
type Planner struct {
	roster       []string
	managerEmail string
}

// NewPlanner creates a planner for the configured roster and manager
// address. The roster is treated as fixed input and never mutated.
func NewPlanner(roster []string, managerEmail string) *Planner {
	return &Planner{roster: roster, managerEmail: managerEmail}
}

// Plan builds the consolidated bundle for the manager, one bundle per
// roster member with matching records, and the list of members with
// none. Scoping is a case-sensitive exact match on userPrincipalName
// over the already-normalized set; records outside the roster are
// excluded from every scope. Recipients keep roster order.
func (p *Planner) Plan(records []models.NormalizedCallRecord, window models.Period) *models.DistributionPlan {
	inRoster := make(map[string]bool, len(p.roster))
	for _, upn := range p.roster {
		inRoster[upn] = true
	}

	var consolidated []models.NormalizedCallRecord
	for _, r := range records {
		if r.Has(models.FieldUserPrincipalName) && inRoster[r.UserPrincipalName] {
			consolidated = append(consolidated, r)
		}
	}

	stamp := utils.FormatFileStamp(window.Start) + "_" + utils.FormatFileStamp(window.End)
	periodText := fmt.Sprintf("%s to %s", utils.FormatPeriod(window.Start), utils.FormatPeriod(window.End))
	subjectPeriod := fmt.Sprintf("(%s - %s)", utils.FormatPeriod(window.Start), utils.FormatPeriod(window.End))

	plan := &models.DistributionPlan{RecordsInScope: len(consolidated)}

	for _, upn := range p.roster {
		var scoped []models.NormalizedCallRecord
		for _, r := range consolidated {
			if r.UserPrincipalName == upn {
				scoped = append(scoped, r)
			}
		}
		if len(scoped) == 0 {
			plan.UsersWithoutData = append(plan.UsersWithoutData, upn)
			continue
		}
		plan.UserBundles = append(plan.UserBundles, models.DistributionBundle{
			Recipient: upn,
			Report:    BuildReport(scoped),
			Subject:   fmt.Sprintf("Your Call Data Report %s", subjectPeriod),
			Body:      userBody(scoped, upn, periodText),
			Filename:  fmt.Sprintf("calls_report_%s_%s.xlsx", upn, stamp),
		})
	}

	plan.Consolidated = models.DistributionBundle{
		Recipient: p.managerEmail,
		Report:    BuildReport(consolidated),
		Subject:   fmt.Sprintf("Consolidated Call Data Report %s", subjectPeriod),
		Body:      managerBody(plan.UsersWithoutData, periodText),
		Filename:  fmt.Sprintf("consolidated_calls_report_%s.xlsx", stamp),
	}

	return plan
}

// userBody builds the message body for one user's report.
func userBody(scoped []models.NormalizedCallRecord, upn, periodText string) string {
	name := upn
	for _, r := range scoped {
		if r.Has(models.FieldUserDisplayName) {
			name = r.UserDisplayName
			break
		}
	}
	return fmt.Sprintf("Dear %s,<br><br>Please find attached your call data report for the period %s.", name, periodText)
}

// managerBody builds the consolidated message body, listing any roster
// members with no data in the window.
func managerBody(usersWithoutData []string, periodText string) string {
	body := fmt.Sprintf("Dear Manager,<br><br>Please find attached the consolidated call data report for the period %s.", periodText)
	if len(usersWithoutData) > 0 {
		body += "<br><br>The following users had no call data during this period:<br>"
		body += strings.Join(usersWithoutData, "<br>")
	} else {
		body += "<br><br>All users had call data during this period."
	}
	return body
}
