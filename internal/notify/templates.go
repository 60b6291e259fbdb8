// internal/notify/templates.go
package notify

import (
	"fmt"
	"strings"

	"remotehire/internal/models"
)

// Email is a rendered message ready for the sender.
type Email struct {
	To      string
	Subject string
	Body    string
}

type template struct {
	subject string
	body    string
}

// statusTemplates maps each pipeline stage to its applicant-facing message.
// Placeholders use {{name}} tokens substituted by renderTemplate.
var statusTemplates = map[models.Status]template{
	models.StatusNew: {
		subject: "Your application for {{roleTitle}} is in review",
		body: "Hi {{fullName}},\n\n" +
			"Your application ({{appId}}) for the {{roleTitle}} role is back in the review queue. " +
			"We will reach out as soon as there is an update.\n\n" +
			"You can check your status any time with your application ID.\n",
	},
	models.StatusAudioPass: {
		subject: "Next step for your {{roleTitle}} application",
		body: "Hi {{fullName}},\n\n" +
			"Good news: your audio introduction for the {{roleTitle}} role passed review. " +
			"We will contact you shortly to schedule the next step.\n\n" +
			"Application ID: {{appId}}\n",
	},
	models.StatusInterview: {
		subject: "Interview stage for {{roleTitle}}",
		body: "Hi {{fullName}},\n\n" +
			"Your application ({{appId}}) for the {{roleTitle}} role has moved to the interview stage. " +
			"Keep an eye on your inbox for scheduling details.\n",
	},
	models.StatusHired: {
		subject: "Welcome aboard, {{fullName}}!",
		body: "Hi {{fullName}},\n\n" +
			"Congratulations! You have been selected for the {{roleTitle}} role. " +
			"We will follow up with onboarding details shortly.\n\n" +
			"Application ID: {{appId}}\n",
	},
	models.StatusRejected: {
		subject: "Update on your {{roleTitle}} application",
		body: "Hi {{fullName}},\n\n" +
			"Thank you for your interest in the {{roleTitle}} role. " +
			"After careful review we have decided not to move forward with your application ({{appId}}) at this time.\n\n" +
			"We appreciate the time you invested and wish you the best.\n",
	},
}

const receivedTemplate = `Hi {{fullName}},

We received your application for the {{roleTitle}} role.

Your application ID is {{appId}}. Keep it handy: you can use it together with your email to check your status at any time.
`

// renderTemplate substitutes {{key}} tokens in tmpl with the given values.
func renderTemplate(tmpl string, values map[string]string) string {
	out := tmpl
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func recordValues(rec *models.ApplicationRecord) map[string]string {
	return map[string]string{
		"fullName":  rec.FullName,
		"appId":     rec.AppID,
		"roleTitle": rec.RoleTitle,
	}
}

// ComposeStatusEmail renders the applicant-facing message for a status change.
// The bool is false when no template exists for the status.
func ComposeStatusEmail(rec *models.ApplicationRecord, status models.Status) (Email, bool) {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return Email{}, false
	}
	values := recordValues(rec)
	return Email{
		To:      rec.Email,
		Subject: renderTemplate(tmpl.subject, values),
		Body:    renderTemplate(tmpl.body, values),
	}, true
}

// ComposeReceivedEmail renders the confirmation sent right after submission.
func ComposeReceivedEmail(rec *models.ApplicationRecord) Email {
	values := recordValues(rec)
	return Email{
		To:      rec.Email,
		Subject: renderTemplate("We received your application for {{roleTitle}}", values),
		Body:    renderTemplate(receivedTemplate, values),
	}
}

// ComposeMilestoneSummary renders the single admin digest for applications
// sitting untouched past the milestone window.
func ComposeMilestoneSummary(adminEmail string, stale []models.ApplicationRecord) Email {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d application(s) have had no activity for 7 days:\n\n", len(stale))
	for _, rec := range stale {
		fmt.Fprintf(&sb, "- %s | %s | %s | last updated %s\n",
			rec.AppID, rec.FullName, rec.Status, rec.LastUpdated.UTC().Format("2006-01-02"))
	}
	return Email{
		To:      adminEmail,
		Subject: fmt.Sprintf("7-day follow-up: %d stale application(s)", len(stale)),
		Body:    sb.String(),
	}
}
