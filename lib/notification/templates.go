package notification

import (
	"bytes"
	"html/template"
	"intavia-backend/models"

	"github.com/pkg/errors"
)

// TemplateData carries every field any template may reference; unused
// fields stay empty.
type TemplateData struct {
	RecipientName string
	CompanyName   string
	JobTitle      string
	CandidateName string
	InterviewDate string
	MeetLink      string
	InviteLink    string
	PlanName      string
	DaysLeft      int
	Amount        string
	OtpCode       string
}

type mailTemplate struct {
	subject string
	body    string
}

var kindTemplates = map[models.NotificationKind]mailTemplate{
	models.NotificationInviteSent: {
		subject: "You have been invited to join {{.CompanyName}}",
		body:    `<p>Hello,</p><p>{{.CompanyName}} invited you to join their hiring team on Intavia.</p><p><a href="{{.InviteLink}}">Accept the invite</a></p>`,
	},
	models.NotificationInviteAccepted: {
		subject: "Invite accepted",
		body:    `<p>{{.RecipientName}}, your invite for {{.CompanyName}} was accepted.</p>`,
	},
	models.NotificationInviteRejected: {
		subject: "Invite declined",
		body:    `<p>{{.RecipientName}}, your invite for {{.CompanyName}} was declined.</p>`,
	},
	models.NotificationJobPermissionGranted: {
		subject: "Access granted: {{.JobTitle}}",
		body:    `<p>{{.RecipientName}}, you now have access to manage candidates for {{.JobTitle}}.</p>`,
	},
	models.NotificationInterviewReminder: {
		subject: "Interview reminder: {{.CandidateName}}",
		body:    `<p>Reminder: interview with {{.CandidateName}} for {{.JobTitle}} on {{.InterviewDate}}.</p>{{if .MeetLink}}<p><a href="{{.MeetLink}}">Join the meeting</a></p>{{end}}`,
	},
	models.NotificationInterviewCancellation: {
		subject: "Interview cancelled: {{.CandidateName}}",
		body:    `<p>The interview with {{.CandidateName}} for {{.JobTitle}} scheduled on {{.InterviewDate}} was cancelled.</p>`,
	},
	models.NotificationContractOfferSent: {
		subject: "Your contract offer from {{.CompanyName}}",
		body:    `<p>{{.CandidateName}}, you received a contract offer for {{.JobTitle}}.</p><p><a href="{{.InviteLink}}">Review and sign</a></p>`,
	},
	models.NotificationDemoRequest: {
		subject: "Demo request",
		body:    `<p>{{.RecipientName}} from {{.CompanyName}} requested a product demo.</p>`,
	},
	models.NotificationEmailVerification: {
		subject: "Your verification code",
		body:    `<p>Your Intavia verification code is <b>{{.OtpCode}}</b>. It expires in 15 minutes.</p>`,
	},
	models.NotificationTrialEnding: {
		subject: "Your trial ends in {{.DaysLeft}} days",
		body:    `<p>{{.RecipientName}}, the {{.PlanName}} trial for {{.CompanyName}} ends in {{.DaysLeft}} days. Add a payment method to keep your workspace active.</p>`,
	},
	models.NotificationPaymentFailed: {
		subject: "Payment failed for {{.CompanyName}}",
		body:    `<p>{{.RecipientName}}, the latest payment for {{.CompanyName}} failed. Update your payment method to avoid interruption.</p>`,
	},
	models.NotificationSubscriptionExpiring: {
		subject: "Subscription expiring soon",
		body:    `<p>{{.RecipientName}}, the {{.PlanName}} subscription for {{.CompanyName}} expires in {{.DaysLeft}} days.</p>`,
	},
}

func renderKind(kind models.NotificationKind, data TemplateData) (subject, body string, err error) {
	tpl, exist := kindTemplates[kind]
	if !exist {
		return "", "", errors.Errorf("no template for notification kind %v", kind)
	}
	subject, err = renderTemplate(string(kind)+"_subject", tpl.subject, data)
	if err != nil {
		return "", "", err
	}
	body, err = renderTemplate(string(kind)+"_body", tpl.body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func renderTemplate(name, text string, data TemplateData) (string, error) {
	tpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", errors.Wrap(err, "template parse failed")
	}
	buf := new(bytes.Buffer)
	if err = tpl.Execute(buf, data); err != nil {
		return "", errors.Wrap(err, "template render failed")
	}
	return buf.String(), nil
}
