package models

// NotificationKind selects a fixed mail template.
type NotificationKind string

const (
	NotificationInviteSent            NotificationKind = "invite_sent"
	NotificationInviteAccepted        NotificationKind = "invite_accepted"
	NotificationInviteRejected        NotificationKind = "invite_rejected"
	NotificationJobPermissionGranted  NotificationKind = "job_permission_granted"
	NotificationInterviewReminder     NotificationKind = "interview_reminder"
	NotificationInterviewCancellation NotificationKind = "interview_cancellation"
	NotificationDemoRequest           NotificationKind = "demo_request"
	NotificationContractOfferSent     NotificationKind = "contract_offer_sent"
	NotificationEmailVerification     NotificationKind = "email_verification"
	NotificationTrialEnding           NotificationKind = "trial_ending"
	NotificationPaymentFailed         NotificationKind = "payment_failed"
	NotificationSubscriptionExpiring  NotificationKind = "subscription_expiring"
)

// NotificationCategory groups kinds for the per-user preference matrix.
type NotificationCategory string

const (
	NotificationCategoryBilling    NotificationCategory = "billing"
	NotificationCategoryInterviews NotificationCategory = "interviews"
	NotificationCategoryTeam       NotificationCategory = "team"
)

var kindCategory = map[NotificationKind]NotificationCategory{
	NotificationInviteSent:            NotificationCategoryTeam,
	NotificationInviteAccepted:        NotificationCategoryTeam,
	NotificationInviteRejected:        NotificationCategoryTeam,
	NotificationJobPermissionGranted:  NotificationCategoryTeam,
	NotificationInterviewReminder:     NotificationCategoryInterviews,
	NotificationInterviewCancellation: NotificationCategoryInterviews,
	NotificationDemoRequest:           NotificationCategoryTeam,
	NotificationContractOfferSent:     NotificationCategoryTeam,
	NotificationEmailVerification:     NotificationCategoryTeam,
	NotificationTrialEnding:           NotificationCategoryBilling,
	NotificationPaymentFailed:         NotificationCategoryBilling,
	NotificationSubscriptionExpiring:  NotificationCategoryBilling,
}

func (k NotificationKind) Category() NotificationCategory {
	if cat, exist := kindCategory[k]; exist {
		return cat
	}
	return NotificationCategoryTeam
}

func (k NotificationKind) IsKnown() bool {
	_, exist := kindCategory[k]
	return exist
}
