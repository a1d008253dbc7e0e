package billingapimodels

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type SubscriptionView struct {
	ID                 string                    `json:"id"`
	PlanID             string                    `json:"plan_id"`
	Status             models.SubscriptionStatus `json:"status"`
	StatusName         string                    `json:"status_name"`
	CurrentPeriodStart *time.Time                `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time                `json:"current_period_end,omitempty"`
	TrialEnd           *time.Time                `json:"trial_end,omitempty"`
	CancelAtPeriodEnd  bool                      `json:"cancel_at_period_end"`
}

func SubscriptionConvert(rec dbmodels.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:                 rec.ID,
		PlanID:             rec.PlanID,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		CurrentPeriodStart: rec.CurrentPeriodStart,
		CurrentPeriodEnd:   rec.CurrentPeriodEnd,
		TrialEnd:           rec.TrialEnd,
		CancelAtPeriodEnd:  rec.CancelAtPeriodEnd,
	}
}

type RetryPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
}

func (r RetryPaymentRequest) Validate() error {
	if r.PaymentMethodID == "" {
		return errors.New("payment method not specified")
	}
	return nil
}

type InvoiceRetryResult struct {
	InvoiceID string `json:"invoice_id"`
	Success   bool   `json:"success"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

type RetryOutcome struct {
	RetryResults       []InvoiceRetryResult `json:"retry_results"`
	SubscriptionStatus string               `json:"subscription_status"`
}

type PortalSessionView struct {
	URL string `json:"url"`
}
