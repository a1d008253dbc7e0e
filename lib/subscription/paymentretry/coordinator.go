package paymentretry

import (
	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	subscriptionstore "intavia-backend/lib/subscription/store"
	"intavia-backend/lib/subscription/stripeclient"
	"intavia-backend/models"
	billingapimodels "intavia-backend/models/api/billing"

	log "github.com/sirupsen/logrus"
)

// open invoices per retry; dunning rarely accumulates more
const invoicePageSize = 10

type Provider interface {
	Retry(companyID string, req billingapimodels.RetryPaymentRequest) (billingapimodels.RetryOutcome, error)
}

var Instance Provider

func NewCoordinator() {
	Instance = &impl{
		store:  subscriptionstore.NewInstance(db.DB),
		stripe: stripeclient.Instance,
	}
}

type impl struct {
	store  subscriptionstore.Provider
	stripe stripeclient.Provider
}

// Retry attaches the new payment method and pays off open invoices one by
// one. A failing invoice never aborts the rest, its failure lands in the
// per-invoice results instead.
func (i impl) Retry(companyID string, req billingapimodels.RetryPaymentRequest) (billingapimodels.RetryOutcome, error) {
	if err := req.Validate(); err != nil {
		return billingapimodels.RetryOutcome{}, apperrors.Validation(err.Error())
	}
	rec, err := i.store.GetByCompany(companyID)
	if err != nil {
		return billingapimodels.RetryOutcome{}, err
	}
	if rec == nil || rec.StripeCustomerID == "" {
		return billingapimodels.RetryOutcome{}, apperrors.NotFound("no billing account for company")
	}

	err = i.stripe.AttachPaymentMethod(rec.StripeCustomerID, req.PaymentMethodID)
	if err != nil {
		return billingapimodels.RetryOutcome{}, apperrors.Wrap(apperrors.KindUpstream, err, "payment method attach failed")
	}
	err = i.stripe.SetDefaultPaymentMethod(rec.StripeCustomerID, rec.StripeSubscriptionID, req.PaymentMethodID)
	if err != nil {
		return billingapimodels.RetryOutcome{}, apperrors.Wrap(apperrors.KindUpstream, err, "default payment method update failed")
	}

	invoices, err := i.stripe.ListOpenInvoices(rec.StripeCustomerID, invoicePageSize)
	if err != nil {
		return billingapimodels.RetryOutcome{}, apperrors.Wrap(apperrors.KindUpstream, err, "open invoice listing failed")
	}

	results := make([]billingapimodels.InvoiceRetryResult, 0, len(invoices))
	allPaid := true
	for _, inv := range invoices {
		paid, err := i.stripe.PayInvoice(inv.ID)
		if err != nil {
			allPaid = false
			results = append(results, billingapimodels.InvoiceRetryResult{
				InvoiceID: inv.ID,
				Success:   false,
				Error:     err.Error(),
			})
			continue
		}
		results = append(results, billingapimodels.InvoiceRetryResult{
			InvoiceID: inv.ID,
			Success:   true,
			Status:    paid.Status,
		})
	}

	status := rec.Status
	if allPaid && rec.Status == models.SubscriptionStatusPastDue {
		updated, err := i.store.UpdateStatusIf(rec.ID, models.SubscriptionStatusPastDue, models.SubscriptionStatusActive,
			map[string]interface{}{
				"PastDueSince":            nil,
				"PaymentFailedNotifiedAt": nil,
			})
		if err != nil {
			log.WithError(err).WithField("subscription_id", rec.ID).Error("post-retry status update failed")
		} else if updated {
			status = models.SubscriptionStatusActive
		}
	}
	return billingapimodels.RetryOutcome{
		RetryResults:       results,
		SubscriptionStatus: string(status),
	}, nil
}
