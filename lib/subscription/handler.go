package subscription

import (
	"encoding/json"
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	subscriptionstore "intavia-backend/lib/subscription/store"
	"intavia-backend/lib/subscription/stripeclient"
	"intavia-backend/models"
	billingapimodels "intavia-backend/models/api/billing"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v82"
)

type Provider interface {
	GetSubscription(companyID string) (billingapimodels.SubscriptionView, error)
	CreatePortalSession(companyID string) (billingapimodels.PortalSessionView, error)
	ProcessWebhook(payload []byte, signature string) error
}

var Instance Provider

func NewHandler(portalReturnURL string) {
	Instance = &impl{
		store:           subscriptionstore.NewInstance(db.DB),
		stripe:          stripeclient.Instance,
		portalReturnURL: portalReturnURL,
	}
}

type impl struct {
	store           subscriptionstore.Provider
	stripe          stripeclient.Provider
	portalReturnURL string
}

func (i impl) GetSubscription(companyID string) (billingapimodels.SubscriptionView, error) {
	rec, err := i.store.GetByCompany(companyID)
	if err != nil {
		return billingapimodels.SubscriptionView{}, err
	}
	if rec == nil {
		return billingapimodels.SubscriptionView{}, apperrors.NotFound("no subscription for company")
	}
	return billingapimodels.SubscriptionConvert(*rec), nil
}

func (i impl) CreatePortalSession(companyID string) (billingapimodels.PortalSessionView, error) {
	rec, err := i.store.GetByCompany(companyID)
	if err != nil {
		return billingapimodels.PortalSessionView{}, err
	}
	if rec == nil || rec.StripeCustomerID == "" {
		return billingapimodels.PortalSessionView{}, apperrors.NotFound("no billing account for company")
	}
	url, err := i.stripe.CreatePortalSession(rec.StripeCustomerID, i.portalReturnURL)
	if err != nil {
		return billingapimodels.PortalSessionView{}, apperrors.Wrap(apperrors.KindUpstream, err, "portal session failed")
	}
	return billingapimodels.PortalSessionView{URL: url}, nil
}

func (i impl) ProcessWebhook(payload []byte, signature string) error {
	event, err := i.stripe.ConstructWebhookEvent(payload, signature)
	if err != nil {
		return apperrors.Wrap(apperrors.KindAuth, err, "webhook signature invalid")
	}
	logger := log.WithField("event_type", event.Type).WithField("event_id", event.ID)
	switch event.Type {
	case "checkout.session.completed":
		err = i.onCheckoutCompleted(event)
	case "customer.subscription.updated":
		err = i.onSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		err = i.onSubscriptionDeleted(event)
	case "invoice.paid":
		err = i.onInvoicePaid(event)
	case "invoice.payment_failed":
		err = i.onPaymentFailed(event)
	default:
		// unhandled types are acknowledged so the provider stops retrying
		logger.Debug("webhook event ignored")
		return nil
	}
	if err != nil {
		logger.WithError(err).Error("webhook event processing failed")
	}
	return err
}

func (i impl) onCheckoutCompleted(event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return errors.Wrap(err, "checkout session decode failed")
	}
	companyID := session.Metadata["company_id"]
	if companyID == "" {
		return errors.New("checkout session has no company_id metadata")
	}
	planID := session.Metadata["plan_id"]
	if planID == "" {
		planID = "default"
	}
	existing, err := i.store.GetByCompany(companyID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status.IsBillable() {
		// already enrolled, just link the provider ids
		return i.store.Update(existing.ID, map[string]interface{}{
			"StripeCustomerID":     customerID(session.Customer),
			"StripeSubscriptionID": subscriptionID(session.Subscription),
		})
	}
	rec := dbmodels.Subscription{
		BaseCompanyModel:     dbmodels.BaseCompanyModel{CompanyID: companyID},
		PlanID:               planID,
		Status:               models.SubscriptionStatusActive,
		StripeCustomerID:     customerID(session.Customer),
		StripeSubscriptionID: subscriptionID(session.Subscription),
	}
	// a checkout sold with a trial must land as trialing, or the
	// trial-ending sweep never sees it
	if sub := session.Subscription; sub != nil && sub.Status != "" {
		rec.Status = mapProviderStatus(sub.Status)
		if sub.TrialStart > 0 {
			t := time.Unix(sub.TrialStart, 0)
			rec.TrialStart = &t
		}
		if sub.TrialEnd > 0 {
			t := time.Unix(sub.TrialEnd, 0)
			rec.TrialEnd = &t
		}
	}
	_, err = i.store.Create(rec)
	return err
}

func (i impl) onSubscriptionUpdated(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return errors.Wrap(err, "subscription decode failed")
	}
	rec, err := i.store.GetByStripeSubscriptionID(sub.ID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	updMap := map[string]interface{}{
		"CancelAtPeriodEnd": sub.CancelAtPeriodEnd,
	}
	if start, end := periodBounds(&sub); start != nil {
		updMap["CurrentPeriodStart"] = start
		updMap["CurrentPeriodEnd"] = end
	}
	if sub.TrialEnd > 0 {
		updMap["TrialEnd"] = time.Unix(sub.TrialEnd, 0)
	}
	next := mapProviderStatus(sub.Status)
	if next != rec.Status && rec.Status.IsAllowedNext(next) {
		updated, err := i.store.UpdateStatusIf(rec.ID, rec.Status, next, updMap)
		if err != nil {
			return err
		}
		if !updated {
			log.WithField("subscription_id", rec.ID).Warn("subscription status changed concurrently, update skipped")
		}
		return nil
	}
	return i.store.Update(rec.ID, updMap)
}

func (i impl) onSubscriptionDeleted(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return errors.Wrap(err, "subscription decode failed")
	}
	rec, err := i.store.GetByStripeSubscriptionID(sub.ID)
	if err != nil {
		return err
	}
	if rec == nil || !rec.Status.IsAllowedNext(models.SubscriptionStatusCanceled) {
		return nil
	}
	_, err = i.store.UpdateStatusIf(rec.ID, rec.Status, models.SubscriptionStatusCanceled, nil)
	return err
}

func (i impl) onInvoicePaid(event stripe.Event) error {
	rec, err := i.subscriptionForInvoice(event)
	if err != nil || rec == nil {
		return err
	}
	if rec.Status != models.SubscriptionStatusPastDue {
		return nil
	}
	// a paid invoice clears the dunning state and re-arms the failure
	// notification
	_, err = i.store.UpdateStatusIf(rec.ID, models.SubscriptionStatusPastDue, models.SubscriptionStatusActive,
		map[string]interface{}{
			"PastDueSince":            nil,
			"PaymentFailedNotifiedAt": nil,
		})
	return err
}

func (i impl) onPaymentFailed(event stripe.Event) error {
	rec, err := i.subscriptionForInvoice(event)
	if err != nil || rec == nil {
		return err
	}
	if !rec.Status.IsAllowedNext(models.SubscriptionStatusPastDue) {
		return nil
	}
	updMap := map[string]interface{}{}
	if rec.PastDueSince == nil {
		updMap["PastDueSince"] = time.Now()
	}
	_, err = i.store.UpdateStatusIf(rec.ID, rec.Status, models.SubscriptionStatusPastDue, updMap)
	return err
}

// subscriptionForInvoice resolves our row by the invoice's customer, the one
// reference stable across provider API versions.
func (i impl) subscriptionForInvoice(event stripe.Event) (*dbmodels.Subscription, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return nil, errors.Wrap(err, "invoice decode failed")
	}
	if inv.Customer == nil || inv.Customer.ID == "" {
		return nil, nil
	}
	return i.store.GetByStripeCustomerID(inv.Customer.ID)
}

func mapProviderStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return models.SubscriptionStatusCanceled
	case stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusExpired
	default:
		return models.SubscriptionStatusActive
	}
}

// period bounds live on the subscription item since the basil API version
func periodBounds(sub *stripe.Subscription) (start, end *time.Time) {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return nil, nil
	}
	item := sub.Items.Data[0]
	if item.CurrentPeriodStart > 0 {
		t := time.Unix(item.CurrentPeriodStart, 0)
		start = &t
	}
	if item.CurrentPeriodEnd > 0 {
		t := time.Unix(item.CurrentPeriodEnd, 0)
		end = &t
	}
	return start, end
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionID(s *stripe.Subscription) string {
	if s == nil {
		return ""
	}
	return s.ID
}
