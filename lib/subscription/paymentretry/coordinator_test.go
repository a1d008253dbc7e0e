package paymentretry

import (
	"testing"
	"time"

	"intavia-backend/lib/apperrors"
	"intavia-backend/lib/subscription/stripeclient"
	"intavia-backend/models"
	billingapimodels "intavia-backend/models/api/billing"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

type fakeSubscriptionStore struct {
	rec           *dbmodels.Subscription
	statusUpdated bool
	statusIfCalls int
	lastNext      models.SubscriptionStatus
	lastUpdMap    map[string]interface{}
}

func (f *fakeSubscriptionStore) Create(rec dbmodels.Subscription) (string, error) {
	return "", nil
}

func (f *fakeSubscriptionStore) GetByCompany(companyID string) (*dbmodels.Subscription, error) {
	return f.rec, nil
}

func (f *fakeSubscriptionStore) GetByStripeSubscriptionID(stripeID string) (*dbmodels.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) GetByStripeCustomerID(customerID string) (*dbmodels.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeSubscriptionStore) UpdateStatusIf(id string, current, next models.SubscriptionStatus, updMap map[string]interface{}) (bool, error) {
	f.statusIfCalls++
	f.lastNext = next
	f.lastUpdMap = updMap
	return f.statusUpdated, nil
}

func (f *fakeSubscriptionStore) ListTrialEnding(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) ListPaymentFailed() ([]dbmodels.SubscriptionExt, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) ListExpiring(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) ListPastDueOlderThan(since time.Time) ([]dbmodels.Subscription, error) {
	return nil, nil
}

type fakeStripe struct {
	attachErr     error
	setDefaultErr error
	invoices      []stripeclient.Invoice
	failInvoices  map[string]error
	attachCalls   int
	payCalls      []string
}

func (f *fakeStripe) AttachPaymentMethod(customerID, paymentMethodID string) error {
	f.attachCalls++
	return f.attachErr
}

func (f *fakeStripe) SetDefaultPaymentMethod(customerID, subscriptionID, paymentMethodID string) error {
	return f.setDefaultErr
}

func (f *fakeStripe) ListOpenInvoices(customerID string, limit int64) ([]stripeclient.Invoice, error) {
	return f.invoices, nil
}

func (f *fakeStripe) PayInvoice(invoiceID string) (*stripeclient.Invoice, error) {
	f.payCalls = append(f.payCalls, invoiceID)
	if err, ok := f.failInvoices[invoiceID]; ok {
		return nil, err
	}
	return &stripeclient.Invoice{ID: invoiceID, Status: "paid"}, nil
}

func (f *fakeStripe) CreatePortalSession(customerID, returnURL string) (string, error) {
	return "", nil
}

func (f *fakeStripe) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func pastDueSubscription() *dbmodels.Subscription {
	since := time.Now().Add(-48 * time.Hour)
	rec := &dbmodels.Subscription{
		PlanID:               "team",
		Status:               models.SubscriptionStatusPastDue,
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		PastDueSince:         &since,
	}
	rec.ID = "subscription-1"
	rec.CompanyID = "c1"
	return rec
}

func TestRetry(t *testing.T) {
	req := billingapimodels.RetryPaymentRequest{PaymentMethodID: "pm_1"}

	t.Run("missing payment method never reaches the provider", func(t *testing.T) {
		client := &fakeStripe{}
		h := impl{store: &fakeSubscriptionStore{rec: pastDueSubscription()}, stripe: client}

		_, err := h.Retry("c1", billingapimodels.RetryPaymentRequest{})
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Equal(t, 0, client.attachCalls)
	})

	t.Run("company without billing account is not found", func(t *testing.T) {
		h := impl{store: &fakeSubscriptionStore{}, stripe: &fakeStripe{}}

		_, err := h.Retry("c1", req)
		require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("attach failure aborts before any invoice", func(t *testing.T) {
		client := &fakeStripe{attachErr: errors.New("card declined")}
		h := impl{store: &fakeSubscriptionStore{rec: pastDueSubscription()}, stripe: client}

		_, err := h.Retry("c1", req)
		require.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
		require.Empty(t, client.payCalls)
	})

	t.Run("one failing invoice does not stop the rest", func(t *testing.T) {
		client := &fakeStripe{
			invoices: []stripeclient.Invoice{
				{ID: "in_1", Status: "open"},
				{ID: "in_2", Status: "open"},
				{ID: "in_3", Status: "open"},
			},
			failInvoices: map[string]error{"in_2": errors.New("insufficient funds")},
		}
		store := &fakeSubscriptionStore{rec: pastDueSubscription()}
		h := impl{store: store, stripe: client}

		outcome, err := h.Retry("c1", req)
		require.Nil(t, err)
		require.Equal(t, []string{"in_1", "in_2", "in_3"}, client.payCalls)
		require.Len(t, outcome.RetryResults, 3)
		require.True(t, outcome.RetryResults[0].Success)
		require.False(t, outcome.RetryResults[1].Success)
		require.Equal(t, "insufficient funds", outcome.RetryResults[1].Error)
		require.True(t, outcome.RetryResults[2].Success)
		// not all invoices settled, the subscription stays past due
		require.Equal(t, 0, store.statusIfCalls)
		require.Equal(t, string(models.SubscriptionStatusPastDue), outcome.SubscriptionStatus)
	})

	t.Run("paying everything off reactivates a past due subscription", func(t *testing.T) {
		client := &fakeStripe{
			invoices: []stripeclient.Invoice{{ID: "in_1", Status: "open"}},
		}
		store := &fakeSubscriptionStore{rec: pastDueSubscription(), statusUpdated: true}
		h := impl{store: store, stripe: client}

		outcome, err := h.Retry("c1", req)
		require.Nil(t, err)
		require.Equal(t, 1, store.statusIfCalls)
		require.Equal(t, models.SubscriptionStatusActive, store.lastNext)
		require.Contains(t, store.lastUpdMap, "PastDueSince")
		require.Nil(t, store.lastUpdMap["PastDueSince"])
		require.Equal(t, string(models.SubscriptionStatusActive), outcome.SubscriptionStatus)
	})

	t.Run("an active subscription with no open invoices is left alone", func(t *testing.T) {
		rec := pastDueSubscription()
		rec.Status = models.SubscriptionStatusActive
		store := &fakeSubscriptionStore{rec: rec}
		h := impl{store: store, stripe: &fakeStripe{}}

		outcome, err := h.Retry("c1", req)
		require.Nil(t, err)
		require.Equal(t, 0, store.statusIfCalls)
		require.Empty(t, outcome.RetryResults)
		require.Equal(t, string(models.SubscriptionStatusActive), outcome.SubscriptionStatus)
	})
}
