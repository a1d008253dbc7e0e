package stripeclient

import (
	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/invoice"
	"github.com/stripe/stripe-go/v82/paymentmethod"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Invoice is the slice of a provider invoice the retry flow reports on.
type Invoice struct {
	ID     string
	Status string
}

type Provider interface {
	AttachPaymentMethod(customerID, paymentMethodID string) error
	SetDefaultPaymentMethod(customerID, subscriptionID, paymentMethodID string) error
	ListOpenInvoices(customerID string, limit int64) ([]Invoice, error)
	PayInvoice(invoiceID string) (*Invoice, error)
	CreatePortalSession(customerID, returnURL string) (url string, err error)
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}

var Instance Provider

func NewClient(secretKey, webhookSecret string) {
	stripe.Key = secretKey
	Instance = &impl{
		webhookSecret: webhookSecret,
	}
}

type impl struct {
	webhookSecret string
}

func (i impl) AttachPaymentMethod(customerID, paymentMethodID string) error {
	_, err := paymentmethod.Attach(paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
	return err
}

// SetDefaultPaymentMethod points both the customer and the subscription at
// the new method so future invoices use it.
func (i impl) SetDefaultPaymentMethod(customerID, subscriptionID, paymentMethodID string) error {
	_, err := customer.Update(customerID, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	})
	if err != nil {
		return err
	}
	if subscriptionID != "" {
		_, err = subscription.Update(subscriptionID, &stripe.SubscriptionParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		})
	}
	return err
}

func (i impl) ListOpenInvoices(customerID string, limit int64) ([]Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.InvoiceStatusOpen)),
	}
	params.Limit = stripe.Int64(limit)
	list := make([]Invoice, 0)
	iter := invoice.List(params)
	for iter.Next() {
		rec := iter.Invoice()
		list = append(list, Invoice{ID: rec.ID, Status: string(rec.Status)})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) PayInvoice(invoiceID string) (*Invoice, error) {
	paid, err := invoice.Pay(invoiceID, &stripe.InvoicePayParams{})
	if err != nil {
		return nil, err
	}
	return &Invoice{ID: paid.ID, Status: string(paid.Status)}, nil
}

func (i impl) CreatePortalSession(customerID, returnURL string) (url string, err error) {
	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (i impl) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, i.webhookSecret)
}
