package subscriptionstore

import (
	"time"

	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Subscription) (id string, err error)
	GetByCompany(companyID string) (*dbmodels.Subscription, error)
	GetByStripeSubscriptionID(stripeID string) (*dbmodels.Subscription, error)
	GetByStripeCustomerID(customerID string) (*dbmodels.Subscription, error)
	Update(id string, updMap map[string]interface{}) error
	UpdateStatusIf(id string, current, next models.SubscriptionStatus, updMap map[string]interface{}) (updated bool, err error)
	ListTrialEnding(before time.Time) ([]dbmodels.SubscriptionExt, error)
	ListPaymentFailed() ([]dbmodels.SubscriptionExt, error)
	ListExpiring(before time.Time) ([]dbmodels.SubscriptionExt, error)
	ListPastDueOlderThan(since time.Time) ([]dbmodels.Subscription, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// admin join used by the monitor lists; the oldest admin of the company is
// the billing contact
const extSelect = "subscriptions.*, " +
	"companies.name as company_name, " +
	"company_users.id as admin_user_id, " +
	"company_users.email as admin_email, " +
	"company_users.first_name || ' ' || company_users.last_name as admin_name"

const adminJoin = "left join company_users on company_users.id = (" +
	"select cu.id from company_users cu " +
	"where cu.company_id = subscriptions.company_id and cu.role = 'COMPANY_ADMIN' " +
	"order by cu.created_at limit 1)"

const companyJoin = "left join companies on companies.id = subscriptions.company_id"

func (i impl) Create(rec dbmodels.Subscription) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByCompany(companyID string) (*dbmodels.Subscription, error) {
	rec := dbmodels.Subscription{}
	err := i.db.
		Where("company_id = ?", companyID).
		Order("created_at desc").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByStripeSubscriptionID(stripeID string) (*dbmodels.Subscription, error) {
	rec := dbmodels.Subscription{}
	err := i.db.
		Where("stripe_subscription_id = ?", stripeID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByStripeCustomerID(customerID string) (*dbmodels.Subscription, error) {
	rec := dbmodels.Subscription{}
	err := i.db.
		Where("stripe_customer_id = ?", customerID).
		Order("created_at desc").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Subscription{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) UpdateStatusIf(id string, current, next models.SubscriptionStatus, updMap map[string]interface{}) (updated bool, err error) {
	if updMap == nil {
		updMap = map[string]interface{}{}
	}
	updMap["Status"] = next
	result := i.db.
		Model(&dbmodels.Subscription{}).
		Where("id = ?", id).
		Where("status = ?", current).
		Updates(updMap)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (i impl) ListTrialEnding(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	list := make([]dbmodels.SubscriptionExt, 0)
	err := i.db.
		Model(&dbmodels.Subscription{}).
		Select(extSelect).
		Joins(companyJoin).
		Joins(adminJoin).
		Where("subscriptions.status = ?", models.SubscriptionStatusTrialing).
		Where("subscriptions.trial_end IS NOT NULL").
		Where("subscriptions.trial_end <= ?", before).
		Where("subscriptions.trial_notified_at IS NULL").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPaymentFailed() ([]dbmodels.SubscriptionExt, error) {
	list := make([]dbmodels.SubscriptionExt, 0)
	err := i.db.
		Model(&dbmodels.Subscription{}).
		Select(extSelect).
		Joins(companyJoin).
		Joins(adminJoin).
		Where("subscriptions.status = ?", models.SubscriptionStatusPastDue).
		Where("subscriptions.payment_failed_notified_at IS NULL").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListExpiring(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	list := make([]dbmodels.SubscriptionExt, 0)
	err := i.db.
		Model(&dbmodels.Subscription{}).
		Select(extSelect).
		Joins(companyJoin).
		Joins(adminJoin).
		Where("subscriptions.status = ?", models.SubscriptionStatusActive).
		Where("subscriptions.cancel_at_period_end = true").
		Where("subscriptions.current_period_end IS NOT NULL").
		Where("subscriptions.current_period_end <= ?", before).
		Where("subscriptions.expiry_notified_at IS NULL").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPastDueOlderThan(since time.Time) ([]dbmodels.Subscription, error) {
	list := make([]dbmodels.Subscription, 0)
	err := i.db.
		Where("status = ?", models.SubscriptionStatusPastDue).
		Where("past_due_since IS NOT NULL").
		Where("past_due_since <= ?", since).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
