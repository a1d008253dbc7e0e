package dbmodels

import (
	"intavia-backend/models"
	"time"

	"github.com/pkg/errors"
)

// Subscription is a company's billing plan enrollment. Rows are never hard
// deleted, the lifecycle lives entirely in Status.
type Subscription struct {
	BaseCompanyModel
	PlanID               string                    `gorm:"type:varchar(100)"`
	Status               models.SubscriptionStatus `gorm:"index;type:varchar(50)"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	CancelAtPeriodEnd    bool
	StripeCustomerID     string `gorm:"index;type:varchar(255)"`
	StripeSubscriptionID string `gorm:"index;type:varchar(255)"`
	// monitor de-duplication cursors, one per check
	TrialNotifiedAt         *time.Time
	PaymentFailedNotifiedAt *time.Time
	ExpiryNotifiedAt        *time.Time
	// when the payment first failed, drives past-due escalation
	PastDueSince *time.Time
}

func (s Subscription) Validate() error {
	if err := s.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if s.Status == "" {
		return errors.New("status is missing")
	}
	if s.PlanID == "" {
		return errors.New("plan not specified")
	}
	return nil
}

// SubscriptionExt joins in the admin user the monitor notifies.
type SubscriptionExt struct {
	Subscription
	CompanyName string
	AdminUserID string
	AdminEmail  string
	AdminName   string
}
