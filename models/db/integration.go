package dbmodels

import (
	"time"

	"github.com/pkg/errors"
)

const IntegrationProviderGoogle = "google"

// Integration is a stored OAuth credential set for a third-party provider.
// At most one row per (user, provider).
type Integration struct {
	BaseCompanyModel
	UserID       string `gorm:"index:idx_user_provider,unique;type:varchar(36)"`
	Provider     string `gorm:"index:idx_user_provider,unique;type:varchar(50)"`
	AccessToken  string `gorm:"type:varchar(2048)"`
	RefreshToken string `gorm:"type:varchar(2048)"`
	ExpiresAt    *time.Time
	Scope        string `gorm:"type:varchar(512)"`
	Metadata     string
}

func (i Integration) Validate() error {
	if err := i.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if i.UserID == "" {
		return errors.New("user not specified")
	}
	if i.Provider == "" {
		return errors.New("provider not specified")
	}
	if i.AccessToken == "" {
		return errors.New("access token is missing")
	}
	return nil
}

// IsExpired is true when the token needs a refresh before use.
// A missing expiry is treated as still valid, matching the provider contract.
func (i Integration) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
