package dbmodels

import "time"

// OtpCode is a one-time email verification code issued at signup.
type OtpCode struct {
	BaseModel
	Email       string `gorm:"index;type:varchar(255)"`
	Code        string `gorm:"type:varchar(16)"`
	DateExpires time.Time
	UsedAt      *time.Time
}
