package dbmodels

import (
	"intavia-backend/models"
	"time"

	"github.com/pkg/errors"
)

// Contract is the template a ContractOffer is generated from.
type Contract struct {
	BaseCompanyModel
	Title    string `gorm:"type:varchar(255)"`
	Body     string
	Position string `gorm:"type:varchar(255)"`
}

func (c Contract) Validate() error {
	if err := c.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if c.Title == "" {
		return errors.New("contract title is required")
	}
	return nil
}

type ContractOffer struct {
	BaseCompanyModel
	CandidateID     string                     `gorm:"index;type:varchar(36)"`
	Candidate       *Candidate                 `gorm:"foreignKey:CandidateID"`
	ContractID      string                     `gorm:"type:varchar(36)"`
	Status          models.ContractOfferStatus `gorm:"index;type:varchar(50)"`
	SalaryAmount    int64
	SalaryCurrency  string `gorm:"type:varchar(10)"`
	StartDate       *time.Time
	EndDate         *time.Time
	ExpiresAt       *time.Time
	SentAt          *time.Time
	SignedAt        *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	// opaque secret letting the unauthenticated signer view/sign/reject
	SigningToken string `gorm:"index;type:varchar(64)"`
	// explicit object-store path of the signed copy; LegacySignedURL remains
	// only for rows imported before the column existed
	StoragePath     string `gorm:"type:varchar(512)"`
	LegacySignedURL string `gorm:"type:varchar(1024)"`
	// set when an operator cancelled the offer, empty for time-based expiry
	CancelledBy string `gorm:"type:varchar(36)"`
}

func (o ContractOffer) Validate() error {
	if err := o.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if o.CandidateID == "" {
		return errors.New("candidate not specified")
	}
	if o.ContractID == "" {
		return errors.New("contract not specified")
	}
	if o.Status == "" {
		return errors.New("status is missing")
	}
	if o.SalaryAmount <= 0 {
		return errors.New("salary amount is required")
	}
	return nil
}

// ContractOfferExt joins in candidate identity for list views.
type ContractOfferExt struct {
	ContractOffer
	CandidateFirstName string
	CandidateLastName  string
	CandidateEmail     string
	ContractTitle      string
}
