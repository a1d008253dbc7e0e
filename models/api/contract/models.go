package contractapimodels

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type OfferView struct {
	ID              string                     `json:"id"`
	CandidateID     string                     `json:"candidate_id"`
	CandidateName   string                     `json:"candidate_name,omitempty"`
	ContractID      string                     `json:"contract_id"`
	ContractTitle   string                     `json:"contract_title,omitempty"`
	Status          models.ContractOfferStatus `json:"status"`
	StatusName      string                     `json:"status_name"`
	SalaryAmount    int64                      `json:"salary_amount"`
	SalaryCurrency  string                     `json:"salary_currency"`
	StartDate       *time.Time                 `json:"start_date,omitempty"`
	EndDate         *time.Time                 `json:"end_date,omitempty"`
	ExpiresAt       *time.Time                 `json:"expires_at,omitempty"`
	SentAt          *time.Time                 `json:"sent_at,omitempty"`
	SignedAt        *time.Time                 `json:"signed_at,omitempty"`
	RejectedAt      *time.Time                 `json:"rejected_at,omitempty"`
	RejectionReason string                     `json:"rejection_reason,omitempty"`
}

func OfferConvert(rec dbmodels.ContractOffer) OfferView {
	return OfferView{
		ID:              rec.ID,
		CandidateID:     rec.CandidateID,
		ContractID:      rec.ContractID,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		SalaryAmount:    rec.SalaryAmount,
		SalaryCurrency:  rec.SalaryCurrency,
		StartDate:       rec.StartDate,
		EndDate:         rec.EndDate,
		ExpiresAt:       rec.ExpiresAt,
		SentAt:          rec.SentAt,
		SignedAt:        rec.SignedAt,
		RejectedAt:      rec.RejectedAt,
		RejectionReason: rec.RejectionReason,
	}
}

func OfferConvertExt(rec dbmodels.ContractOfferExt) OfferView {
	view := OfferConvert(rec.ContractOffer)
	view.CandidateName = rec.CandidateFirstName + " " + rec.CandidateLastName
	view.ContractTitle = rec.ContractTitle
	return view
}

type SendOfferRequest struct {
	CandidateID    string     `json:"candidate_id"`
	ContractID     string     `json:"contract_id"`
	SalaryAmount   int64      `json:"salary_amount"`
	SalaryCurrency string     `json:"salary_currency"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	ExpiresInDays  int        `json:"expires_in_days"`
}

func (r SendOfferRequest) Validate() error {
	if r.CandidateID == "" {
		return errors.New("candidate not specified")
	}
	if r.ContractID == "" {
		return errors.New("contract not specified")
	}
	if r.SalaryAmount <= 0 {
		return errors.New("salary amount is required")
	}
	if r.SalaryCurrency == "" {
		return errors.New("salary currency is required")
	}
	return nil
}

type SignRequest struct {
	SignedDocument []byte `json:"signed_document"`
	FileName       string `json:"file_name"`
}

func (r SignRequest) Validate() error {
	if len(r.SignedDocument) == 0 {
		return errors.New("signed document is required")
	}
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type SignedDocumentView struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
