package contractofferstore

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ContractOffer) (id string, err error)
	GetByID(companyID, id string) (*dbmodels.ContractOffer, error)
	GetBySigningToken(id, token string) (*dbmodels.ContractOffer, error)
	ListByCandidate(companyID, candidateID string) ([]dbmodels.ContractOfferExt, error)
	// UpdateStatusIf applies updMap only while the row still carries the
	// expected current status.
	UpdateStatusIf(id string, current, next models.ContractOfferStatus, updMap map[string]interface{}) (updated bool, err error)
	ListOverdue(now time.Time) ([]dbmodels.ContractOffer, error)
	GetContract(companyID, id string) (*dbmodels.Contract, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ContractOffer) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.ContractOffer, error) {
	rec := dbmodels.ContractOffer{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
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

// GetBySigningToken serves the unauthenticated signer routes; both the id
// and the per-offer secret must match.
func (i impl) GetBySigningToken(id, token string) (*dbmodels.ContractOffer, error) {
	rec := dbmodels.ContractOffer{}
	err := i.db.
		Where("id = ?", id).
		Where("signing_token = ?", token).
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

func (i impl) ListByCandidate(companyID, candidateID string) ([]dbmodels.ContractOfferExt, error) {
	var result []dbmodels.ContractOfferExt
	err := i.db.
		Model(&dbmodels.ContractOffer{}).
		Select(`contract_offers.*,
			candidates.first_name as candidate_first_name,
			candidates.last_name as candidate_last_name,
			candidates.email as candidate_email,
			contracts.title as contract_title`).
		Joins("left join candidates on candidates.id = contract_offers.candidate_id").
		Joins("left join contracts on contracts.id = contract_offers.contract_id").
		Where("contract_offers.company_id = ?", companyID).
		Where("contract_offers.candidate_id = ?", candidateID).
		Order("contract_offers.created_at desc").
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "contract offer list query failed")
	}
	return result, nil
}

func (i impl) UpdateStatusIf(id string, current, next models.ContractOfferStatus, updMap map[string]interface{}) (updated bool, err error) {
	if updMap == nil {
		updMap = map[string]interface{}{}
	}
	updMap["Status"] = next
	tx := i.db.
		Model(&dbmodels.ContractOffer{}).
		Where("id = ?", id).
		Where("status = ?", current).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListOverdue(now time.Time) ([]dbmodels.ContractOffer, error) {
	var result []dbmodels.ContractOffer
	err := i.db.
		Where("status = ?", models.ContractOfferStatusSent).
		Where("expires_at is not null and expires_at < ?", now).
		Find(&result).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "overdue offer query failed")
	}
	return result, nil
}

func (i impl) GetContract(companyID, id string) (*dbmodels.Contract, error) {
	rec := dbmodels.Contract{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
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
