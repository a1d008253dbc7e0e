package interviewstore

import (
	"time"

	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Interview) (id string, err error)
	GetByID(companyID, id string) (*dbmodels.Interview, error)
	ListByCandidate(companyID, candidateID string) ([]dbmodels.Interview, error)
	Update(id string, updMap map[string]interface{}) error
	UpdateStatusIf(id string, currents []models.InterviewStatus, next models.InterviewStatus, updMap map[string]interface{}) (updated bool, err error)
	ListDueForReminder(from, to time.Time) ([]dbmodels.InterviewExt, error)
	MarkReminderSent(id string, at time.Time) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "interviews.*, " +
	"candidates.first_name || ' ' || candidates.last_name as candidate_name, " +
	"candidates.email as candidate_email, " +
	"jobs.title as job_title, " +
	"company_users.email as organizer_email, " +
	"company_users.first_name || ' ' || company_users.last_name as organizer_name"

func (i impl) Create(rec dbmodels.Interview) (id string, err error) {
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

func (i impl) GetByID(companyID, id string) (*dbmodels.Interview, error) {
	rec := dbmodels.Interview{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("id = ?", id).
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

func (i impl) ListByCandidate(companyID, candidateID string) ([]dbmodels.Interview, error) {
	list := make([]dbmodels.Interview, 0)
	err := i.db.
		Where("company_id = ?", companyID).
		Where("candidate_id = ?", candidateID).
		Order("date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

// UpdateStatusIf writes the transition only while the row is still in one of
// the expected statuses, so concurrent updates lose cleanly.
func (i impl) UpdateStatusIf(id string, currents []models.InterviewStatus, next models.InterviewStatus, updMap map[string]interface{}) (updated bool, err error) {
	if updMap == nil {
		updMap = map[string]interface{}{}
	}
	updMap["Status"] = next
	result := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		Where("status IN ?", currents).
		Updates(updMap)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (i impl) ListDueForReminder(from, to time.Time) ([]dbmodels.InterviewExt, error) {
	list := make([]dbmodels.InterviewExt, 0)
	err := i.db.
		Model(&dbmodels.Interview{}).
		Select(extSelect).
		Joins("left join candidates on candidates.id = interviews.candidate_id").
		Joins("left join jobs on jobs.id = interviews.job_id").
		Joins("left join company_users on company_users.id = interviews.organizer_id").
		Where("interviews.status IN ?", []models.InterviewStatus{
			models.InterviewStatusScheduled,
			models.InterviewStatusConfirmed,
			models.InterviewStatusRescheduled,
		}).
		Where("interviews.reminder_sent_at IS NULL").
		Where("interviews.date > ?", from).
		Where("interviews.date <= ?", to).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// MarkReminderSent claims the reminder; the IS NULL guard keeps it to at
// most one send per interview even with overlapping workers.
func (i impl) MarkReminderSent(id string, at time.Time) (updated bool, err error) {
	result := i.db.
		Model(&dbmodels.Interview{}).
		Where("id = ?", id).
		Where("reminder_sent_at IS NULL").
		Update("ReminderSentAt", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
