package jobapimodels

import (
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
)

type JobView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Location    string             `json:"location,omitempty"`
	Status      dbmodels.JobStatus `json:"status"`
	AuthorID    string             `json:"author_id"`
	TotalSteps  int                `json:"total_steps"`
}

func JobConvert(rec dbmodels.Job) JobView {
	return JobView{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Location:    rec.Location,
		Status:      rec.Status,
		AuthorID:    rec.AuthorID,
		TotalSteps:  rec.TotalSteps,
	}
}

type CreateJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	TotalSteps  int    `json:"total_steps"`
}

func (r CreateJobRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.TotalSteps < 0 {
		return errors.New("total steps must not be negative")
	}
	return nil
}

type GrantPermissionRequest struct {
	UserID string   `json:"user_id"`
	Scopes []string `json:"scopes"`
}

func (r GrantPermissionRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user not specified")
	}
	return nil
}

type PermissionView struct {
	ID        string   `json:"id"`
	JobID     string   `json:"job_id"`
	UserID    string   `json:"user_id"`
	GrantedBy string   `json:"granted_by"`
	Scopes    []string `json:"scopes"`
}

func PermissionConvert(rec dbmodels.JobPermission) PermissionView {
	return PermissionView{
		ID:        rec.ID,
		JobID:     rec.JobID,
		UserID:    rec.UserID,
		GrantedBy: rec.GrantedBy,
		Scopes:    rec.Scopes,
	}
}
