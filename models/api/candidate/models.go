package candidateapimodels

import (
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type CandidateView struct {
	ID            string                 `json:"id"`
	JobID         string                 `json:"job_id"`
	JobTitle      string                 `json:"job_title,omitempty"`
	Status        models.CandidateStatus `json:"status"`
	StatusName    string                 `json:"status_name"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone,omitempty"`
	IsCompleted   bool                   `json:"is_completed"`
	CurrentStep   int                    `json:"current_step"`
	TotalSteps    int                    `json:"total_steps"`
	SubmittedAt   *time.Time             `json:"submitted_at,omitempty"`
	HasEvaluation bool                   `json:"has_evaluation"`
}

func CandidateConvert(rec dbmodels.Candidate) CandidateView {
	return CandidateView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		IsCompleted: rec.IsCompleted,
		CurrentStep: rec.CurrentStep,
		TotalSteps:  rec.TotalSteps,
		SubmittedAt: rec.SubmittedAt,
	}
}

func CandidateConvertExt(rec dbmodels.CandidateExt) CandidateView {
	view := CandidateConvert(rec.Candidate)
	view.JobTitle = rec.JobTitle
	view.HasEvaluation = rec.HasEvaluation
	return view
}

type CandidateFilter struct {
	JobID  string                 `json:"job_id"`
	Status models.CandidateStatus `json:"status,omitempty"`
	Search string                 `json:"search,omitempty"`
}

func (f CandidateFilter) Validate() error {
	if f.JobID == "" {
		return errors.New("job not specified")
	}
	return nil
}

type CandidateCreateRequest struct {
	JobID     string `json:"job_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (r CandidateCreateRequest) Validate() error {
	if r.JobID == "" {
		return errors.New("job not specified")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

type TransitionRequest struct {
	Status models.CandidateStatus `json:"status"`
}

func (r TransitionRequest) Validate() error {
	if !r.Status.IsKnown() {
		return errors.New("unknown status")
	}
	return nil
}

type BulkTransitionRequest struct {
	CandidateIDs []string          `json:"candidate_ids"`
	Action       models.BulkAction `json:"action"`
}

func (r BulkTransitionRequest) Validate() error {
	if len(r.CandidateIDs) == 0 {
		return errors.New("no candidates specified")
	}
	if _, ok := r.Action.TargetStatus(); !ok {
		return errors.New("unknown bulk action")
	}
	return nil
}

type EvaluationRequest struct {
	Force bool `json:"force"`
}

type EvaluationView struct {
	ID          string                  `json:"id"`
	CandidateID string                  `json:"candidate_id"`
	Status      models.EvaluationStatus `json:"status"`
	Score       float64                 `json:"score,omitempty"`
	Summary     string                  `json:"summary,omitempty"`
	Feedback    string                  `json:"feedback,omitempty"`
}

func EvaluationConvert(rec dbmodels.Evaluation) EvaluationView {
	return EvaluationView{
		ID:          rec.ID,
		CandidateID: rec.CandidateID,
		Status:      rec.Status,
		Score:       rec.Score,
		Summary:     rec.Summary,
		Feedback:    rec.Feedback,
	}
}

type StepProgressRequest struct {
	CurrentStep int `json:"current_step"`
}

func (r StepProgressRequest) Validate() error {
	if r.CurrentStep <= 0 {
		return errors.New("step must be positive")
	}
	return nil
}
