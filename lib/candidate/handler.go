package candidate

import (
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	evaluationstore "intavia-backend/lib/candidate/evaluation-store"
	candidatestore "intavia-backend/lib/candidate/store"
	"intavia-backend/models"
	candidateapimodels "intavia-backend/models/api/candidate"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(companyID string, req candidateapimodels.CandidateCreateRequest) (candidateapimodels.CandidateView, error)
	GetByID(companyID, id string) (candidateapimodels.CandidateView, error)
	List(companyID string, filter candidateapimodels.CandidateFilter) ([]candidateapimodels.CandidateView, error)
	Transition(companyID, candidateID string, newStatus models.CandidateStatus, actorID string, actorRole models.UserRole) (candidateapimodels.CandidateView, error)
	BulkTransition(companyID string, candidateIDs []string, action models.BulkAction, actorID string, actorRole models.UserRole) error
	RequestEvaluation(companyID, candidateID string, force bool, actorID string) (candidateapimodels.EvaluationView, error)
	UpdateStepProgress(companyID, candidateID string, currentStep int) (candidateapimodels.CandidateView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:     candidatestore.NewInstance(db.DB),
		evalStore: evaluationstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     candidatestore.Provider
	evalStore evaluationstore.Provider
}

func (i impl) Create(companyID string, req candidateapimodels.CandidateCreateRequest) (candidateapimodels.CandidateView, error) {
	rec := dbmodels.Candidate{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		JobID:            req.JobID,
		Status:           models.CandidateStatusUnderReview,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		CurrentStep:      1,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	rec.ID = id
	return candidateapimodels.CandidateConvert(rec), nil
}

func (i impl) GetByID(companyID, id string) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetExtByID(companyID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, apperrors.NotFound("candidate not found")
	}
	return candidateapimodels.CandidateConvertExt(*rec), nil
}

func (i impl) List(companyID string, filter candidateapimodels.CandidateFilter) ([]candidateapimodels.CandidateView, error) {
	list, err := i.store.List(companyID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]candidateapimodels.CandidateView, 0, len(list))
	for _, rec := range list {
		result = append(result, candidateapimodels.CandidateConvertExt(rec))
	}
	return result, nil
}

// Transition moves a candidate to newStatus when the transition table allows
// it. The write is conditioned on the current status so concurrent requests
// cannot double-apply.
func (i impl) Transition(companyID, candidateID string, newStatus models.CandidateStatus, actorID string, actorRole models.UserRole) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetExtByID(companyID, candidateID)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, apperrors.NotFound("candidate not found")
	}
	if !actorRole.IsAdmin() && rec.JobAuthorID != actorID {
		return candidateapimodels.CandidateView{}, apperrors.Forbidden("candidate belongs to another user's job")
	}
	if !rec.Status.IsAllowedNext(newStatus) {
		return candidateapimodels.CandidateView{}, apperrors.Conflict(
			"transition from " + rec.Status.ToHuman() + " to " + newStatus.ToHuman() + " is not allowed")
	}
	updated, err := i.store.UpdateStatusIf(companyID, candidateID, rec.Status, newStatus)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if !updated {
		return candidateapimodels.CandidateView{}, apperrors.Conflict("candidate status changed concurrently")
	}
	log.
		WithField("company_id", companyID).
		WithField("candidate_id", candidateID).
		WithField("actor_id", actorID).
		Infof("candidate moved to %v", newStatus)
	rec.Status = newStatus
	return candidateapimodels.CandidateConvertExt(*rec), nil
}

// BulkTransition is all-or-nothing with respect to ownership: one foreign
// candidate rejects the whole batch before anything is written. The status
// change itself is a single batched update.
func (i impl) BulkTransition(companyID string, candidateIDs []string, action models.BulkAction, actorID string, actorRole models.UserRole) error {
	target, ok := action.TargetStatus()
	if !ok {
		return apperrors.Validation("unknown bulk action")
	}
	list, err := i.store.ListExtByIDs(companyID, candidateIDs)
	if err != nil {
		return err
	}
	if len(list) != len(candidateIDs) {
		return apperrors.NotFound("some candidates not found")
	}
	for _, rec := range list {
		if !actorRole.IsAdmin() && rec.JobAuthorID != actorID {
			return apperrors.Forbidden("candidate belongs to another user's job")
		}
	}
	return i.store.BulkUpdateStatus(companyID, candidateIDs, target)
}

// RequestEvaluation gates the external scoring job. force deletes the prior
// evaluation first; without force an existing row is a conflict.
func (i impl) RequestEvaluation(companyID, candidateID string, force bool, actorID string) (candidateapimodels.EvaluationView, error) {
	rec, err := i.store.GetByID(companyID, candidateID)
	if err != nil {
		return candidateapimodels.EvaluationView{}, err
	}
	if rec == nil {
		return candidateapimodels.EvaluationView{}, apperrors.NotFound("candidate not found")
	}
	if !rec.IsCompleted {
		return candidateapimodels.EvaluationView{}, apperrors.Validation("candidate has not completed the interview flow")
	}
	existing, err := i.evalStore.GetByCandidate(companyID, candidateID)
	if err != nil {
		return candidateapimodels.EvaluationView{}, err
	}
	evaluation := dbmodels.Evaluation{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		CandidateID:      candidateID,
		Status:           models.EvaluationStatusQueued,
		RequestedBy:      actorID,
	}
	if existing != nil {
		if !force {
			return candidateapimodels.EvaluationView{}, apperrors.Conflict("evaluation already exists")
		}
		// destructive by design, the prior result is not kept
		id, err := i.evalStore.Replace(evaluation)
		if err != nil {
			return candidateapimodels.EvaluationView{}, err
		}
		evaluation.ID = id
	} else {
		id, err := i.evalStore.Create(evaluation)
		if err != nil {
			return candidateapimodels.EvaluationView{}, err
		}
		evaluation.ID = id
	}
	log.
		WithField("company_id", companyID).
		WithField("candidate_id", candidateID).
		WithField("forced", force).
		Info("evaluation queued")
	return candidateapimodels.EvaluationConvert(evaluation), nil
}

func (i impl) UpdateStepProgress(companyID, candidateID string, currentStep int) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetByID(companyID, candidateID)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, apperrors.NotFound("candidate not found")
	}
	if currentStep < rec.CurrentStep {
		return candidateapimodels.CandidateView{}, apperrors.Validation("step progress cannot move backwards")
	}
	updMap := map[string]interface{}{
		"CurrentStep": currentStep,
	}
	if rec.TotalSteps > 0 && currentStep >= rec.TotalSteps {
		updMap["IsCompleted"] = true
		updMap["SubmittedAt"] = time.Now()
		rec.IsCompleted = true
	}
	updated, err := i.store.UpdateStepIf(companyID, candidateID, rec.CurrentStep, updMap)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if !updated {
		return candidateapimodels.CandidateView{}, apperrors.Conflict("candidate progress changed concurrently")
	}
	rec.CurrentStep = currentStep
	return candidateapimodels.CandidateConvert(*rec), nil
}
