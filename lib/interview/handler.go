package interview

import (
	"context"
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	candidatestore "intavia-backend/lib/candidate/store"
	userstore "intavia-backend/lib/company/user-store"
	"intavia-backend/lib/integration"
	"intavia-backend/lib/integration/googlecalendar"
	interviewstore "intavia-backend/lib/interview/store"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	interviewapimodels "intavia-backend/models/api/interview"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type ScheduleResult struct {
	Interview interviewapimodels.InterviewView
	Warnings  []string
}

type Provider interface {
	Schedule(ctx context.Context, companyID string, req interviewapimodels.ScheduleRequest, organizerID string) (ScheduleResult, error)
	Confirm(companyID, interviewID string) (interviewapimodels.InterviewView, error)
	Complete(companyID, interviewID string) (interviewapimodels.InterviewView, error)
	Reschedule(ctx context.Context, companyID, interviewID string, req interviewapimodels.RescheduleRequest) (ScheduleResult, error)
	Cancel(ctx context.Context, companyID, interviewID string) (ScheduleResult, error)
	ListByCandidate(companyID, candidateID string) ([]interviewapimodels.InterviewView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:          interviewstore.NewInstance(db.DB),
		candidateStore: candidatestore.NewInstance(db.DB),
		userStore:      userstore.NewInstance(db.DB),
		tokens:         integration.Instance,
		calendar:       googlecalendar.Instance,
		dispatcher:     notification.Instance,
	}
}

type impl struct {
	store          interviewstore.Provider
	candidateStore candidatestore.Provider
	userStore      userstore.Provider
	tokens         integration.Provider
	calendar       googlecalendar.Provider
	dispatcher     notification.Provider
}

func (i impl) Schedule(ctx context.Context, companyID string, req interviewapimodels.ScheduleRequest, organizerID string) (ScheduleResult, error) {
	candidate, err := i.candidateStore.GetExtByID(companyID, req.CandidateID)
	if err != nil {
		return ScheduleResult{}, err
	}
	if candidate == nil {
		return ScheduleResult{}, apperrors.NotFound("candidate not found")
	}
	rec := dbmodels.Interview{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		CandidateID:      req.CandidateID,
		JobID:            candidate.JobID,
		Date:             req.Date,
		TimezoneID:       req.TimezoneID,
		DurationMin:      req.DurationMin,
		Status:           models.InterviewStatusScheduled,
		OrganizerID:      organizerID,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return ScheduleResult{}, err
	}
	rec.ID = id

	// interview row is committed; calendar sync below never fails the call
	var warnings []string
	token := i.tokens.GetValidAccessToken(ctx, companyID, organizerID)
	if token != nil {
		event, err := i.calendar.InsertEvent(ctx, token.AccessToken, i.eventRequest(rec, candidate))
		if err != nil {
			warnings = append(warnings, "calendar event not created")
			log.WithError(err).WithField("interview_id", id).Error("calendar event insert failed")
		} else {
			updMap := map[string]interface{}{
				"CalendarEventID": event.ID,
				"MeetLink":        event.MeetLink,
			}
			if err = i.store.Update(id, updMap); err != nil {
				warnings = append(warnings, "calendar link not saved")
				log.WithError(err).WithField("interview_id", id).Error("calendar linkage persist failed")
			} else {
				rec.CalendarEventID = event.ID
				rec.MeetLink = event.MeetLink
			}
		}
	}
	return ScheduleResult{Interview: interviewapimodels.InterviewConvert(rec), Warnings: warnings}, nil
}

func (i impl) Confirm(companyID, interviewID string) (interviewapimodels.InterviewView, error) {
	rec, err := i.getOpen(companyID, interviewID)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	updated, err := i.store.UpdateStatusIf(interviewID,
		[]models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusRescheduled},
		models.InterviewStatusConfirmed, nil)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	if !updated {
		return interviewapimodels.InterviewView{}, apperrors.Conflict("interview state changed concurrently")
	}
	rec.Status = models.InterviewStatusConfirmed
	return interviewapimodels.InterviewConvert(*rec), nil
}

func (i impl) Complete(companyID, interviewID string) (interviewapimodels.InterviewView, error) {
	rec, err := i.getOpen(companyID, interviewID)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	updated, err := i.store.UpdateStatusIf(interviewID,
		[]models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusConfirmed, models.InterviewStatusRescheduled},
		models.InterviewStatusCompleted, nil)
	if err != nil {
		return interviewapimodels.InterviewView{}, err
	}
	if !updated {
		return interviewapimodels.InterviewView{}, apperrors.Conflict("interview state changed concurrently")
	}
	rec.Status = models.InterviewStatusCompleted
	return interviewapimodels.InterviewConvert(*rec), nil
}

func (i impl) Reschedule(ctx context.Context, companyID, interviewID string, req interviewapimodels.RescheduleRequest) (ScheduleResult, error) {
	rec, err := i.getOpen(companyID, interviewID)
	if err != nil {
		return ScheduleResult{}, err
	}
	updMap := map[string]interface{}{
		"Date": req.Date,
		// a moved interview deserves a fresh reminder
		"ReminderSentAt": nil,
	}
	if req.TimezoneID != "" {
		updMap["TimezoneID"] = req.TimezoneID
	}
	if req.DurationMin > 0 {
		updMap["DurationMin"] = req.DurationMin
	}
	updated, err := i.store.UpdateStatusIf(interviewID,
		[]models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusConfirmed, models.InterviewStatusRescheduled},
		models.InterviewStatusRescheduled, updMap)
	if err != nil {
		return ScheduleResult{}, err
	}
	if !updated {
		return ScheduleResult{}, apperrors.Conflict("interview state changed concurrently")
	}
	rec.Status = models.InterviewStatusRescheduled
	rec.Date = req.Date
	rec.ReminderSentAt = nil
	if req.TimezoneID != "" {
		rec.TimezoneID = req.TimezoneID
	}
	if req.DurationMin > 0 {
		rec.DurationMin = req.DurationMin
	}

	var warnings []string
	if rec.CalendarEventID != "" {
		token := i.tokens.GetValidAccessToken(ctx, companyID, rec.OrganizerID)
		if token == nil {
			warnings = append(warnings, "calendar event not updated")
		} else {
			candidate, err := i.candidateStore.GetExtByID(companyID, rec.CandidateID)
			if err != nil || candidate == nil {
				warnings = append(warnings, "calendar event not updated")
			} else if _, err = i.calendar.PatchEvent(ctx, token.AccessToken, rec.CalendarEventID, i.eventRequest(*rec, candidate)); err != nil {
				warnings = append(warnings, "calendar event not updated")
				log.WithError(err).WithField("interview_id", interviewID).Error("calendar event patch failed")
			}
		}
	}
	return ScheduleResult{Interview: interviewapimodels.InterviewConvert(*rec), Warnings: warnings}, nil
}

func (i impl) Cancel(ctx context.Context, companyID, interviewID string) (ScheduleResult, error) {
	rec, err := i.getOpen(companyID, interviewID)
	if err != nil {
		return ScheduleResult{}, err
	}
	updated, err := i.store.UpdateStatusIf(interviewID,
		[]models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusConfirmed, models.InterviewStatusRescheduled},
		models.InterviewStatusCancelled, nil)
	if err != nil {
		return ScheduleResult{}, err
	}
	if !updated {
		return ScheduleResult{}, apperrors.Conflict("interview state changed concurrently")
	}
	rec.Status = models.InterviewStatusCancelled

	var warnings []string
	// interviews that never reached the calendar need no provider calls
	if rec.CalendarEventID != "" {
		token := i.tokens.GetValidAccessToken(ctx, companyID, rec.OrganizerID)
		if token == nil {
			warnings = append(warnings, "calendar event not removed")
		} else if err = i.calendar.DeleteEvent(ctx, token.AccessToken, rec.CalendarEventID); err != nil {
			warnings = append(warnings, "calendar event not removed")
			log.WithError(err).WithField("interview_id", interviewID).Error("calendar event delete failed")
		}
	}
	candidate, err := i.candidateStore.GetExtByID(companyID, rec.CandidateID)
	if err == nil && candidate != nil {
		result := i.dispatcher.Send(models.NotificationInterviewCancellation, candidate.Email, notification.TemplateData{
			CandidateName: candidate.FirstName + " " + candidate.LastName,
			JobTitle:      candidate.JobTitle,
			InterviewDate: rec.Date.Format(time.RFC1123),
		})
		if !result.Success {
			warnings = append(warnings, "cancellation email not sent")
		}
	}
	return ScheduleResult{Interview: interviewapimodels.InterviewConvert(*rec), Warnings: warnings}, nil
}

func (i impl) ListByCandidate(companyID, candidateID string) ([]interviewapimodels.InterviewView, error) {
	list, err := i.store.ListByCandidate(companyID, candidateID)
	if err != nil {
		return nil, err
	}
	result := make([]interviewapimodels.InterviewView, 0, len(list))
	for _, rec := range list {
		result = append(result, interviewapimodels.InterviewConvert(rec))
	}
	return result, nil
}

func (i impl) getOpen(companyID, interviewID string) (*dbmodels.Interview, error) {
	rec, err := i.store.GetByID(companyID, interviewID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFound("interview not found")
	}
	if rec.Status.IsFinal() {
		return nil, apperrors.Conflict("interview is already " + rec.Status.ToHuman())
	}
	return rec, nil
}

func (i impl) eventRequest(rec dbmodels.Interview, candidate *dbmodels.CandidateExt) googlecalendar.EventRequest {
	attendees := []string{candidate.Email}
	if organizer, err := i.userStore.GetByID(rec.CompanyID, rec.OrganizerID); err == nil && organizer != nil {
		attendees = append(attendees, organizer.Email)
	}
	return googlecalendar.EventRequest{
		Summary:     "Interview: " + candidate.FirstName + " " + candidate.LastName,
		Description: "Interview for " + candidate.JobTitle,
		Start:       rec.Date,
		End:         rec.Date.Add(time.Duration(rec.DurationMin) * time.Minute),
		TimezoneID:  rec.TimezoneID,
		Attendees:   attendees,
		WithMeet:    true,
	}
}
