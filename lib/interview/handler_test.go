package interview

import (
	"context"
	"testing"
	"time"

	"intavia-backend/lib/apperrors"
	"intavia-backend/lib/integration"
	"intavia-backend/lib/integration/googlecalendar"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	candidateapimodels "intavia-backend/models/api/candidate"
	interviewapimodels "intavia-backend/models/api/interview"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeInterviewStore struct {
	recs          map[string]*dbmodels.Interview
	statusUpdated bool
	statusIfCalls int
	lastUpdMap    map[string]interface{}
	lastCurrents  []models.InterviewStatus
	lastNext      models.InterviewStatus
	updates       []map[string]interface{}
}

func (f *fakeInterviewStore) Create(rec dbmodels.Interview) (string, error) {
	return "int-new", nil
}

func (f *fakeInterviewStore) GetByID(companyID, id string) (*dbmodels.Interview, error) {
	rec, ok := f.recs[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeInterviewStore) ListByCandidate(companyID, candidateID string) ([]dbmodels.Interview, error) {
	return nil, nil
}

func (f *fakeInterviewStore) Update(id string, updMap map[string]interface{}) error {
	f.updates = append(f.updates, updMap)
	return nil
}

func (f *fakeInterviewStore) UpdateStatusIf(id string, currents []models.InterviewStatus, next models.InterviewStatus, updMap map[string]interface{}) (bool, error) {
	f.statusIfCalls++
	f.lastCurrents = currents
	f.lastNext = next
	f.lastUpdMap = updMap
	return f.statusUpdated, nil
}

func (f *fakeInterviewStore) ListDueForReminder(from, to time.Time) ([]dbmodels.InterviewExt, error) {
	return nil, nil
}

func (f *fakeInterviewStore) MarkReminderSent(id string, at time.Time) (bool, error) {
	return true, nil
}

type stubCandidates struct {
	ext *dbmodels.CandidateExt
}

func (s *stubCandidates) Create(rec dbmodels.Candidate) (string, error) { return "", nil }
func (s *stubCandidates) GetByID(companyID, id string) (*dbmodels.Candidate, error) {
	return nil, nil
}
func (s *stubCandidates) GetExtByID(companyID, id string) (*dbmodels.CandidateExt, error) {
	return s.ext, nil
}
func (s *stubCandidates) List(companyID string, filter candidateapimodels.CandidateFilter) ([]dbmodels.CandidateExt, error) {
	return nil, nil
}
func (s *stubCandidates) ListExtByIDs(companyID string, ids []string) ([]dbmodels.CandidateExt, error) {
	return nil, nil
}
func (s *stubCandidates) Update(companyID, id string, updMap map[string]interface{}) error {
	return nil
}
func (s *stubCandidates) UpdateStatusIf(companyID, id string, current, next models.CandidateStatus) (bool, error) {
	return false, nil
}
func (s *stubCandidates) UpdateStepIf(companyID, id string, fromStep int, updMap map[string]interface{}) (bool, error) {
	return false, nil
}
func (s *stubCandidates) BulkUpdateStatus(companyID string, ids []string, status models.CandidateStatus) error {
	return nil
}

type stubUsers struct {
	organizer *dbmodels.CompanyUser
}

func (s *stubUsers) Create(rec dbmodels.CompanyUser) (string, error) { return "", nil }
func (s *stubUsers) GetByID(companyID, id string) (*dbmodels.CompanyUser, error) {
	return s.organizer, nil
}
func (s *stubUsers) GetByEmail(email string) (*dbmodels.CompanyUser, error) { return nil, nil }
func (s *stubUsers) ListByCompany(companyID string) ([]dbmodels.CompanyUser, error) {
	return nil, nil
}
func (s *stubUsers) GetAdmin(companyID string) (*dbmodels.CompanyUser, error) { return nil, nil }
func (s *stubUsers) Update(id string, updMap map[string]interface{}) error    { return nil }

type fakeTokens struct {
	token *integration.Token
	calls int
}

func (f *fakeTokens) GetValidAccessToken(ctx context.Context, companyID, userID string) *integration.Token {
	f.calls++
	return f.token
}
func (f *fakeTokens) Connect(ctx context.Context, companyID, userID, code string) error { return nil }
func (f *fakeTokens) Disconnect(companyID, userID string) error                         { return nil }
func (f *fakeTokens) Get(companyID, userID string) (*dbmodels.Integration, error) {
	return nil, nil
}

type fakeCalendar struct {
	insertCalls int
	patchCalls  int
	deleteCalls int
	insertErr   error
	deleteErr   error
	lastReq     googlecalendar.EventRequest
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, accessToken string, req googlecalendar.EventRequest) (*googlecalendar.Event, error) {
	f.insertCalls++
	f.lastReq = req
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return &googlecalendar.Event{ID: "evt-1", MeetLink: "https://meet.example.com/abc"}, nil
}

func (f *fakeCalendar) PatchEvent(ctx context.Context, accessToken, eventID string, req googlecalendar.EventRequest) (*googlecalendar.Event, error) {
	f.patchCalls++
	return &googlecalendar.Event{ID: eventID}, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, accessToken, eventID string) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeMailer struct {
	fail  bool
	sends int
	kinds []models.NotificationKind
}

func (f *fakeMailer) Send(kind models.NotificationKind, recipient string, data notification.TemplateData) notification.SendResult {
	f.sends++
	f.kinds = append(f.kinds, kind)
	if f.fail {
		return notification.SendResult{Err: errors.New("relay down")}
	}
	return notification.SendResult{Success: true}
}

func testCandidate() *dbmodels.CandidateExt {
	ext := &dbmodels.CandidateExt{
		Candidate: dbmodels.Candidate{
			JobID:     "job-1",
			FirstName: "Dana",
			LastName:  "Reyes",
			Email:     "dana@example.com",
		},
		JobTitle: "Backend Engineer",
	}
	ext.ID = "cand-1"
	ext.CompanyID = "c1"
	return ext
}

func scheduledInterview(id string, eventID string) *dbmodels.Interview {
	rec := &dbmodels.Interview{
		CandidateID:     "cand-1",
		JobID:           "job-1",
		Date:            time.Now().Add(48 * time.Hour),
		DurationMin:     45,
		Status:          models.InterviewStatusScheduled,
		OrganizerID:     "u1",
		CalendarEventID: eventID,
	}
	rec.ID = id
	rec.CompanyID = "c1"
	return rec
}

func TestSchedule(t *testing.T) {
	req := interviewapimodels.ScheduleRequest{
		CandidateID: "cand-1",
		Date:        time.Now().Add(48 * time.Hour),
		DurationMin: 45,
		TimezoneID:  "Europe/Berlin",
	}

	t.Run("no connected calendar still schedules cleanly", func(t *testing.T) {
		store := &fakeInterviewStore{}
		cal := &fakeCalendar{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Schedule(context.Background(), "c1", req, "u1")
		require.Nil(t, err)
		require.Equal(t, models.InterviewStatusScheduled, result.Interview.Status)
		require.Equal(t, 0, cal.insertCalls)
		require.Empty(t, result.Warnings)
	})

	t.Run("calendar event links back onto the interview", func(t *testing.T) {
		store := &fakeInterviewStore{}
		cal := &fakeCalendar{}
		organizer := &dbmodels.CompanyUser{Email: "organizer@example.com"}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{organizer: organizer},
			tokens:         &fakeTokens{token: &integration.Token{AccessToken: "tok"}},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Schedule(context.Background(), "c1", req, "u1")
		require.Nil(t, err)
		require.Equal(t, 1, cal.insertCalls)
		require.Equal(t, "https://meet.example.com/abc", result.Interview.MeetLink)
		require.True(t, cal.lastReq.WithMeet)
		require.Equal(t, []string{"dana@example.com", "organizer@example.com"}, cal.lastReq.Attendees)
		require.Len(t, store.updates, 1)
		require.Equal(t, "evt-1", store.updates[0]["CalendarEventID"])
	})

	t.Run("calendar failure is a warning, not an error", func(t *testing.T) {
		store := &fakeInterviewStore{}
		cal := &fakeCalendar{insertErr: errors.New("quota exceeded")}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{token: &integration.Token{AccessToken: "tok"}},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Schedule(context.Background(), "c1", req, "u1")
		require.Nil(t, err)
		require.Contains(t, result.Warnings, "calendar event not created")
	})
}

func TestCancel(t *testing.T) {
	t.Run("interview without a calendar event skips the provider entirely", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "")},
			statusUpdated: true,
		}
		cal := &fakeCalendar{}
		tokens := &fakeTokens{token: &integration.Token{AccessToken: "tok"}}
		mailer := &fakeMailer{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         tokens,
			calendar:       cal,
			dispatcher:     mailer,
		}

		result, err := h.Cancel(context.Background(), "c1", "int-1")
		require.Nil(t, err)
		require.Equal(t, models.InterviewStatusCancelled, result.Interview.Status)
		require.Equal(t, 0, tokens.calls)
		require.Equal(t, 0, cal.deleteCalls)
		require.Equal(t, []models.NotificationKind{models.NotificationInterviewCancellation}, mailer.kinds)
	})

	t.Run("synced interview removes its calendar event", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "evt-1")},
			statusUpdated: true,
		}
		cal := &fakeCalendar{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{token: &integration.Token{AccessToken: "tok"}},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Cancel(context.Background(), "c1", "int-1")
		require.Nil(t, err)
		require.Equal(t, 1, cal.deleteCalls)
		require.Empty(t, result.Warnings)
	})

	t.Run("dead integration downgrades the calendar cleanup to a warning", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "evt-1")},
			statusUpdated: true,
		}
		cal := &fakeCalendar{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Cancel(context.Background(), "c1", "int-1")
		require.Nil(t, err)
		require.Contains(t, result.Warnings, "calendar event not removed")
		require.Equal(t, 0, cal.deleteCalls)
	})

	t.Run("completed interview cannot be cancelled", func(t *testing.T) {
		rec := scheduledInterview("int-1", "")
		rec.Status = models.InterviewStatusCompleted
		store := &fakeInterviewStore{recs: map[string]*dbmodels.Interview{"int-1": rec}}
		h := impl{store: store}

		_, err := h.Cancel(context.Background(), "c1", "int-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		require.Equal(t, 0, store.statusIfCalls)
	})
}

func TestReschedule(t *testing.T) {
	newDate := time.Now().Add(72 * time.Hour)

	t.Run("moving an interview resets its reminder", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "")},
			statusUpdated: true,
		}
		cal := &fakeCalendar{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Reschedule(context.Background(), "c1", "int-1", interviewapimodels.RescheduleRequest{Date: newDate})
		require.Nil(t, err)
		require.Equal(t, models.InterviewStatusRescheduled, result.Interview.Status)
		require.Contains(t, store.lastUpdMap, "ReminderSentAt")
		require.Nil(t, store.lastUpdMap["ReminderSentAt"])
		require.Equal(t, 0, cal.patchCalls)
	})

	t.Run("synced interview patches its calendar event", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "evt-1")},
			statusUpdated: true,
		}
		cal := &fakeCalendar{}
		h := impl{
			store:          store,
			candidateStore: &stubCandidates{ext: testCandidate()},
			userStore:      &stubUsers{},
			tokens:         &fakeTokens{token: &integration.Token{AccessToken: "tok"}},
			calendar:       cal,
			dispatcher:     &fakeMailer{},
		}

		result, err := h.Reschedule(context.Background(), "c1", "int-1", interviewapimodels.RescheduleRequest{Date: newDate})
		require.Nil(t, err)
		require.Equal(t, 1, cal.patchCalls)
		require.Empty(t, result.Warnings)
	})
}

func TestConfirm(t *testing.T) {
	t.Run("lost race is a conflict", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs: map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "")},
		}
		h := impl{store: store}

		_, err := h.Confirm("c1", "int-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		require.Equal(t, 1, store.statusIfCalls)
	})

	t.Run("confirmation narrows the allowed source statuses", func(t *testing.T) {
		store := &fakeInterviewStore{
			recs:          map[string]*dbmodels.Interview{"int-1": scheduledInterview("int-1", "")},
			statusUpdated: true,
		}
		h := impl{store: store}

		view, err := h.Confirm("c1", "int-1")
		require.Nil(t, err)
		require.Equal(t, models.InterviewStatusConfirmed, view.Status)
		require.Equal(t, []models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusRescheduled}, store.lastCurrents)
	})
}
