package reminderworker

import (
	"context"
	"testing"
	"time"

	"intavia-backend/lib/notification"
	baseworker "intavia-backend/lib/utils/base-worker"
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	due        []dbmodels.InterviewExt
	claimed    map[string]bool
	claimCalls []string
}

func (f *fakeStore) Create(rec dbmodels.Interview) (string, error) { return "", nil }
func (f *fakeStore) GetByID(companyID, id string) (*dbmodels.Interview, error) {
	return nil, nil
}
func (f *fakeStore) ListByCandidate(companyID, candidateID string) ([]dbmodels.Interview, error) {
	return nil, nil
}
func (f *fakeStore) Update(id string, updMap map[string]interface{}) error { return nil }
func (f *fakeStore) UpdateStatusIf(id string, currents []models.InterviewStatus, next models.InterviewStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}
func (f *fakeStore) ListDueForReminder(from, to time.Time) ([]dbmodels.InterviewExt, error) {
	return f.due, nil
}
func (f *fakeStore) MarkReminderSent(id string, at time.Time) (bool, error) {
	f.claimCalls = append(f.claimCalls, id)
	return f.claimed[id], nil
}

type fakeDispatcher struct {
	fail       bool
	recipients []string
}

func (f *fakeDispatcher) Send(kind models.NotificationKind, recipient string, data notification.TemplateData) notification.SendResult {
	f.recipients = append(f.recipients, recipient)
	if f.fail {
		return notification.SendResult{Err: errors.New("relay down")}
	}
	return notification.SendResult{Success: true}
}

func dueInterview(id, organizerEmail string) dbmodels.InterviewExt {
	ext := dbmodels.InterviewExt{
		Interview: dbmodels.Interview{
			CandidateID: "cand-1",
			Date:        time.Now().Add(3 * time.Hour),
			Status:      models.InterviewStatusConfirmed,
		},
		CandidateName:  "Dana Reyes",
		JobTitle:       "Backend Engineer",
		OrganizerEmail: organizerEmail,
		OrganizerName:  "Robin Vale",
	}
	ext.ID = id
	ext.CompanyID = "c1"
	return ext
}

func newWorker(store *fakeStore, dispatcher *fakeDispatcher) impl {
	return impl{
		BaseImpl:   *baseworker.NewInstance("InterviewReminderWorkerTest", time.Second, time.Minute),
		store:      store,
		dispatcher: dispatcher,
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("claimed interviews get exactly one reminder", func(t *testing.T) {
		store := &fakeStore{
			due: []dbmodels.InterviewExt{
				dueInterview("int-1", "a@example.com"),
				dueInterview("int-2", "b@example.com"),
			},
			claimed: map[string]bool{"int-1": true, "int-2": true},
		}
		dispatcher := &fakeDispatcher{}
		w := newWorker(store, dispatcher)

		w.handle(ctx)
		require.Equal(t, []string{"int-1", "int-2"}, store.claimCalls)
		require.Equal(t, []string{"a@example.com", "b@example.com"}, dispatcher.recipients)
	})

	t.Run("a lost claim means another worker already sent it", func(t *testing.T) {
		store := &fakeStore{
			due:     []dbmodels.InterviewExt{dueInterview("int-1", "a@example.com")},
			claimed: map[string]bool{"int-1": false},
		}
		dispatcher := &fakeDispatcher{}
		w := newWorker(store, dispatcher)

		w.handle(ctx)
		require.Empty(t, dispatcher.recipients)
	})

	t.Run("interviews without an organizer email are skipped unclaimed", func(t *testing.T) {
		store := &fakeStore{
			due:     []dbmodels.InterviewExt{dueInterview("int-1", "")},
			claimed: map[string]bool{"int-1": true},
		}
		dispatcher := &fakeDispatcher{}
		w := newWorker(store, dispatcher)

		w.handle(ctx)
		require.Empty(t, store.claimCalls)
		require.Empty(t, dispatcher.recipients)
	})

	t.Run("send failure does not stop the rest of the batch", func(t *testing.T) {
		store := &fakeStore{
			due: []dbmodels.InterviewExt{
				dueInterview("int-1", "a@example.com"),
				dueInterview("int-2", "b@example.com"),
			},
			claimed: map[string]bool{"int-1": true, "int-2": true},
		}
		dispatcher := &fakeDispatcher{fail: true}
		w := newWorker(store, dispatcher)

		w.handle(ctx)
		require.Equal(t, []string{"a@example.com", "b@example.com"}, dispatcher.recipients)
	})
}
