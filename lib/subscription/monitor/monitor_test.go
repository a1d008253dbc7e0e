package monitor

import (
	"context"
	"testing"
	"time"

	"intavia-backend/lib/notification"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/lib/utils/lock"
	"intavia-backend/models"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionStore struct {
	trialEnding   []dbmodels.SubscriptionExt
	paymentFailed []dbmodels.SubscriptionExt
	expiring      []dbmodels.SubscriptionExt
	pastDue       []dbmodels.Subscription
	trialErr      error
	updateErr     error
	statusUpdated bool
	updates       map[string]map[string]interface{}
	statusIfCalls int
}

func (f *fakeSubscriptionStore) Create(rec dbmodels.Subscription) (string, error) {
	return "", nil
}

func (f *fakeSubscriptionStore) GetByCompany(companyID string) (*dbmodels.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) GetByStripeSubscriptionID(stripeID string) (*dbmodels.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) GetByStripeCustomerID(customerID string) (*dbmodels.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionStore) Update(id string, updMap map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = map[string]map[string]interface{}{}
	}
	f.updates[id] = updMap
	return nil
}

func (f *fakeSubscriptionStore) UpdateStatusIf(id string, current, next models.SubscriptionStatus, updMap map[string]interface{}) (bool, error) {
	f.statusIfCalls++
	return f.statusUpdated, nil
}

func (f *fakeSubscriptionStore) ListTrialEnding(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	return f.trialEnding, f.trialErr
}

func (f *fakeSubscriptionStore) ListPaymentFailed() ([]dbmodels.SubscriptionExt, error) {
	return f.paymentFailed, nil
}

func (f *fakeSubscriptionStore) ListExpiring(before time.Time) ([]dbmodels.SubscriptionExt, error) {
	return f.expiring, nil
}

func (f *fakeSubscriptionStore) ListPastDueOlderThan(since time.Time) ([]dbmodels.Subscription, error) {
	return f.pastDue, nil
}

type fakePreferences struct {
	rec *dbmodels.NotificationPreference
	err error
}

func (f *fakePreferences) GetByUser(userID string) (*dbmodels.NotificationPreference, error) {
	return f.rec, f.err
}

func (f *fakePreferences) Save(rec dbmodels.NotificationPreference) (string, error) {
	return "", nil
}

type fakeDispatcher struct {
	fail       bool
	sends      int
	recipients []string
	kinds      []models.NotificationKind
}

func (f *fakeDispatcher) Send(kind models.NotificationKind, recipient string, data notification.TemplateData) notification.SendResult {
	f.sends++
	f.recipients = append(f.recipients, recipient)
	f.kinds = append(f.kinds, kind)
	if f.fail {
		return notification.SendResult{Err: errors.New("relay down")}
	}
	return notification.SendResult{Success: true}
}

func newMonitor(store *fakeSubscriptionStore, prefs *fakePreferences, dispatcher *fakeDispatcher) impl {
	return impl{
		store:            store,
		preferences:      prefs,
		dispatcher:       dispatcher,
		trialEndingDays:  3,
		expiringDays:     7,
		pastDueGraceDays: 14,
	}
}

func subscriptionExt(id string) dbmodels.SubscriptionExt {
	trialEnd := time.Now().Add(36 * time.Hour)
	ext := dbmodels.SubscriptionExt{
		Subscription: dbmodels.Subscription{
			PlanID:   "team",
			Status:   models.SubscriptionStatusTrialing,
			TrialEnd: &trialEnd,
		},
		CompanyName: "Acme",
		AdminUserID: "admin-1",
		AdminEmail:  "admin@example.com",
		AdminName:   "Robin Vale",
	}
	ext.ID = id
	ext.CompanyID = "c1"
	return ext
}

func TestRunAllChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("every check reports, totals add up", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding:   []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
			paymentFailed: []dbmodels.SubscriptionExt{subscriptionExt("sub-2")},
		}
		dispatcher := &fakeDispatcher{}
		m := newMonitor(store, &fakePreferences{}, dispatcher)

		summary := m.RunAllChecks(ctx)
		require.Len(t, summary.Checks, 4)
		require.Equal(t, 2, summary.TotalNotifications)
		require.Equal(t, 0, summary.TotalErrors)
		require.Equal(t, []models.NotificationKind{
			models.NotificationTrialEnding,
			models.NotificationPaymentFailed,
		}, dispatcher.kinds)
	})

	t.Run("a failing check never blocks the others", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialErr:      errors.New("db timeout"),
			paymentFailed: []dbmodels.SubscriptionExt{subscriptionExt("sub-2")},
		}
		dispatcher := &fakeDispatcher{}
		m := newMonitor(store, &fakePreferences{}, dispatcher)

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 1, summary.TotalErrors)
		require.Len(t, summary.Checks[checkTrialEnding].Errors, 1)
		require.Equal(t, 1, summary.Checks[checkPaymentFailed].Notifications)
	})

	t.Run("successful notification advances the cursor", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding: []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
		}
		m := newMonitor(store, &fakePreferences{}, &fakeDispatcher{})

		m.RunAllChecks(ctx)
		require.Contains(t, store.updates["sub-1"], "TrialNotifiedAt")
	})

	t.Run("failed send leaves the cursor for the next sweep", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding: []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
		}
		m := newMonitor(store, &fakePreferences{}, &fakeDispatcher{fail: true})

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 0, summary.TotalNotifications)
		require.Equal(t, 1, summary.TotalErrors)
		require.Empty(t, store.updates)
	})

	t.Run("billing opt-out skips the mail but still advances the cursor", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding: []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
		}
		prefs := &fakePreferences{rec: &dbmodels.NotificationPreference{
			UserID:             "admin-1",
			DisabledCategories: []string{string(models.NotificationCategoryBilling)},
		}}
		dispatcher := &fakeDispatcher{}
		m := newMonitor(store, prefs, dispatcher)

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 0, dispatcher.sends)
		require.Equal(t, 0, summary.TotalNotifications)
		require.Contains(t, store.updates["sub-1"], "TrialNotifiedAt")
	})

	t.Run("quiet hours defer without touching the cursor", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding: []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
		}
		hour := helpers.LocalHour(time.Now(), "")
		prefs := &fakePreferences{rec: &dbmodels.NotificationPreference{
			UserID:          "admin-1",
			QuietHoursStart: (hour + 23) % 24,
			QuietHoursEnd:   (hour + 2) % 24,
		}}
		dispatcher := &fakeDispatcher{}
		m := newMonitor(store, prefs, dispatcher)

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 0, dispatcher.sends)
		require.Equal(t, 0, summary.TotalNotifications)
		require.Equal(t, 0, summary.TotalErrors)
		require.Empty(t, store.updates)
	})

	t.Run("quiet hours follow the preference timezone", func(t *testing.T) {
		store := &fakeSubscriptionStore{
			trialEnding: []dbmodels.SubscriptionExt{subscriptionExt("sub-1")},
		}
		// window around the local hour in a zone far from UTC, so a sweep
		// evaluating in UTC would mail right through it
		timezoneID := "Pacific/Kiritimati"
		hour := helpers.LocalHour(time.Now(), timezoneID)
		prefs := &fakePreferences{rec: &dbmodels.NotificationPreference{
			UserID:          "admin-1",
			QuietHoursStart: (hour + 23) % 24,
			QuietHoursEnd:   (hour + 2) % 24,
			TimezoneID:      timezoneID,
		}}
		dispatcher := &fakeDispatcher{}
		m := newMonitor(store, prefs, dispatcher)

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 0, dispatcher.sends)
		require.Equal(t, 0, summary.TotalNotifications)
		require.Empty(t, store.updates)
	})

	t.Run("subscription without an admin is an error", func(t *testing.T) {
		orphan := subscriptionExt("sub-1")
		orphan.AdminEmail = ""
		store := &fakeSubscriptionStore{trialEnding: []dbmodels.SubscriptionExt{orphan}}
		m := newMonitor(store, &fakePreferences{}, &fakeDispatcher{})

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 1, summary.TotalErrors)
	})

	t.Run("long past due subscriptions get expired", func(t *testing.T) {
		rec := dbmodels.Subscription{Status: models.SubscriptionStatusPastDue}
		rec.ID = "sub-9"
		store := &fakeSubscriptionStore{
			pastDue:       []dbmodels.Subscription{rec},
			statusUpdated: true,
		}
		m := newMonitor(store, &fakePreferences{}, &fakeDispatcher{})

		summary := m.RunAllChecks(ctx)
		require.Equal(t, 1, store.statusIfCalls)
		require.Equal(t, 1, summary.Checks[checkPastDueEscalation].Notifications)
	})

	t.Run("a second sweep is refused while one is running", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		done := make(chan struct{})
		go func() {
			_, _ = lock.WithDelay(context.Background(), sweepLockKey, time.Second, func() error {
				close(started)
				<-release
				return nil
			})
			close(done)
		}()
		<-started

		m := newMonitor(&fakeSubscriptionStore{}, &fakePreferences{}, &fakeDispatcher{})
		summary := m.RunAllChecks(ctx)
		require.Equal(t, 1, summary.TotalErrors)
		require.Contains(t, summary.Checks["sweep"].Errors, "a sweep is already running")

		close(release)
		<-done
	})
}
