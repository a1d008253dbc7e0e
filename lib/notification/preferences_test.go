package notification

import (
	"testing"

	"intavia-backend/lib/apperrors"
	notificationapimodels "intavia-backend/models/api/notification"
	dbmodels "intavia-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakePreferenceStore struct {
	rec   *dbmodels.NotificationPreference
	saved []dbmodels.NotificationPreference
}

func (f *fakePreferenceStore) GetByUser(userID string) (*dbmodels.NotificationPreference, error) {
	return f.rec, nil
}

func (f *fakePreferenceStore) Save(rec dbmodels.NotificationPreference) (string, error) {
	f.saved = append(f.saved, rec)
	return "pref-1", nil
}

func TestGetPreferences(t *testing.T) {
	t.Run("no saved row means everything on", func(t *testing.T) {
		h := preferencesImpl{store: &fakePreferenceStore{}}

		view, err := h.Get("u1")
		require.Nil(t, err)
		require.Empty(t, view.DisabledCategories)
		require.Equal(t, 0, view.QuietHoursStart)
		require.Equal(t, 0, view.QuietHoursEnd)
	})

	t.Run("a saved matrix comes back as stored", func(t *testing.T) {
		rec := &dbmodels.NotificationPreference{
			UserID:             "u1",
			DisabledCategories: []string{"billing"},
			QuietHoursStart:    22,
			QuietHoursEnd:      6,
			TimezoneID:         "Europe/Berlin",
		}
		h := preferencesImpl{store: &fakePreferenceStore{rec: rec}}

		view, err := h.Get("u1")
		require.Nil(t, err)
		require.Equal(t, []string{"billing"}, view.DisabledCategories)
		require.Equal(t, 22, view.QuietHoursStart)
		require.Equal(t, 6, view.QuietHoursEnd)
		require.Equal(t, "Europe/Berlin", view.TimezoneID)
	})
}

func TestSavePreferences(t *testing.T) {
	t.Run("saving upserts the row for the user", func(t *testing.T) {
		store := &fakePreferenceStore{}
		h := preferencesImpl{store: store}

		view, err := h.Save("c1", "u1", notificationapimodels.SavePreferenceRequest{
			DisabledCategories: []string{"interviews"},
			QuietHoursStart:    23,
			QuietHoursEnd:      7,
			TimezoneID:         "America/New_York",
		})
		require.Nil(t, err)
		require.Len(t, store.saved, 1)
		require.Equal(t, "u1", store.saved[0].UserID)
		require.Equal(t, "c1", store.saved[0].CompanyID)
		require.Equal(t, "America/New_York", store.saved[0].TimezoneID)
		require.Equal(t, []string{"interviews"}, view.DisabledCategories)
	})

	t.Run("made-up timezones are refused", func(t *testing.T) {
		store := &fakePreferenceStore{}
		h := preferencesImpl{store: store}

		_, err := h.Save("c1", "u1", notificationapimodels.SavePreferenceRequest{TimezoneID: "Mars/Olympus"})
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Empty(t, store.saved)
	})

	t.Run("made-up categories are refused", func(t *testing.T) {
		store := &fakePreferenceStore{}
		h := preferencesImpl{store: store}

		_, err := h.Save("c1", "u1", notificationapimodels.SavePreferenceRequest{DisabledCategories: []string{"gossip"}})
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Empty(t, store.saved)
	})

	t.Run("quiet hours outside the clock are refused", func(t *testing.T) {
		h := preferencesImpl{store: &fakePreferenceStore{}}

		_, err := h.Save("c1", "u1", notificationapimodels.SavePreferenceRequest{QuietHoursStart: 24})
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}
