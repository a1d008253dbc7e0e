package invite

import (
	"testing"
	"time"

	"intavia-backend/lib/apperrors"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	inviteapimodels "intavia-backend/models/api/invite"
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeInviteStore struct {
	rec           *dbmodels.Invite
	pending       *dbmodels.Invite
	created       []dbmodels.Invite
	statusUpdated bool
	lastNext      models.InviteStatus
}

func (f *fakeInviteStore) Create(rec dbmodels.Invite) (string, error) {
	f.created = append(f.created, rec)
	return "inv-new", nil
}

func (f *fakeInviteStore) GetByID(id string) (*dbmodels.Invite, error) {
	if f.rec != nil && f.rec.ID == id {
		return f.rec, nil
	}
	return nil, nil
}

func (f *fakeInviteStore) GetPendingByEmail(companyID, email string) (*dbmodels.Invite, error) {
	return f.pending, nil
}

func (f *fakeInviteStore) ListByCompany(companyID string) ([]dbmodels.Invite, error) {
	return nil, nil
}

func (f *fakeInviteStore) UpdateStatusIf(id string, current, next models.InviteStatus) (bool, error) {
	f.lastNext = next
	return f.statusUpdated, nil
}

type fakeUserStore struct {
	byEmail *dbmodels.CompanyUser
	byID    *dbmodels.CompanyUser
}

func (f *fakeUserStore) Create(rec dbmodels.CompanyUser) (string, error) { return "", nil }
func (f *fakeUserStore) GetByID(companyID, id string) (*dbmodels.CompanyUser, error) {
	return f.byID, nil
}
func (f *fakeUserStore) GetByEmail(email string) (*dbmodels.CompanyUser, error) {
	return f.byEmail, nil
}
func (f *fakeUserStore) ListByCompany(companyID string) ([]dbmodels.CompanyUser, error) {
	return nil, nil
}
func (f *fakeUserStore) GetAdmin(companyID string) (*dbmodels.CompanyUser, error) {
	return nil, nil
}
func (f *fakeUserStore) Update(id string, updMap map[string]interface{}) error { return nil }

type fakeCompanyStore struct {
	company *dbmodels.Company
}

func (f *fakeCompanyStore) Create(rec dbmodels.Company) (string, error)  { return "", nil }
func (f *fakeCompanyStore) GetByID(id string) (*dbmodels.Company, error) { return f.company, nil }
func (f *fakeCompanyStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

type fakeDispatcher struct {
	fail       bool
	recipients []string
	kinds      []models.NotificationKind
	links      []string
}

func (f *fakeDispatcher) Send(kind models.NotificationKind, recipient string, data notification.TemplateData) notification.SendResult {
	f.recipients = append(f.recipients, recipient)
	f.kinds = append(f.kinds, kind)
	f.links = append(f.links, data.InviteLink)
	if f.fail {
		return notification.SendResult{Err: errors.New("relay down")}
	}
	return notification.SendResult{Success: true}
}

func newInvites(store *fakeInviteStore, users *fakeUserStore, companies *fakeCompanyStore, dispatcher *fakeDispatcher) impl {
	return impl{
		store:        store,
		userStore:    users,
		companyStore: companies,
		dispatcher:   dispatcher,
		publicURL:    "https://app.example.com",
	}
}

func storedInvite(id string, status models.InviteStatus, expiresAt time.Time) *dbmodels.Invite {
	rec := &dbmodels.Invite{
		Email:     "new@example.com",
		Role:      models.CompanyUserRole,
		Status:    status,
		ExpiresAt: expiresAt,
		InvitedBy: "admin-1",
	}
	rec.ID = id
	rec.CompanyID = "c1"
	return rec
}

func TestCreateInvite(t *testing.T) {
	req := inviteapimodels.CreateInviteRequest{Email: "new@example.com", Role: models.CompanyUserRole}

	t.Run("invite carries a week-long expiry and a signup link", func(t *testing.T) {
		store := &fakeInviteStore{}
		dispatcher := &fakeDispatcher{}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{company: &dbmodels.Company{Name: "Acme"}}, dispatcher)

		result, err := h.Create("c1", req, "admin-1")
		require.Nil(t, err)
		require.Len(t, store.created, 1)
		ttl := time.Until(store.created[0].ExpiresAt)
		require.True(t, ttl > 6*24*time.Hour && ttl <= 7*24*time.Hour)
		require.Equal(t, []string{"https://app.example.com/signup?invite=inv-new"}, dispatcher.links)
		require.Equal(t, models.InviteStatusPending, result.Invite.Status)
		require.Empty(t, result.Warnings)
	})

	t.Run("existing user cannot be invited", func(t *testing.T) {
		h := newInvites(&fakeInviteStore{}, &fakeUserStore{byEmail: &dbmodels.CompanyUser{}}, &fakeCompanyStore{}, &fakeDispatcher{})

		_, err := h.Create("c1", req, "admin-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("duplicate pending invite is refused", func(t *testing.T) {
		store := &fakeInviteStore{pending: storedInvite("inv-1", models.InviteStatusPending, time.Now().Add(time.Hour))}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{}, &fakeDispatcher{})

		_, err := h.Create("c1", req, "admin-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		require.Empty(t, store.created)
	})

	t.Run("lost invite mail is a warning, the row stays", func(t *testing.T) {
		store := &fakeInviteStore{}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{}, &fakeDispatcher{fail: true})

		result, err := h.Create("c1", req, "admin-1")
		require.Nil(t, err)
		require.Len(t, store.created, 1)
		require.Contains(t, result.Warnings, "invite email not sent")
	})
}

func TestReject(t *testing.T) {
	t.Run("pending invite gets rejected and the inviter hears about it", func(t *testing.T) {
		store := &fakeInviteStore{
			rec:           storedInvite("inv-1", models.InviteStatusPending, time.Now().Add(time.Hour)),
			statusUpdated: true,
		}
		inviter := &dbmodels.CompanyUser{Email: "admin@example.com", FirstName: "Robin", LastName: "Vale"}
		dispatcher := &fakeDispatcher{}
		h := newInvites(store, &fakeUserStore{byID: inviter}, &fakeCompanyStore{}, dispatcher)

		view, err := h.Reject("inv-1")
		require.Nil(t, err)
		require.Equal(t, models.InviteStatusRejected, view.Status)
		require.Equal(t, []models.NotificationKind{models.NotificationInviteRejected}, dispatcher.kinds)
		require.Equal(t, []string{"admin@example.com"}, dispatcher.recipients)
	})

	t.Run("expired invite cannot be rejected", func(t *testing.T) {
		store := &fakeInviteStore{rec: storedInvite("inv-1", models.InviteStatusPending, time.Now().Add(-time.Hour))}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{}, &fakeDispatcher{})

		_, err := h.Reject("inv-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("settled invite cannot be rejected again", func(t *testing.T) {
		store := &fakeInviteStore{rec: storedInvite("inv-1", models.InviteStatusAccepted, time.Now().Add(time.Hour))}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{}, &fakeDispatcher{})

		_, err := h.Reject("inv-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
}

func TestMarkAccepted(t *testing.T) {
	t.Run("settling flips pending to accepted", func(t *testing.T) {
		store := &fakeInviteStore{
			rec:           storedInvite("inv-1", models.InviteStatusPending, time.Now().Add(time.Hour)),
			statusUpdated: true,
		}
		dispatcher := &fakeDispatcher{}
		h := newInvites(store, &fakeUserStore{byID: &dbmodels.CompanyUser{Email: "admin@example.com"}}, &fakeCompanyStore{}, dispatcher)

		require.Nil(t, h.MarkAccepted("inv-1"))
		require.Equal(t, models.InviteStatusAccepted, store.lastNext)
		require.Equal(t, []models.NotificationKind{models.NotificationInviteAccepted}, dispatcher.kinds)
	})

	t.Run("lost race is a conflict", func(t *testing.T) {
		store := &fakeInviteStore{rec: storedInvite("inv-1", models.InviteStatusPending, time.Now().Add(time.Hour))}
		h := newInvites(store, &fakeUserStore{}, &fakeCompanyStore{}, &fakeDispatcher{})

		err := h.MarkAccepted("inv-1")
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
}
