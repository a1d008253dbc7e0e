package auth

import (
	"testing"
	"time"

	"intavia-backend/config"
	"intavia-backend/lib/apperrors"
	"intavia-backend/lib/invite"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	authapimodels "intavia-backend/models/api/auth"
	inviteapimodels "intavia-backend/models/api/invite"
	dbmodels "intavia-backend/models/db"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.JWTExpireInSec = 3600
	config.Conf.Auth.JWTRefreshExpireInSec = 7200
	m.Run()
}

type fakeUserStore struct {
	byEmail map[string]*dbmodels.CompanyUser
	created []dbmodels.CompanyUser
	updates map[string]map[string]interface{}
}

func (f *fakeUserStore) Create(rec dbmodels.CompanyUser) (string, error) {
	f.created = append(f.created, rec)
	return "user-new", nil
}

func (f *fakeUserStore) GetByID(companyID, id string) (*dbmodels.CompanyUser, error) {
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*dbmodels.CompanyUser, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) ListByCompany(companyID string) ([]dbmodels.CompanyUser, error) {
	return nil, nil
}

func (f *fakeUserStore) GetAdmin(companyID string) (*dbmodels.CompanyUser, error) {
	return nil, nil
}

func (f *fakeUserStore) Update(id string, updMap map[string]interface{}) error {
	if f.updates == nil {
		f.updates = map[string]map[string]interface{}{}
	}
	f.updates[id] = updMap
	return nil
}

type fakeCompanyStore struct {
	createCalls int
}

func (f *fakeCompanyStore) Create(rec dbmodels.Company) (string, error) {
	f.createCalls++
	return "company-new", nil
}

func (f *fakeCompanyStore) GetByID(id string) (*dbmodels.Company, error) { return nil, nil }
func (f *fakeCompanyStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

type fakeInviteStore struct {
	rec *dbmodels.Invite
}

func (f *fakeInviteStore) Create(rec dbmodels.Invite) (string, error) { return "", nil }
func (f *fakeInviteStore) GetByID(id string) (*dbmodels.Invite, error) {
	if f.rec != nil && f.rec.ID == id {
		return f.rec, nil
	}
	return nil, nil
}
func (f *fakeInviteStore) GetPendingByEmail(companyID, email string) (*dbmodels.Invite, error) {
	return nil, nil
}
func (f *fakeInviteStore) ListByCompany(companyID string) ([]dbmodels.Invite, error) {
	return nil, nil
}
func (f *fakeInviteStore) UpdateStatusIf(id string, current, next models.InviteStatus) (bool, error) {
	return false, nil
}

type fakeInvites struct {
	accepted []string
}

func (f *fakeInvites) Create(companyID string, req inviteapimodels.CreateInviteRequest, invitedBy string) (invite.CreateResult, error) {
	return invite.CreateResult{}, nil
}
func (f *fakeInvites) List(companyID string) ([]inviteapimodels.InviteView, error) {
	return nil, nil
}
func (f *fakeInvites) Reject(inviteID string) (inviteapimodels.InviteView, error) {
	return inviteapimodels.InviteView{}, nil
}
func (f *fakeInvites) MarkAccepted(inviteID string) error {
	f.accepted = append(f.accepted, inviteID)
	return nil
}

type fakeOtpStore struct {
	active      *dbmodels.OtpCode
	markUsedOK  bool
	createCalls int
	lastCode    dbmodels.OtpCode
}

func (f *fakeOtpStore) Create(rec dbmodels.OtpCode) (string, error) {
	f.createCalls++
	f.lastCode = rec
	return "otp-1", nil
}

func (f *fakeOtpStore) GetActive(email, code string, now time.Time) (*dbmodels.OtpCode, error) {
	return f.active, nil
}

func (f *fakeOtpStore) MarkUsed(id string, at time.Time) (bool, error) {
	return f.markUsedOK, nil
}

type fakeDispatcher struct {
	fail  bool
	kinds []models.NotificationKind
	data  []notification.TemplateData
}

func (f *fakeDispatcher) Send(kind models.NotificationKind, recipient string, data notification.TemplateData) notification.SendResult {
	f.kinds = append(f.kinds, kind)
	f.data = append(f.data, data)
	if f.fail {
		return notification.SendResult{Err: errAny}
	}
	return notification.SendResult{Success: true}
}

var errAny = apperrors.New(apperrors.KindUpstream, "relay down")

func newAuth(users *fakeUserStore, companies *fakeCompanyStore, invStore *fakeInviteStore, invites *fakeInvites, otps *fakeOtpStore, dispatcher *fakeDispatcher) impl {
	return impl{
		userStore:    users,
		companyStore: companies,
		inviteStore:  invStore,
		otpStore:     otps,
		invites:      invites,
		dispatcher:   dispatcher,
	}
}

func pendingInvite(id, email string, expiresAt time.Time) *dbmodels.Invite {
	rec := &dbmodels.Invite{
		Email:     email,
		Role:      models.CompanyUserRole,
		Status:    models.InviteStatusPending,
		ExpiresAt: expiresAt,
	}
	rec.ID = id
	rec.CompanyID = "company-inviter"
	return rec
}

func TestSignUp(t *testing.T) {
	baseReq := authapimodels.SignUpRequest{
		Email:       "new@example.com",
		Password:    "correct-horse",
		FirstName:   "Dana",
		LastName:    "Reyes",
		CompanyName: "Acme",
	}

	t.Run("fresh signup creates a company and an admin", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}
		companies := &fakeCompanyStore{}
		otps := &fakeOtpStore{}
		h := newAuth(users, companies, &fakeInviteStore{}, &fakeInvites{}, otps, &fakeDispatcher{})

		result, err := h.SignUp(baseReq)
		require.Nil(t, err)
		require.NotEmpty(t, result.Tokens.AccessToken)
		require.Equal(t, 1, companies.createCalls)
		require.Len(t, users.created, 1)
		require.Equal(t, models.CompanyAdminRole, users.created[0].Role)
		require.Equal(t, "company-new", users.created[0].CompanyID)
		require.Equal(t, 1, otps.createCalls)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{
			"new@example.com": {},
		}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		_, err := h.SignUp(baseReq)
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("invited signup joins the inviter's company with the invited role", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}
		companies := &fakeCompanyStore{}
		invites := &fakeInvites{}
		invStore := &fakeInviteStore{rec: pendingInvite("inv-1", "new@example.com", time.Now().Add(time.Hour))}
		h := newAuth(users, companies, invStore, invites, &fakeOtpStore{}, &fakeDispatcher{})

		req := baseReq
		req.CompanyName = ""
		req.InviteID = "inv-1"
		result, err := h.SignUp(req)
		require.Nil(t, err)
		require.Equal(t, 0, companies.createCalls)
		require.Equal(t, "company-inviter", users.created[0].CompanyID)
		require.Equal(t, models.CompanyUserRole, users.created[0].Role)
		require.Equal(t, []string{"inv-1"}, invites.accepted)
		require.Empty(t, result.Warnings)
	})

	t.Run("pending invite past its expiry is rejected", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}
		invStore := &fakeInviteStore{rec: pendingInvite("inv-1", "new@example.com", time.Now().Add(-time.Hour))}
		h := newAuth(users, &fakeCompanyStore{}, invStore, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		req := baseReq
		req.CompanyName = ""
		req.InviteID = "inv-1"
		_, err := h.SignUp(req)
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		require.Empty(t, users.created)
	})

	t.Run("invite issued for another email is forbidden", func(t *testing.T) {
		invStore := &fakeInviteStore{rec: pendingInvite("inv-1", "someone-else@example.com", time.Now().Add(time.Hour))}
		h := newAuth(&fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}, &fakeCompanyStore{}, invStore, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		req := baseReq
		req.InviteID = "inv-1"
		_, err := h.SignUp(req)
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("failed verification mail is only a warning", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{fail: true})

		result, err := h.SignUp(baseReq)
		require.Nil(t, err)
		require.NotEmpty(t, result.Tokens.AccessToken)
		require.Contains(t, result.Warnings, "verification code not sent")
	})

	t.Run("short password never reaches the store", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		req := baseReq
		req.Password = "short"
		_, err := h.SignUp(req)
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Empty(t, users.created)
	})
}

func TestSignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.Nil(t, err)
	activeUser := &dbmodels.CompanyUser{
		Email:        "dana@example.com",
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}
	activeUser.ID = "user-1"

	t.Run("good credentials produce a token pair", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{"dana@example.com": activeUser}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		tokens, err := h.SignIn(authapimodels.SignInRequest{Email: "dana@example.com", Password: "correct-horse"})
		require.Nil(t, err)
		require.NotEmpty(t, tokens.AccessToken)
		require.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{"dana@example.com": activeUser}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		_, wrongPass := h.SignIn(authapimodels.SignInRequest{Email: "dana@example.com", Password: "nope-nope"})
		_, unknown := h.SignIn(authapimodels.SignInRequest{Email: "ghost@example.com", Password: "nope-nope"})
		require.Equal(t, apperrors.KindAuth, apperrors.KindOf(wrongPass))
		require.Equal(t, apperrors.KindAuth, apperrors.KindOf(unknown))
		require.Equal(t, wrongPass.Error(), unknown.Error())
	})

	t.Run("disabled account is forbidden even with the right password", func(t *testing.T) {
		disabled := *activeUser
		disabled.Status = models.UserStatusDisabled
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{"dana@example.com": &disabled}}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		_, err := h.SignIn(authapimodels.SignInRequest{Email: "dana@example.com", Password: "correct-horse"})
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})
}

func TestVerifyOtp(t *testing.T) {
	user := &dbmodels.CompanyUser{Email: "dana@example.com"}
	user.ID = "user-1"
	activeCode := &dbmodels.OtpCode{Email: "dana@example.com", Code: "123456"}
	activeCode.ID = "otp-1"

	t.Run("valid code marks the email verified", func(t *testing.T) {
		users := &fakeUserStore{byEmail: map[string]*dbmodels.CompanyUser{"dana@example.com": user}}
		otps := &fakeOtpStore{active: activeCode, markUsedOK: true}
		h := newAuth(users, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, otps, &fakeDispatcher{})

		err := h.VerifyOtp(authapimodels.VerifyOtpRequest{Email: "dana@example.com", Code: "123456"})
		require.Nil(t, err)
		require.Equal(t, true, users.updates["user-1"]["EmailVerified"])
	})

	t.Run("expired or unknown code is an auth failure", func(t *testing.T) {
		h := newAuth(&fakeUserStore{}, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, &fakeOtpStore{}, &fakeDispatcher{})

		err := h.VerifyOtp(authapimodels.VerifyOtpRequest{Email: "dana@example.com", Code: "000000"})
		require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
	})

	t.Run("replayed code is a conflict", func(t *testing.T) {
		otps := &fakeOtpStore{active: activeCode, markUsedOK: false}
		h := newAuth(&fakeUserStore{}, &fakeCompanyStore{}, &fakeInviteStore{}, &fakeInvites{}, otps, &fakeDispatcher{})

		err := h.VerifyOtp(authapimodels.VerifyOtpRequest{Email: "dana@example.com", Code: "123456"})
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
}
