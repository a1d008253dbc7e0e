package auth

import (
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	otpstore "intavia-backend/lib/auth/otp-store"
	companystore "intavia-backend/lib/company/store"
	userstore "intavia-backend/lib/company/user-store"
	"intavia-backend/lib/invite"
	invitestore "intavia-backend/lib/invite/store"
	"intavia-backend/lib/notification"
	authutils "intavia-backend/lib/utils/auth-utils"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/models"
	authapimodels "intavia-backend/models/api/auth"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpLength = 6
	otpTTL    = 15 * time.Minute
)

type SignUpResult struct {
	Tokens   authapimodels.TokenResponse
	Warnings []string
}

type Provider interface {
	SignUp(req authapimodels.SignUpRequest) (SignUpResult, error)
	SignIn(req authapimodels.SignInRequest) (authapimodels.TokenResponse, error)
	VerifyOtp(req authapimodels.VerifyOtpRequest) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		userStore:    userstore.NewInstance(db.DB),
		companyStore: companystore.NewInstance(db.DB),
		inviteStore:  invitestore.NewInstance(db.DB),
		otpStore:     otpstore.NewInstance(db.DB),
		invites:      invite.Instance,
		dispatcher:   notification.Instance,
	}
}

type impl struct {
	userStore    userstore.Provider
	companyStore companystore.Provider
	inviteStore  invitestore.Provider
	otpStore     otpstore.Provider
	invites      invite.Provider
	dispatcher   notification.Provider
}

func (i impl) SignUp(req authapimodels.SignUpRequest) (SignUpResult, error) {
	if err := req.Validate(); err != nil {
		return SignUpResult{}, apperrors.Validation(err.Error())
	}
	existing, err := i.userStore.GetByEmail(req.Email)
	if err != nil {
		return SignUpResult{}, err
	}
	if existing != nil {
		return SignUpResult{}, apperrors.Conflict("a user with this email already exists")
	}

	companyID := ""
	role := models.CompanyAdminRole
	var usedInvite *dbmodels.Invite
	if req.InviteID != "" {
		rec, err := i.inviteStore.GetByID(req.InviteID)
		if err != nil {
			return SignUpResult{}, err
		}
		if rec == nil {
			return SignUpResult{}, apperrors.NotFound("invite not found")
		}
		// a stale PENDING row past its expiry is just as dead as a settled one
		if !rec.IsUsable(time.Now()) {
			return SignUpResult{}, apperrors.Conflict("invite is expired or already used")
		}
		if rec.Email != req.Email {
			return SignUpResult{}, apperrors.Forbidden("invite was issued for a different email")
		}
		companyID = rec.CompanyID
		role = rec.Role
		usedInvite = rec
	} else {
		companyID, err = i.companyStore.Create(dbmodels.Company{Name: req.CompanyName})
		if err != nil {
			return SignUpResult{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return SignUpResult{}, err
	}
	user := dbmodels.CompanyUser{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		Email:            req.Email,
		PasswordHash:     string(hash),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Role:             role,
		Status:           models.UserStatusActive,
	}
	userID, err := i.userStore.Create(user)
	if err != nil {
		return SignUpResult{}, err
	}
	user.ID = userID

	var warnings []string
	if usedInvite != nil {
		if err = i.invites.MarkAccepted(usedInvite.ID); err != nil {
			warnings = append(warnings, "invite was not settled")
			log.WithError(err).WithField("invite_id", usedInvite.ID).Error("invite settle failed")
		}
	}
	if err = i.issueOtp(req.Email); err != nil {
		warnings = append(warnings, "verification code not sent")
		log.WithError(err).WithField("email", req.Email).Error("otp issue failed")
	}
	tokens, err := i.tokensFor(user)
	if err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{Tokens: tokens, Warnings: warnings}, nil
}

func (i impl) SignIn(req authapimodels.SignInRequest) (authapimodels.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return authapimodels.TokenResponse{}, apperrors.Validation(err.Error())
	}
	user, err := i.userStore.GetByEmail(req.Email)
	if err != nil {
		return authapimodels.TokenResponse{}, err
	}
	if user == nil {
		return authapimodels.TokenResponse{}, apperrors.New(apperrors.KindAuth, "invalid credentials")
	}
	if user.Status == models.UserStatusDisabled {
		return authapimodels.TokenResponse{}, apperrors.Forbidden("account is disabled")
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return authapimodels.TokenResponse{}, apperrors.New(apperrors.KindAuth, "invalid credentials")
	}
	return i.tokensFor(*user)
}

func (i impl) VerifyOtp(req authapimodels.VerifyOtpRequest) error {
	if err := req.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	now := time.Now()
	rec, err := i.otpStore.GetActive(req.Email, req.Code, now)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.New(apperrors.KindAuth, "code is invalid or expired")
	}
	used, err := i.otpStore.MarkUsed(rec.ID, now)
	if err != nil {
		return err
	}
	if !used {
		return apperrors.Conflict("code was already used")
	}
	user, err := i.userStore.GetByEmail(req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}
	return i.userStore.Update(user.ID, map[string]interface{}{"EmailVerified": true})
}

func (i impl) issueOtp(email string) error {
	code := helpers.GenerateOtpCode(otpLength)
	_, err := i.otpStore.Create(dbmodels.OtpCode{
		Email:       email,
		Code:        code,
		DateExpires: time.Now().Add(otpTTL),
	})
	if err != nil {
		return err
	}
	result := i.dispatcher.Send(models.NotificationEmailVerification, email, notification.TemplateData{
		OtpCode: code,
	})
	if !result.Success {
		return result.Err
	}
	return nil
}

func (i impl) tokensFor(user dbmodels.CompanyUser) (authapimodels.TokenResponse, error) {
	access, err := authutils.GetToken(user.ID, user.GetFullName(), user.CompanyID, user.Role)
	if err != nil {
		return authapimodels.TokenResponse{}, err
	}
	refresh, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.TokenResponse{}, err
	}
	return authapimodels.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}
