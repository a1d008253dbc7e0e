package invite

import (
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	companystore "intavia-backend/lib/company/store"
	userstore "intavia-backend/lib/company/user-store"
	invitestore "intavia-backend/lib/invite/store"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	inviteapimodels "intavia-backend/models/api/invite"
	dbmodels "intavia-backend/models/db"
)

// pending invites die after a week
const inviteTTL = 7 * 24 * time.Hour

type CreateResult struct {
	Invite   inviteapimodels.InviteView
	Warnings []string
}

type Provider interface {
	Create(companyID string, req inviteapimodels.CreateInviteRequest, invitedBy string) (CreateResult, error)
	List(companyID string) ([]inviteapimodels.InviteView, error)
	Reject(inviteID string) (inviteapimodels.InviteView, error)
	// MarkAccepted settles a pending invite after the invitee finished
	// signing up
	MarkAccepted(inviteID string) error
}

var Instance Provider

func NewHandler(publicURL string) {
	Instance = &impl{
		store:        invitestore.NewInstance(db.DB),
		userStore:    userstore.NewInstance(db.DB),
		companyStore: companystore.NewInstance(db.DB),
		dispatcher:   notification.Instance,
		publicURL:    publicURL,
	}
}

type impl struct {
	store        invitestore.Provider
	userStore    userstore.Provider
	companyStore companystore.Provider
	dispatcher   notification.Provider
	publicURL    string
}

func (i impl) Create(companyID string, req inviteapimodels.CreateInviteRequest, invitedBy string) (CreateResult, error) {
	if err := req.Validate(); err != nil {
		return CreateResult{}, apperrors.Validation(err.Error())
	}
	existing, err := i.userStore.GetByEmail(req.Email)
	if err != nil {
		return CreateResult{}, err
	}
	if existing != nil {
		return CreateResult{}, apperrors.Conflict("a user with this email already exists")
	}
	pending, err := i.store.GetPendingByEmail(companyID, req.Email)
	if err != nil {
		return CreateResult{}, err
	}
	if pending != nil {
		return CreateResult{}, apperrors.Conflict("a pending invite for this email already exists")
	}
	now := time.Now()
	rec := dbmodels.Invite{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		Email:            req.Email,
		Role:             req.Role,
		Status:           models.InviteStatusPending,
		ExpiresAt:        now.Add(inviteTTL),
		InvitedBy:        invitedBy,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return CreateResult{}, err
	}
	rec.ID = id

	var warnings []string
	companyName := ""
	if company, err := i.companyStore.GetByID(companyID); err == nil && company != nil {
		companyName = company.Name
	}
	result := i.dispatcher.Send(models.NotificationInviteSent, req.Email, notification.TemplateData{
		CompanyName: companyName,
		InviteLink:  i.publicURL + "/signup?invite=" + id,
	})
	if !result.Success {
		warnings = append(warnings, "invite email not sent")
	}
	return CreateResult{Invite: inviteapimodels.InviteConvert(rec, now), Warnings: warnings}, nil
}

func (i impl) List(companyID string) ([]inviteapimodels.InviteView, error) {
	list, err := i.store.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	result := make([]inviteapimodels.InviteView, 0, len(list))
	for _, rec := range list {
		result = append(result, inviteapimodels.InviteConvert(rec, now))
	}
	return result, nil
}

func (i impl) Reject(inviteID string) (inviteapimodels.InviteView, error) {
	rec, err := i.store.GetByID(inviteID)
	if err != nil {
		return inviteapimodels.InviteView{}, err
	}
	if rec == nil {
		return inviteapimodels.InviteView{}, apperrors.NotFound("invite not found")
	}
	if !rec.IsUsable(time.Now()) {
		return inviteapimodels.InviteView{}, apperrors.Conflict("invite is expired or already settled")
	}
	updated, err := i.store.UpdateStatusIf(inviteID, models.InviteStatusPending, models.InviteStatusRejected)
	if err != nil {
		return inviteapimodels.InviteView{}, err
	}
	if !updated {
		return inviteapimodels.InviteView{}, apperrors.Conflict("invite state changed concurrently")
	}
	rec.Status = models.InviteStatusRejected
	i.notifyInviter(*rec, models.NotificationInviteRejected)
	return inviteapimodels.InviteConvert(*rec, time.Now()), nil
}

func (i impl) MarkAccepted(inviteID string) error {
	rec, err := i.store.GetByID(inviteID)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("invite not found")
	}
	updated, err := i.store.UpdateStatusIf(inviteID, models.InviteStatusPending, models.InviteStatusAccepted)
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.Conflict("invite state changed concurrently")
	}
	i.notifyInviter(*rec, models.NotificationInviteAccepted)
	return nil
}

// notifyInviter is best effort, a lost mail never fails the flow.
func (i impl) notifyInviter(rec dbmodels.Invite, kind models.NotificationKind) {
	if rec.InvitedBy == "" {
		return
	}
	inviter, err := i.userStore.GetByID(rec.CompanyID, rec.InvitedBy)
	if err != nil || inviter == nil {
		return
	}
	companyName := ""
	if company, err := i.companyStore.GetByID(rec.CompanyID); err == nil && company != nil {
		companyName = company.Name
	}
	i.dispatcher.Send(kind, inviter.Email, notification.TemplateData{
		RecipientName: inviter.GetFullName(),
		CompanyName:   companyName,
	})
}
