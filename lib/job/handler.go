package job

import (
	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	userstore "intavia-backend/lib/company/user-store"
	jobstore "intavia-backend/lib/job/store"
	"intavia-backend/lib/notification"
	"intavia-backend/models"
	jobapimodels "intavia-backend/models/api/job"
	dbmodels "intavia-backend/models/db"
)

type GrantResult struct {
	Permission jobapimodels.PermissionView
	Warnings   []string
}

type Provider interface {
	Create(companyID string, req jobapimodels.CreateJobRequest, authorID string) (jobapimodels.JobView, error)
	GetByID(companyID, jobID string) (jobapimodels.JobView, error)
	List(companyID string) ([]jobapimodels.JobView, error)
	Close(companyID, jobID, actorID string, actorRole models.UserRole) (jobapimodels.JobView, error)
	GrantPermission(companyID, jobID string, req jobapimodels.GrantPermissionRequest, grantedBy string) (GrantResult, error)
	ListPermissions(companyID, jobID string) ([]jobapimodels.PermissionView, error)
	RevokePermission(companyID, jobID, userID string) error
	// CanManage reports whether the user may act on the job's candidates:
	// admins always, the author always, others via a granted permission.
	CanManage(companyID, jobID, userID string, role models.UserRole) (bool, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:      jobstore.NewInstance(db.DB),
		userStore:  userstore.NewInstance(db.DB),
		dispatcher: notification.Instance,
	}
}

type impl struct {
	store      jobstore.Provider
	userStore  userstore.Provider
	dispatcher notification.Provider
}

func (i impl) Create(companyID string, req jobapimodels.CreateJobRequest, authorID string) (jobapimodels.JobView, error) {
	if err := req.Validate(); err != nil {
		return jobapimodels.JobView{}, apperrors.Validation(err.Error())
	}
	rec := dbmodels.Job{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		Status:           dbmodels.JobStatusOpen,
		AuthorID:         authorID,
		TotalSteps:       req.TotalSteps,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	rec.ID = id
	return jobapimodels.JobConvert(rec), nil
}

func (i impl) GetByID(companyID, jobID string) (jobapimodels.JobView, error) {
	rec, err := i.store.GetByID(companyID, jobID)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	if rec == nil {
		return jobapimodels.JobView{}, apperrors.NotFound("job not found")
	}
	return jobapimodels.JobConvert(*rec), nil
}

func (i impl) List(companyID string) ([]jobapimodels.JobView, error) {
	list, err := i.store.List(companyID)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.JobView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.JobConvert(rec))
	}
	return result, nil
}

func (i impl) Close(companyID, jobID, actorID string, actorRole models.UserRole) (jobapimodels.JobView, error) {
	rec, err := i.store.GetByID(companyID, jobID)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	if rec == nil {
		return jobapimodels.JobView{}, apperrors.NotFound("job not found")
	}
	if !actorRole.IsAdmin() && rec.AuthorID != actorID {
		return jobapimodels.JobView{}, apperrors.Forbidden("only the author or an admin may close a job")
	}
	if rec.Status == dbmodels.JobStatusClosed {
		return jobapimodels.JobView{}, apperrors.Conflict("job is already closed")
	}
	err = i.store.Update(companyID, jobID, map[string]interface{}{"Status": dbmodels.JobStatusClosed})
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	rec.Status = dbmodels.JobStatusClosed
	return jobapimodels.JobConvert(*rec), nil
}

func (i impl) GrantPermission(companyID, jobID string, req jobapimodels.GrantPermissionRequest, grantedBy string) (GrantResult, error) {
	if err := req.Validate(); err != nil {
		return GrantResult{}, apperrors.Validation(err.Error())
	}
	job, err := i.store.GetByID(companyID, jobID)
	if err != nil {
		return GrantResult{}, err
	}
	if job == nil {
		return GrantResult{}, apperrors.NotFound("job not found")
	}
	user, err := i.userStore.GetByID(companyID, req.UserID)
	if err != nil {
		return GrantResult{}, err
	}
	if user == nil {
		return GrantResult{}, apperrors.NotFound("user not found")
	}
	existing, err := i.store.GetPermission(companyID, jobID, req.UserID)
	if err != nil {
		return GrantResult{}, err
	}
	if existing != nil {
		return GrantResult{}, apperrors.Conflict("user already has access to this job")
	}
	rec := dbmodels.JobPermission{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		JobID:            jobID,
		UserID:           req.UserID,
		GrantedBy:        grantedBy,
		Scopes:           req.Scopes,
	}
	id, err := i.store.GrantPermission(rec)
	if err != nil {
		return GrantResult{}, err
	}
	rec.ID = id

	var warnings []string
	result := i.dispatcher.Send(models.NotificationJobPermissionGranted, user.Email, notification.TemplateData{
		RecipientName: user.GetFullName(),
		JobTitle:      job.Title,
	})
	if !result.Success {
		warnings = append(warnings, "permission email not sent")
	}
	return GrantResult{Permission: jobapimodels.PermissionConvert(rec), Warnings: warnings}, nil
}

func (i impl) ListPermissions(companyID, jobID string) ([]jobapimodels.PermissionView, error) {
	list, err := i.store.ListPermissions(companyID, jobID)
	if err != nil {
		return nil, err
	}
	result := make([]jobapimodels.PermissionView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.PermissionConvert(rec))
	}
	return result, nil
}

func (i impl) RevokePermission(companyID, jobID, userID string) error {
	return i.store.RevokePermission(companyID, jobID, userID)
}

func (i impl) CanManage(companyID, jobID, userID string, role models.UserRole) (bool, error) {
	if role.IsAdmin() {
		return true, nil
	}
	job, err := i.store.GetByID(companyID, jobID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	if job.AuthorID == userID {
		return true, nil
	}
	perm, err := i.store.GetPermission(companyID, jobID, userID)
	if err != nil {
		return false, err
	}
	return perm != nil, nil
}
