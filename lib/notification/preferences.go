package notification

import (
	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	preferencestore "intavia-backend/lib/notification/preference-store"
	notificationapimodels "intavia-backend/models/api/notification"
	dbmodels "intavia-backend/models/db"
)

type PreferencesProvider interface {
	// Get returns the stored matrix, or the default-on preference when the
	// user never saved one.
	Get(userID string) (notificationapimodels.PreferenceView, error)
	Save(companyID, userID string, req notificationapimodels.SavePreferenceRequest) (notificationapimodels.PreferenceView, error)
}

var Preferences PreferencesProvider

func NewPreferencesHandler() {
	Preferences = &preferencesImpl{
		store: preferencestore.NewInstance(db.DB),
	}
}

type preferencesImpl struct {
	store preferencestore.Provider
}

func (i preferencesImpl) Get(userID string) (notificationapimodels.PreferenceView, error) {
	rec, err := i.store.GetByUser(userID)
	if err != nil {
		return notificationapimodels.PreferenceView{}, err
	}
	if rec == nil {
		return notificationapimodels.PreferenceView{DisabledCategories: []string{}}, nil
	}
	return notificationapimodels.PreferenceConvert(*rec), nil
}

func (i preferencesImpl) Save(companyID, userID string, req notificationapimodels.SavePreferenceRequest) (notificationapimodels.PreferenceView, error) {
	if err := req.Validate(); err != nil {
		return notificationapimodels.PreferenceView{}, apperrors.Validation(err.Error())
	}
	rec := dbmodels.NotificationPreference{
		BaseCompanyModel:   dbmodels.BaseCompanyModel{CompanyID: companyID},
		UserID:             userID,
		DisabledCategories: req.DisabledCategories,
		QuietHoursStart:    req.QuietHoursStart,
		QuietHoursEnd:      req.QuietHoursEnd,
		TimezoneID:         req.TimezoneID,
	}
	if _, err := i.store.Save(rec); err != nil {
		return notificationapimodels.PreferenceView{}, err
	}
	return notificationapimodels.PreferenceConvert(rec), nil
}
