package integration

import (
	"context"
	"time"

	"intavia-backend/db"
	integrationstore "intavia-backend/lib/integration/store"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// Token is the usable credential handed to calendar callers.
type Token struct {
	AccessToken string
	ExpiresAt   *time.Time
}

type Provider interface {
	// GetValidAccessToken returns a non-expired token for the user's google
	// integration, refreshing it first when needed. A nil token means the
	// integration is unusable and the caller should proceed without
	// calendar sync.
	GetValidAccessToken(ctx context.Context, companyID, userID string) *Token
	Connect(ctx context.Context, companyID, userID, code string) error
	Disconnect(companyID, userID string) error
	Get(companyID, userID string) (*dbmodels.Integration, error)
}

// OAuthExchanger is the slice of the provider's OAuth surface the refresher
// needs; the production implementation sits on golang.org/x/oauth2.
type OAuthExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

var Instance Provider

func NewHandler(clientID, clientSecret, redirectURL string) {
	Instance = &impl{
		store: integrationstore.NewInstance(db.DB),
		oauth: &googleExchanger{
			conf: &oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURL,
				Scopes:       []string{calendar.CalendarEventsScope},
				Endpoint:     google.Endpoint,
			},
		},
	}
}

type impl struct {
	store integrationstore.Provider
	oauth OAuthExchanger
}

func (i impl) GetValidAccessToken(ctx context.Context, companyID, userID string) *Token {
	logger := log.
		WithField("company_id", companyID).
		WithField("user_id", userID)
	rec, err := i.store.GetByUser(companyID, userID, dbmodels.IntegrationProviderGoogle)
	if err != nil {
		logger.WithError(err).Error("integration lookup failed")
		return nil
	}
	if rec == nil {
		return nil
	}
	if !rec.IsExpired(time.Now()) {
		// still valid, no provider call
		return &Token{AccessToken: rec.AccessToken, ExpiresAt: rec.ExpiresAt}
	}
	if rec.RefreshToken == "" {
		logger.Warn("integration token expired and no refresh token stored")
		return nil
	}
	refreshCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	refreshed, err := i.oauth.Refresh(refreshCtx, rec.RefreshToken)
	if err != nil {
		logger.WithError(err).Error("integration token refresh failed")
		return nil
	}
	var expiresAt *time.Time
	if !refreshed.Expiry.IsZero() {
		expiry := refreshed.Expiry
		expiresAt = &expiry
	}
	// the single write of this call
	err = i.store.UpdateToken(rec.ID, refreshed.AccessToken, expiresAt)
	if err != nil {
		logger.WithError(err).Error("refreshed token persist failed")
		return nil
	}
	return &Token{AccessToken: refreshed.AccessToken, ExpiresAt: expiresAt}
}

func (i impl) Connect(ctx context.Context, companyID, userID, code string) error {
	exchangeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	token, err := i.oauth.Exchange(exchangeCtx, code)
	if err != nil {
		return err
	}
	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}
	rec := dbmodels.Integration{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		UserID:           userID,
		Provider:         dbmodels.IntegrationProviderGoogle,
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		ExpiresAt:        expiresAt,
		Scope:            calendar.CalendarEventsScope,
	}
	_, err = i.store.Save(rec)
	return err
}

func (i impl) Disconnect(companyID, userID string) error {
	return i.store.Delete(companyID, userID, dbmodels.IntegrationProviderGoogle)
}

func (i impl) Get(companyID, userID string) (*dbmodels.Integration, error) {
	return i.store.GetByUser(companyID, userID, dbmodels.IntegrationProviderGoogle)
}

type googleExchanger struct {
	conf *oauth2.Config
}

func (g *googleExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.conf.Exchange(ctx, code)
}

func (g *googleExchanger) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := g.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return source.Token()
}
