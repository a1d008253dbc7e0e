package integrationapimodels

import (
	dbmodels "intavia-backend/models/db"
	"time"
)

type IntegrationView struct {
	ID        string     `json:"id"`
	Provider  string     `json:"provider"`
	Scope     string     `json:"scope,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Connected bool       `json:"connected"`
}

func IntegrationConvert(rec dbmodels.Integration) IntegrationView {
	return IntegrationView{
		ID:        rec.ID,
		Provider:  rec.Provider,
		Scope:     rec.Scope,
		ExpiresAt: rec.ExpiresAt,
		Connected: rec.AccessToken != "",
	}
}

type ConnectRequest struct {
	// authorization code from the provider's consent redirect
	Code string `json:"code"`
}
