package domain

// Account is one registered tenant/realm pair and the API key issued to it.
type Account struct {
	TenantID string `json:"tenant_id"`
	RealmID  string `json:"realm_id"`
	APIKey   string `json:"api_key"`
}

// RegistrationRequest is the payload accepted by POST /register.
type RegistrationRequest struct {
	TenantID string `json:"tenant_id" validate:"tenantrealm"`
	RealmID  string `json:"realm_id" validate:"tenantrealm"`
}
