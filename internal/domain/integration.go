package domain

// Integration binds a third-party credential to an account key.
type Integration struct {
	AccountKey     string `json:"account_key"`
	BambooHRAPIKey string `json:"bamboo_hr_api_key"`
}

// IntegrationRequest is the payload accepted by POST /integrate.
type IntegrationRequest struct {
	AccountUUID    string `json:"account_uuid"`
	BambooHRAPIKey string `json:"bamboo_hr_api_key"`
}
