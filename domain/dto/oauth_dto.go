package dto

// ConnectRequest starts an OAuth linking flow. AppVariant may be empty to
// use the first configured app.
type ConnectRequest struct {
	AppVariant string `json:"app_variant"`
}

// ConnectResponse carries the authorization URL the frontend redirects to.
type ConnectResponse struct {
	AuthURL        string `json:"auth_url"`
	State          string `json:"state"`
	AppVariant     string `json:"app_variant"`
	AppDisplayName string `json:"app_display_name"`
}

// CallbackRequest is accepted as either query params (GET) or a JSON body
// (POST) on the OAuth callback.
type CallbackRequest struct {
	Code  string `json:"code" form:"code"`
	State string `json:"state" form:"state"`
}

// AppInfo describes a registered OAuth app variant for the frontend picker.
// Client secrets never leave the server.
type AppInfo struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Configured  bool   `json:"configured"`
}
