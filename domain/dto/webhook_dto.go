package dto

// WebhookRequest is the body Cafe24 posts on app lifecycle changes.
type WebhookRequest struct {
	MallID    string `json:"mall_id" binding:"required"`
	ShopNo    int    `json:"shop_no"`
	Version   string `json:"version"`
	EventCode string `json:"event_code"`
}

type InstallResult struct {
	MallID           string `json:"mall_id"`
	AutoInstallation bool   `json:"auto_installation"`
	Error            string `json:"error,omitempty"`
	JSScriptNo       string `json:"js_script_no,omitempty"`
	CSSScriptNo      string `json:"css_script_no,omitempty"`
}
