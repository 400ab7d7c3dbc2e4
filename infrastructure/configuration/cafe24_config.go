package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultAPIVersion = "2025-06-01"

var DefaultScopes = []string{
	"mall.read_product",
	"mall.write_product",
	"mall.read_application",
	"mall.write_application",
	"mall.read_store",
	"mall.write_store",
}

// Cafe24 holds the app credentials registered in the Cafe24 developer center.
type Cafe24 struct {
	MallID        string   `json:"mallId"`
	ClientID      string   `json:"clientId"`
	ClientSecret  string   `json:"clientSecret"`
	RedirectURI   string   `json:"redirectURI"`
	APIVersion    string   `json:"apiVersion"`
	Scopes        []string `json:"scopes"`
	ScriptBaseURL string   `json:"scriptBaseURL"`
	// APIBaseURL overrides https://{mall}.cafe24api.com/api/v2, e.g. for a sandbox.
	APIBaseURL string `json:"apiBaseURL"`
}

func (c Cafe24) BaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.cafe24api.com/api/v2", c.MallID)
}

func (c Cafe24) AdminURL() string { return c.BaseURL() + "/admin" }

func (c Cafe24) OAuthURL() string { return c.BaseURL() + "/oauth" }

func (c Cafe24) AuthorizeURL() string { return c.OAuthURL() + "/authorize" }

func (c Cafe24) TokenURL() string { return c.OAuthURL() + "/token" }

func (c Cafe24) ScriptURL(file string) string {
	return strings.TrimRight(c.ScriptBaseURL, "/") + "/" + file
}

func (r Review) TTL() time.Duration { return time.Duration(r.CacheTTL) * time.Second }

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getIntValue(configValue int, envKey string, defaultValue int) int {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if configValue > 0 {
		return configValue
	}
	return defaultValue
}
