package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the session service. It covers the public
// endpoints and hands out a Session after login.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// RenewBefore is how long before expiry a Session ticks its token.
	// Default: 5 minutes
	RenewBefore time.Duration
}

// NewSDKClient creates a new session service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		RenewBefore: 5 * time.Minute,
	}
}
