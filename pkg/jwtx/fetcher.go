package jwtx

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/httpcc"
)

const (
	// GoogleCertsURL is where Google publishes the keys for its ID tokens.
	GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

	// DefaultKeysTTL is used when the key set response has no usable
	// Cache-Control max-age.
	DefaultKeysTTL = time.Hour

	// DefaultFetchTimeout bounds a single key set request.
	DefaultFetchTimeout = 10 * time.Second

	// 1MB is generous for a JWKS (Google's is well under 4KB)
	maxJWKSBodyBytes = 1 << 20
)

// KeyFetcher pulls the provider's JWKS over HTTP and installs the usable keys
// into a KeyCache. A failed fetch never touches the cache.
type KeyFetcher struct {
	URL         string
	Client      *http.Client
	Cache       *KeyCache
	FallbackTTL time.Duration
	Logger      *slog.Logger
}

// NewKeyFetcher wires a fetcher with the default fallback TTL. A nil client
// gets one with DefaultFetchTimeout.
func NewKeyFetcher(url string, client *http.Client, cache *KeyCache, logger *slog.Logger) *KeyFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyFetcher{
		URL:         url,
		Client:      client,
		Cache:       cache,
		FallbackTTL: DefaultKeysTTL,
		Logger:      logger,
	}
}

// Refresh fetches the key set and replaces the cache contents on success.
func (f *KeyFetcher) Refresh(ctx context.Context) error {
	keys, ttl, err := f.Fetch(ctx)
	if err != nil {
		f.Logger.Warn("jwks refresh failed", "url", f.URL, "err", err)
		return err
	}

	f.Cache.Replace(keys, ttl)
	f.Logger.Info("jwks refreshed", "url", f.URL, "keys", len(keys), "ttl", ttl)
	return nil
}

// Fetch performs the request and returns the usable keys with the TTL the
// response asked for, without touching the cache.
func (f *KeyFetcher) Fetch(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: create request: %v", ErrJWKSFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: status %d", ErrJWKSFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", ErrJWKSFetch, err)
	}

	keys, err := ParseJWKS(body)
	if err != nil {
		return nil, 0, err
	}

	ttl, ok := CacheMaxAge(resp.Header.Get("Cache-Control"))
	if !ok {
		ttl = f.FallbackTTL
	}

	return keys, ttl, nil
}

// CacheMaxAge extracts the max-age directive from a Cache-Control response
// header. max-age=0 is returned as-is (ok=true); an absent or unparseable
// max-age reports ok=false. Other directives are not looked at, so a
// malformed neighbour does not hide a well-formed max-age.
func CacheMaxAge(header string) (time.Duration, bool) {
	for part := range strings.SplitSeq(header, ",") {
		name, value, found := strings.Cut(part, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), httpcc.MaxAge) {
			continue
		}
		// httpcc indexes the first byte of the value
		if strings.TrimSpace(value) == "" {
			continue
		}

		dir, err := httpcc.ParseResponse(part)
		if err != nil {
			continue
		}
		if ttl, ok := maxAgeOf(dir); ok {
			return ttl, true
		}
	}
	return 0, false
}

func maxAgeOf(dir *httpcc.ResponseDirective) (time.Duration, bool) {
	seconds, ok := dir.MaxAge()
	if !ok || seconds > math.MaxInt64/uint64(time.Second) {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
