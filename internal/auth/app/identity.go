package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
)

// Identity bundles the pieces that verify Google ID tokens.
type Identity struct {
	Keys     *jwtx.KeyCache
	Fetcher  *jwtx.KeyFetcher
	Verifier *jwtx.IdentityVerifier
}

// InitIdentity wires the key cache, fetcher and verifier. The cache starts
// empty; Warm fills it ahead of the first login.
func InitIdentity(cfg Config, logger *slog.Logger) (*Identity, error) {
	keys := jwtx.NewKeyCache()
	fetcher := jwtx.NewKeyFetcher(
		cfg.GoogleCertsURL,
		&http.Client{Timeout: cfg.GoogleCertsTimeout},
		keys,
		logger,
	)

	verifier, err := jwtx.NewIdentityVerifier(jwtx.IdentityVerifierOptions{
		Keys:      keys,
		Refresher: fetcher,
		Audience:  cfg.GoogleClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}

	logger.Info("identity verifier configured",
		"certs_url", cfg.GoogleCertsURL,
		"issuers", jwtx.GoogleIssuers,
	)

	return &Identity{Keys: keys, Fetcher: fetcher, Verifier: verifier}, nil
}

// Warm fetches the signing keys once. Failure is only logged: the verifier
// retries on the first login that needs a key.
func (id *Identity) Warm(ctx context.Context, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := id.Fetcher.Refresh(ctx); err != nil {
		id.Fetcher.Logger.Warn("initial jwks fetch failed, will retry on demand", "err", err)
	}
}
