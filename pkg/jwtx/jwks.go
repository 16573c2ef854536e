package jwtx

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// JWK represents a public key in JSON Web Key format (RFC 7517). We only
// read the RSA members; anything else the provider publishes is ignored.
type JWK struct {
	Kty string `json:"kty"`           // key type: "RSA", "EC", ...
	Use string `json:"use,omitempty"` // "sig" for signing keys
	Alg string `json:"alg,omitempty"` // "RS256" is the only one we accept
	Kid string `json:"kid"`           // key ID referenced from token headers

	// RSA stuff
	N string `json:"n,omitempty"` // modulus (base64url)
	E string `json:"e,omitempty"` // exponent (base64url)
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewRSAJWK builds a signing JWK for an RSA public key.
func NewRSAJWK(kid, alg string, pub *rsa.PublicKey) JWK {
	return JWK{
		Kty: "RSA",
		Use: "sig",
		Alg: alg,
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// Usable reports whether the entry is an RSA key tagged with the single
// algorithm the identity verifier accepts. Entries without an alg tag are
// not usable either.
func (j JWK) Usable() bool {
	return j.Kty == "RSA" && j.Alg == AlgRS256
}

// RSAPublicKey decodes the modulus/exponent pair into an RSA public key.
func (j JWK) RSAPublicKey() (*rsa.PublicKey, error) {
	nb, err := decodeSegment(j.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := decodeSegment(j.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nb)
	if n.Sign() == 0 {
		return nil, errors.New("empty modulus")
	}

	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > math.MaxInt32 {
		return nil, errors.New("exponent out of range")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// RSAKeys filters the set down to usable entries and builds a kid -> key map.
// Unusable entries are skipped; a malformed usable entry fails the whole set
// so a half-parsed key set never reaches the cache.
func (s JWKS) RSAKeys() (map[string]*rsa.PublicKey, error) {
	keys := make(map[string]*rsa.PublicKey, len(s.Keys))
	for _, j := range s.Keys {
		if !j.Usable() {
			continue
		}

		pub, err := j.RSAPublicKey()
		if err != nil {
			return nil, fmt.Errorf("%w: kid %q: %v", ErrMalformedJWK, j.Kid, err)
		}
		keys[j.Kid] = pub
	}
	return keys, nil
}

// ParseJWKS decodes a JWKS document and returns its usable RSA keys.
func ParseJWKS(body []byte) (map[string]*rsa.PublicKey, error) {
	var set JWKS
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJWK, err)
	}
	return set.RSAKeys()
}

// decodeSegment accepts base64url with or without trailing padding, some
// providers still pad their key material.
func decodeSegment(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("missing value")
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
