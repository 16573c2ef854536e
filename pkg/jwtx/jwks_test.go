package jwtx_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestJWKRoundTrip(t *testing.T) {
	key := testRSAKey(t, "k1")
	j := jwtx.NewRSAJWK("k1", jwtx.AlgRS256, &key.PublicKey)

	require.True(t, j.Usable())
	require.Equal(t, "sig", j.Use)

	pub, err := j.RSAPublicKey()
	require.NoError(t, err)
	require.True(t, key.PublicKey.Equal(pub))
}

func TestJWKAcceptsPaddedSegments(t *testing.T) {
	key := testRSAKey(t, "k1")
	j := jwtx.NewRSAJWK("k1", jwtx.AlgRS256, &key.PublicKey)
	j.E += "=="

	pub, err := j.RSAPublicKey()
	require.NoError(t, err)
	require.Equal(t, 65537, pub.E)
}

func TestJWKRejectsBadMaterial(t *testing.T) {
	key := testRSAKey(t, "k1")
	good := jwtx.NewRSAJWK("k1", jwtx.AlgRS256, &key.PublicKey)

	tests := []struct {
		name   string
		mutate func(j *jwtx.JWK)
	}{
		{"missing modulus", func(j *jwtx.JWK) { j.N = "" }},
		{"missing exponent", func(j *jwtx.JWK) { j.E = "" }},
		{"modulus not base64url", func(j *jwtx.JWK) { j.N = "a+b/c" }},
		{"zero modulus", func(j *jwtx.JWK) { j.N = "AA" }},
		{"exponent of one", func(j *jwtx.JWK) { j.E = "AQ" }},
		{"huge exponent", func(j *jwtx.JWK) { j.E = "AQAAAAAA" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := good
			tt.mutate(&j)
			_, err := j.RSAPublicKey()
			require.Error(t, err)
		})
	}
}

func TestJWKUsable(t *testing.T) {
	tests := []struct {
		kty, alg string
		want     bool
	}{
		{"RSA", "RS256", true},
		{"RSA", "RS512", false},
		{"RSA", "", false},
		{"EC", "RS256", false},
		{"OKP", "EdDSA", false},
	}
	for _, tt := range tests {
		t.Run(tt.kty+"/"+tt.alg, func(t *testing.T) {
			require.Equal(t, tt.want, jwtx.JWK{Kty: tt.kty, Alg: tt.alg}.Usable())
		})
	}
}

func TestJWKSDecodesProviderDocument(t *testing.T) {
	key := testRSAKey(t, "k1")
	j := jwtx.NewRSAJWK("abc123", jwtx.AlgRS256, &key.PublicKey)

	doc := `{"keys":[
		{"kty":"RSA","use":"sig","alg":"RS256","kid":"abc123","n":"` + j.N + `","e":"AQAB"},
		{"kty":"EC","use":"sig","alg":"ES256","kid":"ec1","crv":"P-256","x":"x","y":"y"}
	]}`

	var set jwtx.JWKS
	require.NoError(t, json.NewDecoder(strings.NewReader(doc)).Decode(&set))

	keys, err := set.RSAKeys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.True(t, key.PublicKey.Equal(keys["abc123"]))
}

func TestParseJWKSRejectsGarbage(t *testing.T) {
	_, err := jwtx.ParseJWKS([]byte("<html>rate limited</html>"))
	require.ErrorIs(t, err, jwtx.ErrMalformedJWK)

	keys, err := jwtx.ParseJWKS([]byte(`{"keys":[]}`))
	require.NoError(t, err)
	require.Empty(t, keys)
}
