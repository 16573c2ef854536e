/*
Package authsdk is a Go client for the sessiond session service.

# Overview

sessiond turns a Google Sign-In ID token into a short-lived session token.
A session token is valid for one hour from issue; clients keep it alive by
"ticking" it, which returns a new token with a fresh hour. There is no
refresh token and no server-side revocation: a token nobody ticks simply
expires.

# SDKClient vs Session

  - SDKClient: one method per endpoint, no state
  - Session: holds the current token and ticks it before it runs out

Create an SDKClient and log in with the credential from Google Sign-In:

	client := authsdk.NewSDKClient("https://sessions.example.com")

	session, err := client.AuthenticateWithGoogle(ctx, credential)
	if errors.Is(err, authsdk.ErrUnauthorized) {
		// the ID token was rejected; ask the user to sign in again
	}

Use the Session for everything after that. Token renews as needed:

	token, err := session.Token(ctx)
	history, err := session.History(ctx, 20)
	err = session.Logout(ctx, "")

A token restored from storage can be wrapped too:

	session, err := client.NewSession(savedToken)

# Errors

Failed calls return *APIError. Compare with errors.Is against the
predefined values:

	ErrInvalidRequest   400  body failed validation
	ErrUnauthorized     401  credential or bearer token rejected
	ErrSessionRejected  403  tick refused, the session is over
	ErrRateLimited      429  slow down, see Retry-After
	ErrServerError      500  login could not be recorded

IsSessionRejected reports whether the user has to sign in again.

# Health

GetLiveness and GetReadiness call /livez and /readyz.
*/
package authsdk
