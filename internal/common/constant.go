package common

import "time"

// SessionCookieName is the cookie that carries the signed session credential.
const SessionCookieName = "token"

const (
	// SessionTTL is the validity window embedded in a session credential.
	SessionTTL = 5 * 24 * time.Hour

	// SessionCookieMaxAge is the client-side retention of the session cookie.
	// It is longer than SessionTTL on purpose, so holding the cookie says
	// nothing about whether the credential inside is still valid.
	SessionCookieMaxAge = 30 * 24 * time.Hour

	// PendingTokenTTL is how long a verification or reset token stays consumable.
	PendingTokenTTL = time.Hour
)
