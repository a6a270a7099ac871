package constants

// ContextKeyUserID is the key under which the authenticated user's ID is
// stored in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "investor_session"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// Pagination bounds for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
