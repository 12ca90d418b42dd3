// Package common contains shared constants and sentinel errors used across
// NoteKeeper components.
package common

const (
	// AuthorizationHeaderName carries the bearer session token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix of AuthorizationHeaderName values.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"

	// MinPasswordLength applies to signup, reset and change of password.
	MinPasswordLength = 6

	// DefaultCategory is assigned to notes created without a category.
	DefaultCategory = "General"
)
