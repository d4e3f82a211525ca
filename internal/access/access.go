// Package access provides the admin authorization check. The booking intake
// service is deliberately ignorant of authentication; only the HTTP layer
// consults an Authorizer.
package access

import "github.com/rs/zerolog"

// Authorizer answers capability questions for a caller-supplied credential.
type Authorizer interface {
	// CanListAllBookings reports whether the token grants the full,
	// unfiltered booking listing (and its export).
	CanListAllBookings(token string) bool
}

// StaticToken authorizes by exact string equality against one configured
// shared secret.
type StaticToken struct {
	token  string
	logger zerolog.Logger
}

func NewStaticToken(token string, logger zerolog.Logger) *StaticToken {
	a := &StaticToken{
		token:  token,
		logger: logger.With().Str("component", "access").Logger(),
	}
	if token == "" {
		a.logger.Warn().Msg("admin token is empty; admin endpoints will deny every request")
	}
	return a
}

func (a *StaticToken) CanListAllBookings(token string) bool {
	// An empty configured secret never matches: no token means no access.
	return a.token != "" && token == a.token
}
