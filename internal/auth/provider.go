package auth

import (
	"context"

	"github.com/skjal/gatt/internal/model"
)

// Provider names, selected through configuration.
const (
	ProviderEntra   = "entra"
	ProviderDokobit = "dokobit"
)

// Provider acquires and owns at most one session against an identity
// backend. Implementations decide how a login is performed; the Service
// owns lifecycle and fan-out.
type Provider interface {
	// Login establishes a session.
	Login(ctx context.Context) (*model.Session, error)

	// Logout invalidates the current session.
	Logout(ctx context.Context) error

	// Token returns the bearer token for the current session, renewing
	// it first if the provider supports silent renewal. Returns "" when
	// unauthenticated. Cookie-credentialed providers always return "".
	Token(ctx context.Context) (string, error)

	// User returns the identity bound to the current session, nil when
	// unauthenticated.
	User() *model.UserInfo
}
