package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// UserInfo is the minimal identity attached to a session.
type UserInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	ID    string `json:"id,omitempty"`
}

// UserInfoFromJSON decodes a current-user payload. The endpoint answers
// `{}` for unauthenticated callers, in which case nil is returned. Field
// names vary between backends (nafn/name, kennitala/ssn/id).
func UserInfoFromJSON(raw json.RawMessage) (*UserInfo, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshalling current user")
	}
	if len(m) == 0 {
		return nil, nil
	}
	var entry struct {
		Nafn      string `mapstructure:"nafn"`
		Name      string `mapstructure:"name"`
		Kennitala string `mapstructure:"kennitala"`
		SSN       string `mapstructure:"ssn"`
		ID        string `mapstructure:"id"`
		Email     string `mapstructure:"email"`
	}
	if err := mapstructure.WeakDecode(m, &entry); err != nil {
		return nil, errors.Wrap(err, "decoding current user")
	}
	user := &UserInfo{
		Name:  strings.TrimSpace(entry.Nafn),
		Email: strings.TrimSpace(entry.Email),
		ID:    NormaliseKennitala(entry.Kennitala),
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(entry.Name)
	}
	if user.ID == "" {
		user.ID = NormaliseKennitala(entry.SSN)
	}
	if user.ID == "" {
		user.ID = strings.TrimSpace(entry.ID)
	}
	if user.Name == "" && user.ID == "" {
		return nil, errors.New("current user payload carries no identity")
	}
	return user, nil
}

// Session holds one authenticated principal: a bearer token plus minimal
// identity. At most one session is active per client process.
type Session struct {
	ID        string
	Token     string
	User      UserInfo
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a session for an issued token.
func NewSession(token string, user UserInfo, expiresAt time.Time) (*Session, error) {
	var err error
	switch {
	case token == "":
		err = multierr.Append(err, errors.New("invalid token"))
	case user.Name == "" && user.ID == "" && user.Email == "":
		err = multierr.Append(err, errors.New("invalid user"))
	}
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.New().String(),
		Token:     token,
		User:      user,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// Expired reports whether the session's token has passed its expiry,
// minus `leeway` to avoid presenting a token about to lapse.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(s.ExpiresAt)
}
