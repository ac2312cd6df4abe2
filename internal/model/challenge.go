package model

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultChallengeTTL is the wall-clock window an identity-verification
// challenge stays valid from issuance.
const DefaultChallengeTTL = 120 * time.Second

// Challenge represents one in-flight identity-verification attempt. The
// client token correlates polling calls to the challenge; the control
// code is shown to the user so a spoofed confirmation prompt can be
// recognised on the second device.
type Challenge struct {
	ClientToken string
	ControlCode string
	IssuedAt    time.Time
	Deadline    time.Time
}

// NewChallenge creates a challenge. Both fields the initiate endpoint
// returns are required.
func NewChallenge(clientToken, controlCode string, ttl time.Duration) (*Challenge, error) {
	var err error
	if clientToken == "" {
		err = multierr.Append(err, errors.New("missing client token"))
	}
	if controlCode == "" {
		err = multierr.Append(err, errors.New("missing control code"))
	}
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	now := time.Now()
	return &Challenge{
		ClientToken: clientToken,
		ControlCode: controlCode,
		IssuedAt:    now,
		Deadline:    now.Add(ttl),
	}, nil
}

// Expired reports whether the challenge deadline has passed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.Deadline)
}

// PollOutcome is the tagged result of one status check.
type PollOutcome string

// Statuses returned by the polling endpoint. Anything else is treated
// as a terminal failure.
const (
	PollWaiting  PollOutcome = "waiting"
	PollOK       PollOutcome = "ok"
	PollCanceled PollOutcome = "canceled"
)
