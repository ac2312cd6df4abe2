package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
)

// DokobitProvider authenticates through the out-of-band verification
// handshake. The resulting session rides on the backend's session cookie,
// so Token always returns "" and credentialed requests must share this
// provider's HTTP client.
type DokobitProvider struct {
	apiBase     string
	mode        Mode
	subject     string
	onChallenge func(*model.Challenge)
	handshake   *Handshake

	mu      sync.Mutex
	session *model.Session
}

// NewDokobitProvider creates a provider for the identity endpoints under
// `apiBase`. `subject` is a kennitala in app mode or a phone number in
// mobile mode.
func NewDokobitProvider(apiBase string, mode Mode, subject string, options ...func(*DokobitProvider) error) (*DokobitProvider, error) {
	p := &DokobitProvider{
		apiBase: apiBase,
		mode:    mode,
		subject: subject,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	if p.handshake == nil {
		handshake, err := NewHandshake(apiBase)
		if err != nil {
			return nil, err
		}
		p.handshake = handshake
	}
	return p, nil
}

// OptionChallengeCallback sets the func invoked with the issued challenge
// so the control code can be shown to the user before polling starts.
func OptionChallengeCallback(fn func(*model.Challenge)) func(*DokobitProvider) error {
	return func(p *DokobitProvider) error {
		p.onChallenge = fn
		return nil
	}
}

// OptionHandshake injects a preconfigured handshake controller.
func OptionHandshake(handshake *Handshake) func(*DokobitProvider) error {
	return func(p *DokobitProvider) error {
		p.handshake = handshake
		return nil
	}
}

// Login runs the full handshake: initiate, surface the control code, and
// poll until the user confirms on their device.
func (p *DokobitProvider) Login(ctx context.Context) (*model.Session, error) {
	challenge, err := p.handshake.Initiate(ctx, p.mode, p.subject)
	if err != nil {
		return nil, err
	}
	if p.onChallenge != nil {
		p.onChallenge(challenge)
	}
	user, err := p.handshake.Await(ctx)
	if err != nil {
		return nil, err
	}
	session := &model.Session{
		ID:        uuid.New().String(),
		User:      *user,
		CreatedAt: time.Now(),
	}
	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	return session, nil
}

// Logout tears the backend session down and drops the local one.
func (p *DokobitProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/api/umbod/signout/", nil)
	if err != nil {
		return errors.Wrap(err, "creating signout request")
	}
	response, err := p.handshake.HTTPClient().Do(request)
	if err != nil {
		return errors.Wrap(err, "signing out")
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return errors.Errorf("signout failed with status %d", response.StatusCode)
	}
	return nil
}

// Token returns "". The session is carried by cookies, not bearer tokens.
func (p *DokobitProvider) Token(_ context.Context) (string, error) {
	return "", nil
}

// User returns the verified identity, nil before login.
func (p *DokobitProvider) User() *model.UserInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	user := p.session.User
	return &user
}

// HTTPClient returns the cookie-jarred client carrying the backend
// session. Credentialed API calls must use it.
func (p *DokobitProvider) HTTPClient() *http.Client {
	return p.handshake.HTTPClient()
}

// SessionID returns the id of the active session, "" before login.
func (p *DokobitProvider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return ""
	}
	return p.session.ID
}
