package auth

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skjal/gatt/internal/model"
)

// ErrNoProvider is returned when no identity provider has been configured.
var ErrNoProvider = errors.New("no identity provider configured")

// Listener is notified on every session change. A nil session means
// logged out.
type Listener func(*model.Session)

type listenerEntry struct {
	id int
	fn Listener
}

// Service is the process-wide session holder. It wraps the single active
// Provider, exposes the current token and user, and fans session changes
// out to subscribers in registration order.
type Service struct {
	mu        sync.Mutex
	provider  Provider
	session   *model.Session
	listeners []listenerEntry
	nextID    int
}

// NewService creates a session service. The provider may be nil; Login
// and Logout then fail with ErrNoProvider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// UseProvider swaps the active provider. Any session held for the previous
// provider is dropped and subscribers are told.
func (s *Service) UseProvider(provider Provider) {
	s.mu.Lock()
	s.provider = provider
	hadSession := s.session != nil
	s.session = nil
	s.mu.Unlock()
	if hadSession {
		s.notify(nil)
	}
}

// Login establishes a session through the active provider and notifies
// subscribers.
func (s *Service) Login(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	provider := s.provider
	s.mu.Unlock()
	if provider == nil {
		return nil, ErrNoProvider
	}
	session, err := provider.Login(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	log.WithField("user", session.User.Name).Info("Session established")
	s.notify(session)
	return session, nil
}

// Logout invalidates the current session and notifies subscribers. The
// local session is dropped even when the provider-side logout fails.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	provider := s.provider
	hadSession := s.session != nil
	s.session = nil
	s.mu.Unlock()
	if provider == nil {
		return ErrNoProvider
	}
	err := provider.Logout(ctx)
	if hadSession {
		s.notify(nil)
	}
	return err
}

// Token returns the bearer token for every authenticated request, "" when
// no session is active. Providers that renew silently may hit the network.
func (s *Service) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	provider := s.provider
	s.mu.Unlock()
	if provider == nil {
		return "", nil
	}
	return provider.Token(ctx)
}

// User returns the identity of the active session, nil when logged out.
func (s *Service) User() *model.UserInfo {
	s.mu.Lock()
	provider := s.provider
	s.mu.Unlock()
	if provider == nil {
		return nil
	}
	return provider.User()
}

// Session returns the currently held session, nil when logged out.
func (s *Service) Session() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe registers a listener for session changes. The returned func
// unsubscribes just that listener; unsubscribes are independent of each
// other and of registration order.
func (s *Service) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for n, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:n], s.listeners[n+1:]...)
				return
			}
		}
	}
}

// notify invokes listeners in registration order, outside the lock so a
// listener may subscribe or unsubscribe reentrantly.
func (s *Service) notify(session *model.Session) {
	s.mu.Lock()
	entries := make([]listenerEntry, len(s.listeners))
	copy(entries, s.listeners)
	s.mu.Unlock()
	for _, entry := range entries {
		entry.fn(session)
	}
}
