package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

// DefaultExpiryLeeway is how long before expiry a cached token is
// considered stale and re-acquired silently.
const DefaultExpiryLeeway = 30 * time.Second

// EntraProvider acquires bearer tokens from an OAuth2 authority with the
// client-credentials grant. Tokens are cached and re-acquired silently
// when they near expiry, so Token may hit the network.
type EntraProvider struct {
	authority    string
	clientID     string
	clientSecret string
	scope        string
	httpClient   *http.Client
	leeway       time.Duration

	mu      sync.Mutex
	session *model.Session
}

// NewEntraProvider creates a provider. `authority` is the token endpoint
// of the tenant.
func NewEntraProvider(authority, clientID, clientSecret, scope string, options ...func(*EntraProvider) error) (*EntraProvider, error) {
	if authority == "" || clientID == "" || clientSecret == "" {
		return nil, errors.New("authority, client id and client secret are required")
	}
	p := &EntraProvider{
		authority:    authority,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		httpClient:   http.DefaultClient,
		leeway:       DefaultExpiryLeeway,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// OptionEntraHTTPClient sets the HTTP client used for token requests.
func OptionEntraHTTPClient(client *http.Client) func(*EntraProvider) error {
	return func(p *EntraProvider) error {
		p.httpClient = client
		return nil
	}
}

// OptionExpiryLeeway overrides the stale-token window.
func OptionExpiryLeeway(leeway time.Duration) func(*EntraProvider) error {
	return func(p *EntraProvider) error {
		if leeway < 0 {
			return errors.New("leeway cannot be negative")
		}
		p.leeway = leeway
		return nil
	}
}

// Login acquires a token and establishes the session.
func (p *EntraProvider) Login(ctx context.Context) (*model.Session, error) {
	session, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	return session, nil
}

// Logout drops the cached token. Client-credential grants have nothing to
// revoke server side.
func (p *EntraProvider) Logout(_ context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	return nil
}

// Token returns the cached bearer token, silently re-acquiring it when it
// nears expiry. Returns "" when no login has happened.
func (p *EntraProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()
	if session == nil {
		return "", nil
	}
	if !session.Expired(time.Now(), p.leeway) {
		return session.Token, nil
	}
	log.WithField("expires_at", session.ExpiresAt).Debug("Re-acquiring token near expiry")
	renewed, err := p.acquire(ctx)
	if err != nil {
		return "", errors.Wrap(err, "renewing token")
	}
	p.mu.Lock()
	p.session = renewed
	p.mu.Unlock()
	return renewed.Token, nil
}

// User returns the identity read from the token claims, nil before login.
func (p *EntraProvider) User() *model.UserInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	user := p.session.User
	return &user
}

func (p *EntraProvider) acquire(ctx context.Context) (*model.Session, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	if p.scope != "" {
		form.Set("scope", p.scope)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authority, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "creating token request")
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := p.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "requesting token")
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("token endpoint answered %d", response.StatusCode)
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := util.DecodeJSON(response.Body, &grant); err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, errors.New("token endpoint answered without access_token")
	}

	user, expiresAt := inspectToken(grant.AccessToken)
	if expiresAt.IsZero() && grant.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	}
	if user.Name == "" && user.Email == "" && user.ID == "" {
		user.ID = p.clientID
	}
	return model.NewSession(grant.AccessToken, user, expiresAt)
}

// inspectToken reads identity and expiry claims without verifying the
// signature. Verification is the resource server's job; the client only
// needs to know when to renew.
func inspectToken(token string) (model.UserInfo, time.Time) {
	var user model.UserInfo
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return user, time.Time{}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return user, time.Time{}
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if upn, ok := claims["preferred_username"].(string); ok {
		user.Email = upn
	} else if upn, ok := claims["upn"].(string); ok {
		user.Email = upn
	}
	if oid, ok := claims["oid"].(string); ok {
		user.ID = oid
	}
	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return user, expiresAt
}
