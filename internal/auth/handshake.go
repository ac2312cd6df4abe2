package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

// Mode selects how the user confirms the identity-verification challenge.
type Mode string

// Verification modes. App mode takes a 10-digit kennitala, mobile mode a
// 7-digit phone number.
const (
	ModeApp    Mode = "app"
	ModeMobile Mode = "mobile"
)

// State is the handshake controller's lifecycle position.
type State string

// Handshake states.
const (
	StateIdle            State = "idle"
	StateChallengeIssued State = "challenge-issued"
	StatePolling         State = "polling"
	StateAuthenticated   State = "authenticated"
	StateCanceled        State = "canceled"
	StateTimedOut        State = "timed-out"
	StateErrored         State = "errored"
)

// Terminal handshake failures. The three cases carry distinct fixed
// messages so the user can tell a timeout from their own cancellation.
var (
	ErrAuthTimeout  = errors.New("Villa í auðkenningu. Tími rann út.")
	ErrAuthCanceled = errors.New("Notandi hætti við.")
	ErrAuthFailed   = errors.New("Villa í auðkenningu.")
	ErrStopped      = errors.New("handshake stopped")
	ErrBadKennitala = errors.New("Kennitala þarf að vera 10 tölustafir.")
	ErrBadPhone     = errors.New("Símanúmer þarf að vera 7 tölustafir.")
	errNoChallenge  = errors.New("no challenge in flight")
)

// DefaultPollInterval is the cadence of status checks while a challenge
// awaits out-of-band confirmation.
const DefaultPollInterval = 2 * time.Second

// Handshake drives one challenge/response identity verification: initiate
// a challenge, surface the control code, poll the status endpoint on a
// fixed cadence with one request in flight, and resolve to a terminal
// state no later than the challenge deadline.
type Handshake struct {
	apiBase      string
	sessionID    string
	httpClient   *http.Client
	pollInterval time.Duration
	challengeTTL time.Duration

	mu        sync.Mutex
	state     State
	mode      Mode
	challenge *model.Challenge
	user      *model.UserInfo

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHandshake creates a controller for the identity endpoints under
// `apiBase`. Unless a client is supplied, a cookie-jarred one is created
// so the backend's session cookie survives the initiate/poll round trips.
func NewHandshake(apiBase string, options ...func(*Handshake) error) (*Handshake, error) {
	h := &Handshake{
		apiBase:      apiBase,
		pollInterval: DefaultPollInterval,
		challengeTTL: model.DefaultChallengeTTL,
		state:        StateIdle,
		stop:         make(chan struct{}),
	}
	for _, option := range options {
		if err := option(h); err != nil {
			return nil, err
		}
	}
	if h.httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "creating cookie jar")
		}
		h.httpClient = &http.Client{Jar: jar}
	}
	return h, nil
}

// OptionHTTPClient sets the HTTP client, usually to share a cookie jar
// with the credentialed API client.
func OptionHTTPClient(client *http.Client) func(*Handshake) error {
	return func(h *Handshake) error {
		h.httpClient = client
		return nil
	}
}

// OptionSessionID sets the optional X-Session-ID header value sent
// alongside cookies.
func OptionSessionID(sessionID string) func(*Handshake) error {
	return func(h *Handshake) error {
		h.sessionID = sessionID
		return nil
	}
}

// OptionPollInterval overrides the status-check cadence.
func OptionPollInterval(interval time.Duration) func(*Handshake) error {
	return func(h *Handshake) error {
		if interval <= 0 {
			return errors.New("poll interval must be positive")
		}
		h.pollInterval = interval
		return nil
	}
}

// OptionChallengeTTL overrides the challenge deadline window.
func OptionChallengeTTL(ttl time.Duration) func(*Handshake) error {
	return func(h *Handshake) error {
		if ttl <= 0 {
			return errors.New("challenge TTL must be positive")
		}
		h.challengeTTL = ttl
		return nil
	}
}

// State returns the controller's current lifecycle position.
func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Challenge returns the in-flight challenge, nil when none is active.
func (h *Handshake) Challenge() *model.Challenge {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.challenge
}

// User returns the authenticated identity once the handshake succeeds.
func (h *Handshake) User() *model.UserInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.user
}

// HTTPClient exposes the cookie-jarred client so authenticated
// credentialed calls ride on the session the handshake established.
func (h *Handshake) HTTPClient() *http.Client {
	return h.httpClient
}

// WaitingMessage is the text shown while the user confirms out of band.
// The control code must match what their device displays.
func (h *Handshake) WaitingMessage() string {
	challenge := h.Challenge()
	if challenge == nil {
		return ""
	}
	return fmt.Sprintf("Beðið eftir auðkenningu.\n\n"+
		"Öryggistalan %s ætti að birtast á skjánum þínum (þessi tala er ekki PIN númerið).\n\n"+
		"Vinsamlegast samþykktu auðkenninguna aðeins ef þessi öryggistala er með.",
		challenge.ControlCode)
}

// Initiate submits the user's identifier and obtains a challenge. App mode
// requires a 10-digit kennitala, mobile mode a 7-digit phone number. A
// response missing the client token or control code fails the handshake
// before any polling starts.
func (h *Handshake) Initiate(ctx context.Context, mode Mode, subject string) (*model.Challenge, error) {
	digits := model.NormaliseDigits(subject)
	body := map[string]string{"auth_type": string(mode)}
	switch mode {
	case ModeApp:
		if len(digits) != 10 {
			return nil, ErrBadKennitala
		}
		body["kennitala"] = digits
	case ModeMobile:
		if len(digits) != 7 {
			return nil, ErrBadPhone
		}
		body["phone"] = digits
	default:
		return nil, errors.Errorf("unknown verification mode %q", mode)
	}
	if h.sessionID != "" {
		body["session_id"] = h.sessionID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling initiate request")
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, h.apiBase+"/api/dokobit_auth/initiate/", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "creating initiate request")
	}
	request.Header.Set("Content-Type", "application/json")
	h.decorate(request)

	response, err := h.httpClient.Do(request)
	if err != nil {
		h.fail()
		return nil, ErrAuthFailed
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		h.fail()
		return nil, ErrAuthFailed
	}

	var issued struct {
		ClientToken string `json:"client_token"`
		ControlCode string `json:"control_code"`
	}
	if err := util.DecodeJSON(response.Body, &issued); err != nil {
		h.fail()
		return nil, ErrAuthFailed
	}
	challenge, err := model.NewChallenge(issued.ClientToken, issued.ControlCode, h.challengeTTL)
	if err != nil {
		h.fail()
		return nil, ErrAuthFailed
	}

	h.mu.Lock()
	h.state = StateChallengeIssued
	h.mode = mode
	h.challenge = challenge
	h.mu.Unlock()
	return challenge, nil
}

// Await polls the status endpoint every poll interval until a terminal
// status, the challenge deadline, Stop, or context cancellation. Exactly
// one status request is in flight at a time; transient failures are
// retried on the same cadence. On `ok` the current user is fetched and
// becomes the result; an empty or malformed identity fails the handshake.
func (h *Handshake) Await(ctx context.Context) (*model.UserInfo, error) {
	h.mu.Lock()
	challenge := h.challenge
	mode := h.mode
	if challenge == nil {
		h.mu.Unlock()
		return nil, errNoChallenge
	}
	h.state = StatePolling
	h.mu.Unlock()

	for {
		if challenge.Expired(time.Now()) {
			h.terminate(StateTimedOut)
			return nil, ErrAuthTimeout
		}

		outcome, err := h.poll(ctx, mode, challenge.ClientToken)
		if err != nil {
			if ctx.Err() != nil {
				h.terminate(StateIdle)
				return nil, ctx.Err()
			}
			log.WithError(err).Debug("Transient verification poll failure")
			outcome = model.PollWaiting
		}

		switch outcome {
		case model.PollWaiting:
			select {
			case <-h.stop:
				h.terminate(StateIdle)
				return nil, ErrStopped
			case <-ctx.Done():
				h.terminate(StateIdle)
				return nil, ctx.Err()
			case <-time.After(h.pollInterval):
			}
		case model.PollCanceled:
			h.terminate(StateCanceled)
			return nil, ErrAuthCanceled
		case model.PollOK:
			user, err := h.fetchCurrentUser(ctx)
			if err != nil || user == nil {
				h.terminate(StateErrored)
				return nil, ErrAuthFailed
			}
			h.mu.Lock()
			h.state = StateAuthenticated
			h.challenge = nil
			h.user = user
			h.mu.Unlock()
			return user, nil
		default:
			h.terminate(StateErrored)
			return nil, ErrAuthFailed
		}
	}
}

// Stop prevents any further scheduled poll from firing, even one already
// queued. Safe to call more than once.
func (h *Handshake) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// poll performs one status check. An absent status counts as waiting,
// matching the backend's warm-up behavior.
func (h *Handshake) poll(ctx context.Context, mode Mode, clientToken string) (model.PollOutcome, error) {
	select {
	case <-h.stop:
		return "", ErrStopped
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	endpoint, err := url.Parse(h.apiBase + "/api/dokobit_auth/polling/")
	if err != nil {
		return "", errors.Wrap(err, "parsing polling endpoint")
	}
	query := endpoint.Query()
	query.Set("auth_type", string(mode))
	query.Set("client_token", clientToken)
	endpoint.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", errors.Wrap(err, "creating polling request")
	}
	h.decorate(request)

	response, err := h.httpClient.Do(request)
	if err != nil {
		return "", errors.Wrap(err, "polling verification status")
	}
	defer func() { _ = response.Body.Close() }()

	var status struct {
		Status string `json:"status"`
	}
	if err := util.DecodeJSON(response.Body, &status); err != nil {
		return "", errors.Wrap(err, "decoding verification status")
	}
	if status.Status == "" {
		return model.PollWaiting, nil
	}
	return model.PollOutcome(status.Status), nil
}

func (h *Handshake) fetchCurrentUser(ctx context.Context) (*model.UserInfo, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiBase+"/api/umbod/currentuser/", nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating current-user request")
	}
	h.decorate(request)
	response, err := h.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "fetching current user")
	}
	defer func() { _ = response.Body.Close() }()

	var raw json.RawMessage
	if err := util.DecodeJSON(response.Body, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty current-user response")
	}
	return model.UserInfoFromJSON(raw)
}

func (h *Handshake) decorate(request *http.Request) {
	if h.sessionID != "" {
		request.Header.Set("X-Session-ID", h.sessionID)
	}
}

func (h *Handshake) fail() {
	h.mu.Lock()
	h.state = StateErrored
	h.challenge = nil
	h.mu.Unlock()
}

// terminate clears the challenge so no stale client token can leak into a
// later attempt.
func (h *Handshake) terminate(state State) {
	h.mu.Lock()
	h.state = state
	h.challenge = nil
	h.mu.Unlock()
}
