package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/util"
)

const registryCacheSize = 512

// TokenSource supplies the bearer token for authenticated requests.
// auth.Service satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the portal backend. Bearer requests go through Do and
// carry an Authorization header fed by the token source; the identity and
// umboð endpoints instead ride on a cookie-jarred credentialed client.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	credClient    *http.Client
	tokens        TokenSource
	sessionID     string
	staffURL      string
	registryCache *lru.Cache
}

// NewClient creates a backend client rooted at `baseURL`.
func NewClient(baseURL string, options ...func(*Client) error) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	cache, err := lru.New(registryCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating registry cache")
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    http.DefaultClient,
		staffURL:      DefaultStaffDirectoryURL,
		registryCache: cache,
	}
	for _, option := range options {
		if err := option(client); err != nil {
			return nil, err
		}
	}
	if client.credClient == nil {
		client.credClient = client.httpClient
	}
	return client, nil
}

// OptionTokenSource sets the supplier of bearer tokens.
func OptionTokenSource(tokens TokenSource) func(*Client) error {
	return func(c *Client) error {
		c.tokens = tokens
		return nil
	}
}

// OptionHTTPClient sets the client for bearer-token requests.
func OptionHTTPClient(httpClient *http.Client) func(*Client) error {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// OptionCredentialedClient sets the cookie-jarred client for the identity
// and umboð endpoints, usually shared with the dokobit provider.
func OptionCredentialedClient(httpClient *http.Client) func(*Client) error {
	return func(c *Client) error {
		c.credClient = httpClient
		return nil
	}
}

// OptionStaffDirectoryURL overrides the absolute staff-directory URL
// used by StaffUsers.
func OptionStaffDirectoryURL(staffURL string) func(*Client) error {
	return func(c *Client) error {
		c.staffURL = staffURL
		return nil
	}
}

// OptionSessionID sets the X-Session-ID header sent on credentialed
// requests.
func OptionSessionID(sessionID string) func(*Client) error {
	return func(c *Client) error {
		c.sessionID = sessionID
		return nil
	}
}

// Do performs a bearer-authenticated request and maps failure statuses to
// the typed errors. No token at call time fails before any network I/O.
func (c *Client) Do(ctx context.Context, request *http.Request) (*http.Response, error) {
	if c.tokens == nil {
		return nil, &NotAuthenticatedError{}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &NotAuthenticatedError{}
	}
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := c.httpClient.Do(request.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "performing request")
	}
	return c.checkStatus(response)
}

// DoCredentialed performs a cookie-credentialed request with the optional
// X-Session-ID header and the same status mapping as Do.
func (c *Client) DoCredentialed(ctx context.Context, request *http.Request) (*http.Response, error) {
	if c.sessionID != "" {
		request.Header.Set("X-Session-ID", c.sessionID)
	}
	response, err := c.credClient.Do(request.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "performing request")
	}
	return c.checkStatus(response)
}

func (c *Client) checkStatus(response *http.Response) (*http.Response, error) {
	switch {
	case response.StatusCode == http.StatusUnauthorized:
		_ = response.Body.Close()
		return nil, &NotAuthenticatedError{}
	case response.StatusCode == http.StatusForbidden:
		_ = response.Body.Close()
		return nil, &NotAuthorizedError{}
	case response.StatusCode >= 500:
		body, _ := io.ReadAll(response.Body)
		_ = response.Body.Close()
		return nil, NewServerError(response.StatusCode, strings.TrimSpace(string(body)))
	case response.StatusCode < 200 || response.StatusCode > 299:
		body, _ := io.ReadAll(response.Body)
		_ = response.Body.Close()
		return nil, errors.Errorf("request failed (%d): %s", response.StatusCode, strings.TrimSpace(string(body)))
	}
	return response, nil
}

// endpoint resolves a path against the base URL. Absolute URLs, like the
// download links the backend hands out, pass through untouched.
func (c *Client) endpoint(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}, credentialed bool) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	request.Header.Set("Accept", "application/json")
	response, err := c.perform(ctx, request, credentialed)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	return util.DecodeJSON(response.Body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}, credentialed bool) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out, credentialed)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload interface{}, out interface{}, credentialed bool) error {
	var reader io.Reader = http.NoBody
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), reader)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := c.perform(ctx, request, credentialed)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	if out == nil {
		return nil
	}
	return util.DecodeJSON(response.Body, out)
}

// postMultipart submits a multipart form with one file part plus plain
// fields, decoding any JSON answer into `out`.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	if file != nil {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			return errors.Wrap(err, "creating file part")
		}
		if _, err := io.Copy(part, file); err != nil {
			return errors.Wrap(err, "writing file part")
		}
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return errors.Wrap(err, "writing form field")
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buffer)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	response, err := c.perform(ctx, request, false)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	if out == nil {
		return nil
	}
	return util.DecodeJSON(response.Body, out)
}

func (c *Client) perform(ctx context.Context, request *http.Request, credentialed bool) (*http.Response, error) {
	if credentialed {
		return c.DoCredentialed(ctx, request)
	}
	return c.Do(ctx, request)
}
