package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
)

// maxSuggestions caps the national-registry autosuggest answers.
const maxSuggestions = 8

// Minimum query lengths before a registry lookup goes out. The
// credentialed umboð variant accepts slightly shorter queries.
const (
	minNameQuery          = 3
	minKennitalaQuery     = 4
	minCredNameQuery      = 2
	minCredKennitalaQuery = 3
)

// TjodskraByName suggests registry persons by name prefix (bearer).
func (c *Client) TjodskraByName(ctx context.Context, name string) ([]*model.Person, error) {
	if len([]rune(name)) < minNameQuery {
		return nil, nil
	}
	query := url.Values{}
	query.Set("nafn", name)
	query.Set("max", strconv.Itoa(maxSuggestions))
	return c.lookupPersons(ctx, "/signet/transfer/getTjodskraByName", query, false)
}

// TjodskraByKennitala suggests registry persons by kennitala prefix
// (bearer).
func (c *Client) TjodskraByKennitala(ctx context.Context, kennitala string) ([]*model.Person, error) {
	digits := model.NormaliseKennitala(kennitala)
	if len(digits) < minKennitalaQuery {
		return nil, nil
	}
	query := url.Values{}
	query.Set("kennitala", digits)
	query.Set("max", strconv.Itoa(maxSuggestions))
	return c.lookupPersons(ctx, "/signet/transfer/getTjodskraByKennitala", query, false)
}

// UmbodTjodskraByName suggests registry persons by name on the
// cookie-credentialed umboð surface.
func (c *Client) UmbodTjodskraByName(ctx context.Context, name string) ([]*model.Person, error) {
	if len([]rune(name)) < minCredNameQuery {
		return nil, nil
	}
	query := url.Values{}
	query.Set("nafn", name)
	return c.lookupPersons(ctx, "/api/umbod/getTjodskraByName/", query, true)
}

// UmbodTjodskraByKennitala suggests registry persons by kennitala on the
// cookie-credentialed umboð surface.
func (c *Client) UmbodTjodskraByKennitala(ctx context.Context, kennitala string) ([]*model.Person, error) {
	digits := model.NormaliseKennitala(kennitala)
	if len(digits) < minCredKennitalaQuery {
		return nil, nil
	}
	query := url.Values{}
	query.Set("kennitala", digits)
	return c.lookupPersons(ctx, "/api/umbod/getTjodskraByKennitala/", query, true)
}

func (c *Client) lookupPersons(ctx context.Context, path string, query url.Values, credentialed bool) ([]*model.Person, error) {
	cacheKey := path + "?" + query.Encode()
	if cached, ok := c.registryCache.Get(cacheKey); ok {
		return cached.([]*model.Person), nil
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, query, &raw, credentialed); err != nil {
		return nil, err
	}
	persons := model.PersonsFromJSON(raw)
	c.registryCache.Add(cacheKey, persons)
	return persons, nil
}

// TelByKennitala looks a person's phone number up, squeezing a usable
// value out of the endpoint's sloppy payloads.
func (c *Client) TelByKennitala(ctx context.Context, kennitala string) (string, error) {
	return c.contactLookup(ctx, "/signet/transfer/TelByKennitala/", kennitala)
}

// EmailByKennitala looks a person's email address up.
func (c *Client) EmailByKennitala(ctx context.Context, kennitala string) (string, error) {
	return c.contactLookup(ctx, "/signet/transfer/EmailByKennitala/", kennitala)
}

// UpdateTel stores a person's phone number.
func (c *Client) UpdateTel(ctx context.Context, kennitala, tel string) error {
	return c.contactUpdate(ctx, "/signet/transfer/TelByKennitala", kennitala, "tel", tel)
}

// UpdateEmail stores a person's email address.
func (c *Client) UpdateEmail(ctx context.Context, kennitala, email string) error {
	return c.contactUpdate(ctx, "/signet/transfer/EmailByKennitala", kennitala, "email", email)
}

func (c *Client) contactLookup(ctx context.Context, path, kennitala string) (string, error) {
	digits := model.NormaliseKennitala(kennitala)
	if len(digits) != 10 {
		return "", errors.New("kennitala must be 10 digits")
	}
	query := url.Values{}
	query.Set("kennitala", digits)
	var raw interface{}
	if err := c.getJSON(ctx, path, query, &raw, false); err != nil {
		return "", err
	}
	return model.CleanContactValue(raw), nil
}

func (c *Client) contactUpdate(ctx context.Context, path, kennitala, field, value string) error {
	digits := model.NormaliseKennitala(kennitala)
	if len(digits) != 10 {
		return errors.New("kennitala must be 10 digits")
	}
	payload := map[string]string{
		"kennitala": digits,
		field:       model.CleanContactValue(value),
	}
	return c.postJSON(ctx, path, payload, nil, false)
}
