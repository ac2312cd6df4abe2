package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// TallyForm is one entry of the survey-form catalogue.
type TallyForm struct {
	Name       string `json:"name"`
	TallyID    string `json:"tally_id"`
	Submission *int64 `json:"submission"`
	FormURL    string `json:"form_url"`
	ForOther   bool   `json:"for_other"`
}

// FormRequest is one row of the survey-request admin listing: a form
// assigned to a client, optionally bounded by a validity window.
type FormRequest struct {
	ID            int64
	Name          string
	FormName      string
	TallyID       string
	Submission    *int64
	RequesterText string
	ValidFrom     *time.Time
	ValidTo       *time.Time
	ForWhom       string
	UserName      string
	UserKennitala string
}

// ActiveAt reports whether the request's validity window covers `now`.
// Absent bounds leave the window open on that side.
func (f *FormRequest) ActiveAt(now time.Time) bool {
	if f.ValidFrom != nil && f.ValidFrom.After(now) {
		return false
	}
	if f.ValidTo != nil && now.After(*f.ValidTo) {
		return false
	}
	return true
}

// MatchesQuery reports whether the row matches a free-text search over
// the client's name and kennitala.
func (f *FormRequest) MatchesQuery(query string) bool {
	q := Normalise(query)
	if q == "" {
		return true
	}
	return strings.Contains(Normalise(f.UserName), q) ||
		strings.Contains(Normalise(f.UserKennitala), q)
}

// Key returns the stable row identity.
func (f *FormRequest) Key() string {
	return strconv.FormatInt(f.ID, 10)
}

// Field returns a sortable column value.
func (f *FormRequest) Field(name string) interface{} {
	switch name {
	case "id":
		return f.ID
	case "name":
		return f.Name
	case "tally_id":
		return f.TallyID
	case "user_name":
		if f.UserName == "" {
			return nil
		}
		return f.UserName
	case "user_kennitala":
		if f.UserKennitala == "" {
			return nil
		}
		return f.UserKennitala
	case "valid_from":
		if f.ValidFrom == nil {
			return nil
		}
		return *f.ValidFrom
	case "valid_to":
		if f.ValidTo == nil {
			return nil
		}
		return *f.ValidTo
	}
	return nil
}

// FormRequestDraft is the payload assigning a form to a client. The
// backend resolves the user from the kennitala on creation.
type FormRequestDraft struct {
	Kennitala     string  `json:"kennitala"`
	Name          string  `json:"name"`
	FormName      string  `json:"form_name"`
	TallyID       string  `json:"tally_id"`
	RequesterText *string `json:"requester_text"`
	ValidFrom     *string `json:"valid_from"`
	ValidTo       *string `json:"valid_to"`
}

// NewFormRequestDraft validates and creates an assignment for a person
// and a catalogue form. Empty optional fields serialize as JSON nulls.
func NewFormRequestDraft(person *Person, form *TallyForm, requesterText, validFrom, validTo string) (*FormRequestDraft, error) {
	var err error
	if person == nil || len(NormaliseKennitala(person.Kennitala)) != 10 {
		err = multierr.Append(err, errors.New("a person with a full kennitala is required"))
	}
	if form == nil || form.TallyID == "" {
		err = multierr.Append(err, errors.New("a catalogue form is required"))
	}
	if err != nil {
		return nil, err
	}
	return &FormRequestDraft{
		Kennitala:     NormaliseKennitala(person.Kennitala),
		Name:          person.Nafn,
		FormName:      form.Name,
		TallyID:       form.TallyID,
		RequesterText: optional(strings.TrimSpace(requesterText)),
		ValidFrom:     optional(strings.TrimSpace(validFrom)),
		ValidTo:       optional(strings.TrimSpace(validTo)),
	}, nil
}

// FormRequestPatch is the partial-update payload for an existing
// request. The client identity is fixed at creation and not resubmitted.
type FormRequestPatch struct {
	Name          string  `json:"name"`
	FormName      string  `json:"form_name"`
	TallyID       string  `json:"tally_id"`
	RequesterText *string `json:"requester_text"`
	ValidFrom     *string `json:"valid_from"`
	ValidTo       *string `json:"valid_to"`
}
