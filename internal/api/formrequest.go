package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
)

const (
	// PathFormRequests hosts the survey-request admin collection; rows
	// live under PathFormRequests + "<id>/".
	PathFormRequests = "/signet/transfer/formrequestadmin/"
	// PathTallyForms is the survey-form catalogue.
	PathTallyForms = "/signet/transfer/formsall/"

	// DefaultStaffDirectoryURL is the absolute staff-directory endpoint,
	// served by a different host than the transfer backend.
	DefaultStaffDirectoryURL = "https://minarsidur.permentis.is/api/staffchangeuser/"
)

// formRequestWire tolerates the loose row shape of the admin listing:
// optional fields arrive as nulls and the validity bounds as bare
// datetime strings with or without zone and seconds.
type formRequestWire struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FormName      *string `json:"form_name"`
	TallyID       string  `json:"tally_id"`
	Submission    *int64  `json:"submission"`
	RequesterText *string `json:"requester_text"`
	ValidFrom     *string `json:"valid_from"`
	ValidTo       *string `json:"valid_to"`
	ForWhom       *string `json:"for_whom"`
	UserName      *string `json:"user_name"`
	UserKennitala *string `json:"user_kennitala"`
}

func (w *formRequestWire) toModel() *model.FormRequest {
	request := &model.FormRequest{
		ID:         w.ID,
		Name:       w.Name,
		TallyID:    w.TallyID,
		Submission: w.Submission,
		ValidFrom:  parseLooseTime(w.ValidFrom),
		ValidTo:    parseLooseTime(w.ValidTo),
	}
	if w.FormName != nil {
		request.FormName = *w.FormName
	}
	if w.RequesterText != nil {
		request.RequesterText = *w.RequesterText
	}
	if w.ForWhom != nil {
		request.ForWhom = *w.ForWhom
	}
	if w.UserName != nil {
		request.UserName = strings.TrimSpace(*w.UserName)
	}
	if w.UserKennitala != nil {
		request.UserKennitala = model.NormaliseKennitala(*w.UserKennitala)
	}
	return request
}

var looseTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseLooseTime(value *string) *time.Time {
	if value == nil {
		return nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return nil
	}
	for _, layout := range looseTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}

// FormRequests fetches the survey-request admin listing. Search, sort
// and pagination happen client side.
func (c *Client) FormRequests(ctx context.Context) ([]*model.FormRequest, error) {
	var rows []*formRequestWire
	if err := c.getJSON(ctx, PathFormRequests, nil, &rows, true); err != nil {
		return nil, err
	}
	requests := make([]*model.FormRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toModel())
	}
	return requests, nil
}

// CreateFormRequest assigns a form to a client. The backend resolves the
// user from the draft's kennitala and answers with the stored row.
func (c *Client) CreateFormRequest(ctx context.Context, draft *model.FormRequestDraft) (*model.FormRequest, error) {
	var row formRequestWire
	if err := c.postJSON(ctx, PathFormRequests, draft, &row, true); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// UpdateFormRequest partially updates an existing request. The client
// identity is fixed at creation and cannot change here.
func (c *Client) UpdateFormRequest(ctx context.Context, id int64, patch *model.FormRequestPatch) (*model.FormRequest, error) {
	var row formRequestWire
	path := fmt.Sprintf("%s%d/", PathFormRequests, id)
	if err := c.sendJSON(ctx, http.MethodPatch, path, patch, &row, true); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// DeleteFormRequest removes a request.
func (c *Client) DeleteFormRequest(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s%d/", PathFormRequests, id)
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil, true)
}

// TallyForms fetches the survey-form catalogue.
func (c *Client) TallyForms(ctx context.Context) ([]*model.TallyForm, error) {
	var forms []*model.TallyForm
	if err := c.getJSON(ctx, PathTallyForms, nil, &forms, true); err != nil {
		return nil, err
	}
	return forms, nil
}

// MatchTallyForm resolves a catalogue form by tally id or exact name,
// case-insensitively for names.
func MatchTallyForm(forms []*model.TallyForm, input string) *model.TallyForm {
	needle := strings.TrimSpace(input)
	if needle == "" {
		return nil
	}
	for _, form := range forms {
		if form.TallyID == needle {
			return form
		}
	}
	for _, form := range forms {
		if strings.EqualFold(form.Name, needle) {
			return form
		}
	}
	return nil
}

// StaffUsers fetches the staff directory from its absolute endpoint.
// The answer varies between a bare array, a results/data wrapper and a
// single object; incomplete rows are dropped.
func (c *Client) StaffUsers(ctx context.Context) ([]*model.Person, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, c.staffURL, nil, &raw, true); err != nil {
		return nil, err
	}
	persons := model.PersonsFromJSON(raw)
	if persons == nil {
		return nil, errors.New("invalid data from staff directory")
	}
	return persons, nil
}

// SearchFormRequests narrows a listing by a free-text query over the
// client's name and kennitala.
func SearchFormRequests(requests []*model.FormRequest, query string) []*model.FormRequest {
	out := make([]*model.FormRequest, 0, len(requests))
	for _, request := range requests {
		if request.MatchesQuery(query) {
			out = append(out, request)
		}
	}
	return out
}
