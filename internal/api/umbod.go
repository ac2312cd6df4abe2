package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

// umbodWire tolerates the backend's two shapes for the grantee list: a
// plain array and a keyed object whose values are the grantees.
type umbodWire struct {
	ID           int64           `json:"id"`
	Nafn         string          `json:"nafn"`
	Kennitala    string          `json:"kennitala"`
	Umbodsthegar json.RawMessage `json:"umbodsthegar"`
	GildirFra    time.Time       `json:"gildirfra"`
	GildirTil    time.Time       `json:"gildirtil"`
	SidastBreytt time.Time       `json:"sidastbreytt"`
}

func (w *umbodWire) toModel() (*model.Umbod, error) {
	umbod := &model.Umbod{
		ID:           w.ID,
		Nafn:         w.Nafn,
		Kennitala:    model.NormaliseKennitala(w.Kennitala),
		GildirFra:    w.GildirFra,
		GildirTil:    w.GildirTil,
		SidastBreytt: w.SidastBreytt,
	}
	if len(w.Umbodsthegar) == 0 {
		return umbod, nil
	}
	var asArray []model.Umbodsthegi
	if err := json.Unmarshal(w.Umbodsthegar, &asArray); err == nil {
		umbod.Umbodsthegar = asArray
		return umbod, nil
	}
	var asMap map[string]model.Umbodsthegi
	if err := json.Unmarshal(w.Umbodsthegar, &asMap); err != nil {
		return nil, errors.Wrap(err, "decoding grantees")
	}
	for _, grantee := range asMap {
		umbod.Umbodsthegar = append(umbod.Umbodsthegar, grantee)
	}
	return umbod, nil
}

// CurrentUser fetches the identity behind the umboð session cookie. Nil
// without error means unauthenticated; the endpoint answers `{}` then.
func (c *Client) CurrentUser(ctx context.Context) (*model.UserInfo, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/umbod/currentuser/", nil, &raw, true); err != nil {
		return nil, err
	}
	if len(raw) == 0 || util.IsEmptyJSONObject(raw) {
		return nil, nil
	}
	return model.UserInfoFromJSON(raw)
}

// Umbod fetches the current user's own power-of-attorney record, nil
// when none exists yet.
func (c *Client) Umbod(ctx context.Context) (*model.Umbod, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/umbod/umbod/", nil, &raw, true); err != nil {
		return nil, err
	}
	if len(raw) == 0 || util.IsEmptyJSONObject(raw) {
		return nil, nil
	}
	var wire umbodWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(err, "decoding umbod record")
	}
	return wire.toModel()
}

// GrantUmbod submits a validated delegation.
func (c *Client) GrantUmbod(ctx context.Context, grant *model.UmbodGrant) error {
	if grant == nil {
		return errors.New("missing grant")
	}
	return c.postJSON(ctx, "/api/umbod/umbod/", grant, nil, true)
}

// UmbodList fetches every record for the staff view; active-window
// filtering and sorting happen client side.
func (c *Client) UmbodList(ctx context.Context) ([]*model.Umbod, error) {
	return c.umbodRecords(ctx, "/api/umbod/umbodlist/")
}

// UmbodHistory fetches all revisions of one grantor's record.
func (c *Client) UmbodHistory(ctx context.Context, kennitala string) ([]*model.Umbod, error) {
	digits := model.NormaliseKennitala(kennitala)
	if len(digits) != 10 {
		return nil, errors.New("kennitala must be 10 digits")
	}
	return c.umbodRecords(ctx, "/api/umbod/umbodlist/"+digits+"/")
}

func (c *Client) umbodRecords(ctx context.Context, path string) ([]*model.Umbod, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, nil, &raw, false); err != nil {
		return nil, err
	}
	var wires []umbodWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		// some deployments wrap the rows
		var wrapped struct {
			Results []umbodWire `json:"results"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, errors.Wrap(err, "decoding umbod records")
		}
		wires = wrapped.Results
	}
	records := make([]*model.Umbod, 0, len(wires))
	for _, wire := range wires {
		record, err := wire.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ActiveUmbod narrows a staff listing to records whose validity window
// covers now.
func ActiveUmbod(records []*model.Umbod, now time.Time) []*model.Umbod {
	out := make([]*model.Umbod, 0, len(records))
	for _, record := range records {
		if record.ActiveAt(now) {
			out = append(out, record)
		}
	}
	return out
}

// SignOut tears the umboð session down.
func (c *Client) SignOut(ctx context.Context) error {
	var raw json.RawMessage
	return c.getJSON(ctx, "/api/umbod/signout/", nil, &raw, true)
}

// AwaitCurrentUser polls the current-user endpoint until an identity
// appears, for the window right after a login completes.
func (c *Client) AwaitCurrentUser(ctx context.Context, opts util.PollOptions) (*model.UserInfo, error) {
	var user *model.UserInfo
	err := util.PollUntil(ctx, opts, func(ctx context.Context) (bool, error) {
		u, err := c.CurrentUser(ctx)
		if err != nil {
			// the session may not be visible yet
			if _, ok := err.(*NotAuthenticatedError); ok {
				return false, nil
			}
			return false, err
		}
		user = u
		return u != nil, nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AwaitUmbod polls the user's own record until it appears.
func (c *Client) AwaitUmbod(ctx context.Context, opts util.PollOptions) (*model.Umbod, error) {
	var record *model.Umbod
	err := util.PollUntil(ctx, opts, func(ctx context.Context) (bool, error) {
		u, err := c.Umbod(ctx)
		if err != nil {
			if _, ok := err.(*NotAuthenticatedError); ok {
				return false, nil
			}
			return false, err
		}
		record = u
		return u != nil && len(u.Umbodsthegar) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
