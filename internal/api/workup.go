package api

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
)

// WorkupRecords fetches the full workup admin listing. Search, sort and
// pagination happen client side.
func (c *Client) WorkupRecords(ctx context.Context) ([]*model.WorkupRecord, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/signet/transfer/adhdworkup/admin/", nil, &raw, false); err != nil {
		return nil, err
	}
	var records []*model.WorkupRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var wrapped struct {
		Results []*model.WorkupRecord `json:"results"`
		Data    []*model.WorkupRecord `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "decoding workup records")
	}
	if wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return wrapped.Data, nil
}

// SearchWorkupRecords narrows a listing by a free-text query over the
// client's name and kennitala.
func SearchWorkupRecords(records []*model.WorkupRecord, query string) []*model.WorkupRecord {
	out := make([]*model.WorkupRecord, 0, len(records))
	for _, record := range records {
		if record.MatchesQuery(query) {
			out = append(out, record)
		}
	}
	return out
}
