package api

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
	"go.uber.org/multierr"
)

// Companies fetches the recipient-company directory.
func (c *Client) Companies(ctx context.Context) ([]*model.Company, error) {
	var companies []*model.Company
	if err := c.getJSON(ctx, "/signet/transfer/getcompanylist", nil, &companies, false); err != nil {
		return nil, err
	}
	return companies, nil
}

// CompanyGroups fetches the recipient groups of one company.
func (c *Client) CompanyGroups(ctx context.Context, serialNumber string) ([]*model.CompanyGroup, error) {
	serial := model.NormaliseDigits(serialNumber)
	if len(serial) != 10 {
		return nil, errors.New("company serial must be 10 digits")
	}
	var groups []*model.CompanyGroup
	if err := c.getJSON(ctx, "/signet/transfer/getgroupsbycompany/"+serial+"/", nil, &groups, false); err != nil {
		return nil, err
	}
	return groups, nil
}

// SendToReceivers uploads a document addressed to individual receivers.
// Every receiver needs a kennitala; the rest of the fields are optional.
func (c *Client) SendToReceivers(ctx context.Context, file io.Reader, filename, notes string, sendMail bool, receivers []*model.Receiver) error {
	if file == nil || filename == "" {
		return errors.New("a file is required")
	}
	if len(receivers) == 0 {
		return errors.New("at least one receiver is required")
	}
	var err error
	for n, receiver := range receivers {
		if vErr := util.Validate.Struct(receiver); vErr != nil {
			err = multierr.Append(err, errors.Wrapf(vErr, "receiver %d", n+1))
		}
	}
	if err != nil {
		return err
	}
	payload, err := json.Marshal(receivers)
	if err != nil {
		return errors.Wrap(err, "marshalling receivers")
	}
	fields := map[string]string{
		"Notes":     notes,
		"SendMail":  formBool(sendMail),
		"Receivers": string(payload),
	}
	return c.postMultipart(ctx, "/signet/transfer/SendMessage/", fields, "file", filename, file, nil)
}

// SendToGroup uploads a document addressed to one recipient group of a
// company.
func (c *Client) SendToGroup(ctx context.Context, file io.Reader, filename, notes string, sendMail bool, groupID int64) error {
	if file == nil || filename == "" {
		return errors.New("a file is required")
	}
	if groupID <= 0 {
		return errors.New("a recipient group is required")
	}
	fields := map[string]string{
		"Notes":    notes,
		"SendMail": formBool(sendMail),
		"Groups":   "[" + strconv.FormatInt(groupID, 10) + "]",
	}
	return c.postMultipart(ctx, "/signet/transfer/SendMessage/", fields, "file", filename, file, nil)
}

// formBool serializes a flag the way the SendMessage endpoint expects.
func formBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
