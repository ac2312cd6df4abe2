package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/list"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

// Transferred-file list endpoints.
const (
	PathReceivedFiles = "/signet/transfer/getReceived"
	PathSentFiles     = "/signet/transfer/getSent"
)

// FileFilterMinLengths gates the server-side file filters: shorter values
// stay local.
var FileFilterMinLengths = list.MinFilterLengths{
	"filename":   3,
	"name":       3,
	"ssn":        4,
	"group_name": 3,
}

// FilePage is one page of a transferred-files listing.
type FilePage struct {
	Results []*model.FileRecord `json:"results"`
	Count   int64               `json:"count"`
}

// Files fetches one page of a file listing for the current table state.
func (c *Client) Files(ctx context.Context, path string, params *list.Params) (*FilePage, error) {
	var page FilePage
	if err := c.getJSON(ctx, path, params.QueryValues(FileFilterMinLengths), &page, false); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, errors.New("invalid data from backend: results is not an array")
	}
	return &page, nil
}

// ReceivedFiles fetches one page of files sent to the current user.
func (c *Client) ReceivedFiles(ctx context.Context, params *list.Params) (*FilePage, error) {
	return c.Files(ctx, PathReceivedFiles, params)
}

// SentFiles fetches one page of files the current user sent.
func (c *Client) SentFiles(ctx context.Context, params *list.Params) (*FilePage, error) {
	return c.Files(ctx, PathSentFiles, params)
}

// ToggleSeen flips a record's seen flag on the backend, updating the
// local record only after the backend acknowledges.
func (c *Client) ToggleSeen(ctx context.Context, record *model.FileRecord) error {
	if err := c.postJSON(ctx, "/signet/transfer/toggleSeen/"+record.Key()+"/", nil, nil, false); err != nil {
		return err
	}
	record.Seen = !record.Seen
	return nil
}

// Download fetches a file's content. The filename comes from the
// Content-Disposition header, supporting both the plain quoted and the
// extended UTF-8 forms, with "file" as the fallback.
func (c *Client) Download(ctx context.Context, record *model.FileRecord) (string, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(record.DownloadURL, nil), nil)
	if err != nil {
		return "", nil, errors.Wrap(err, "creating download request")
	}
	response, err := c.Do(ctx, request)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "reading download body")
	}
	filename := util.FilenameFromDisposition(response.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = "file"
	}
	return filename, data, nil
}

// DownloadURL returns a direct link carrying the bearer token as an
// access_token query parameter, for handing to an external fetcher.
func (c *Client) DownloadURL(ctx context.Context, record *model.FileRecord) (string, error) {
	if c.tokens == nil {
		return "", &NotAuthenticatedError{}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", &NotAuthenticatedError{}
	}
	query := url.Values{}
	query.Set("access_token", token)
	return c.endpoint(record.DownloadURL, query), nil
}
