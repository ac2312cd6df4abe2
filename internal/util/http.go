package util

import (
	"encoding/json"
	"io"
	"mime"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// DecodeJSON decodes a response body into `out`, tolerating an empty body.
func DecodeJSON(body io.Reader, out interface{}) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errors.Wrap(err, "unmarshalling response body")
	}
	return nil
}

// IsEmptyJSONObject reports whether raw JSON is an object with no keys.
// The current-user endpoint answers `{}` for unauthenticated callers.
func IsEmptyJSONObject(raw json.RawMessage) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	return len(m) == 0
}

// FilenameFromDisposition extracts the suggested filename from a
// Content-Disposition header. The extended `filename*=UTF-8''...` form
// takes precedence over the plain quoted `filename="..."` form.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name, ok := params["filename"]; ok && name != "" {
			return name
		}
	}
	// Fall back to lenient parsing; some backends emit unquoted values.
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "filename*="); ok {
			value = strings.TrimPrefix(value, "UTF-8''")
			if decoded, err := url.PathUnescape(value); err == nil {
				return decoded
			}
			return value
		}
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "filename="); ok {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}
