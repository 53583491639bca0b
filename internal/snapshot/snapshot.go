// Package snapshot holds the persisted result of one fetch attempt per
// provider, before any interpretation of its payload.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Raw is the persisted outcome of one fetch attempt for one provider.
// Data holds the provider-native payload: a parsed JSON value for JSON
// feeds, or a JSON-encoded string for XML/RSS/plain-text feeds.
type Raw struct {
	FetchedAt    int64           `json:"fetched_at"`
	Provider     string          `json:"provider"`
	OK           bool            `json:"ok"`
	RequestedURL string          `json:"requested_url,omitempty"`
	HTTPStatus   int             `json:"http_status,omitempty"`
	ContentType  string          `json:"content_type,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Error        string          `json:"error,omitempty"`
}

var errNoData = errors.New("snapshot has no data")

// Payload returns the data field with one level of string wrapping
// removed: a payload stored as a JSON-encoded string is unwrapped so
// callers can decode the inner document directly.
func (r *Raw) Payload() ([]byte, error) {
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errNoData
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return data, nil
}

// Text returns the payload as raw text, for XML/RSS/plain-text feeds.
func (r *Raw) Text() (string, bool) {
	data, err := r.Payload()
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Object decodes the payload into generic JSON values (map[string]any,
// []any, string, float64, ...). A payload stored as a JSON-encoded
// string that itself contains JSON is decoded one level further.
func (r *Raw) Object() (any, error) {
	data, err := r.Payload()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
