package snapshot

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadUnwrapsStringData(t *testing.T) {
	raw := &Raw{Data: json.RawMessage(`"<forecast><day/></forecast>"`)}
	b, err := raw.Payload()
	require.NoError(t, err)
	assert.Equal(t, "<forecast><day/></forecast>", string(b))
}

func TestObjectDecodesStringWrappedJSON(t *testing.T) {
	// A JSON feed persisted as text still decodes to its object form.
	raw := &Raw{Data: json.RawMessage(`"{\"properties\": {\"timeseries\": []}}"`)}
	obj, err := raw.Object()
	require.NoError(t, err)
	m, ok := obj.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m, "properties")
}

func TestObjectEmptyData(t *testing.T) {
	raw := &Raw{Data: json.RawMessage(`null`)}
	_, err := raw.Object()
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	in := &Raw{
		FetchedAt:    1761100000,
		Provider:     "hko",
		OK:           true,
		RequestedURL: "https://example.test/fnd",
		HTTPStatus:   200,
		ContentType:  "json",
		Data:         json.RawMessage(`{"weatherForecast": []}`),
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load("hko")
	require.NoError(t, err)
	assert.Equal(t, in.Provider, out.Provider)
	assert.Equal(t, in.HTTPStatus, out.HTTPStatus)
	assert.JSONEq(t, string(in.Data), string(out.Data))
}

func TestStoreMissingProvider(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Load("jma")
	assert.True(t, errors.Is(err, ErrNotFound))
}
