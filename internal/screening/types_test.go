package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const envelopeFixture = `{
  "response": {
    "query": {"id": null, "schema": "Person", "properties": {"name": ["Viktor Example"]}},
    "total": {"value": 2, "relation": "eq"},
    "status": 200,
    "results": [
      {
        "id": "Q123",
        "match": true,
        "score": 1.0,
        "schema": "Person",
        "target": true,
        "caption": "Viktor Example",
        "datasets": ["eu_fsf", "ua_nsdc_sanctions"],
        "features": {"person_name_jaro_winkler": 1.0},
        "first_seen": "2022-03-01T10:00:00",
        "last_seen": "2025-06-30T08:12:45",
        "last_change": "2024-11-02T00:00:00",
        "properties": {
          "name": ["Viktor Example"],
          "alias": ["V. Example", "Viktor E."],
          "birthDate": ["1965-04-12"],
          "wikidataId": "Q123",
          "sourceRank": [1, 2.5, null, true],
          "extra": {"nested": true},
          "missing": null
        }
      },
      {"id": "Q456", "score": 0.7, "caption": "Someone Else", "datasets": [], "properties": {}}
    ]
  }
}`

func TestDecodeResponse_Envelope(t *testing.T) {
	resp, err := DecodeResponse([]byte(envelopeFixture))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 2, resp.Total.Value)
	assert.Equal(t, []string{"Viktor Example"}, resp.Query.Properties.Get(PropName))
	require.Len(t, resp.Results, 2)

	first := resp.First()
	require.NotNil(t, first)
	assert.Equal(t, "Q123", first.ID, "upstream order is kept")
	assert.InDelta(t, 1.0, first.Score, 0)
	assert.Equal(t, []string{"eu_fsf", "ua_nsdc_sanctions"}, first.Datasets)
	assert.Equal(t, []string{"V. Example", "Viktor E."}, first.Properties.Get(PropAlias))
}

func TestDecodeResponse_OpenPropertySchema(t *testing.T) {
	resp, err := DecodeResponse([]byte(envelopeFixture))
	require.NoError(t, err)
	props := resp.First().Properties

	assert.Equal(t, []string{"Q123"}, props.Get("wikidataId"), "scalar string becomes a sequence")
	assert.Equal(t, []string{"1", "2.5", "true"}, props.Get("sourceRank"), "non-strings are stringified")
	assert.NotContains(t, props, "extra", "object values are dropped")
	assert.NotContains(t, props, "missing", "null values are dropped")
	assert.Nil(t, props.Get(PropNotes))
}

func TestDecodeResponse_Bare(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"total": {"value": 0}, "status": 200, "results": []}`))
	require.NoError(t, err)

	assert.True(t, resp.IsEmpty())
	assert.Nil(t, resp.First())
}

func TestDecodeResponse_MissingResults(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"response": {"status": 200}}`))
	require.NoError(t, err)

	assert.True(t, resp.IsEmpty())
}

func TestDecodeResponse_Invalid(t *testing.T) {
	_, err := DecodeResponse([]byte(`<html>gateway</html>`))
	require.Error(t, err)
}

func TestSearchResponse_NilSafe(t *testing.T) {
	var resp *SearchResponse
	assert.Nil(t, resp.First())
	assert.True(t, resp.IsEmpty())

	var props Properties
	assert.Nil(t, props.Get(PropName))
}
