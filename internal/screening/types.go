package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Well-known property keys returned by the screening API.
const (
	PropName        = "name"
	PropAlias       = "alias"
	PropNotes       = "notes"
	PropGender      = "gender"
	PropTopics      = "topics"
	PropAddress     = "address"
	PropCountry     = "country"
	PropWebsite     = "website"
	PropPosition    = "position"
	PropReligion    = "religion"
	PropBirthDate   = "birthDate"
	PropEducation   = "education"
	PropBirthPlace  = "birthPlace"
	PropNationality = "nationality"
	PropCitizenship = "citizenship"
	PropModifiedAt  = "modifiedAt"
)

// Properties maps property names to ordered value sequences.
// Unknown keys are kept as-is.
type Properties map[string][]string

// Get returns the values stored under key, or nil.
func (p Properties) Get(key string) []string {
	if p == nil {
		return nil
	}
	return p[key]
}

// UnmarshalJSON decodes an open property schema. A bare string becomes a
// one-element sequence, non-string array elements are stringified and
// values of any other shape are dropped.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding properties: %w", err)
	}

	out := make(Properties, len(raw))
	for key, value := range raw {
		if values, ok := decodePropertyValue(value); ok {
			out[key] = values
		}
	}
	*p = out
	return nil
}

func decodePropertyValue(value json.RawMessage) ([]string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, false
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, false
		}
		return []string{s}, true
	case '[':
		var items []interface{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			switch v := item.(type) {
			case string:
				values = append(values, v)
			case nil:
				// skip nulls inside sequences
			default:
				values = append(values, fmt.Sprint(v))
			}
		}
		return values, true
	default:
		return nil, false
	}
}

// MatchRecord is one candidate identity returned for a query.
type MatchRecord struct {
	ID         string             `json:"id"`
	Match      bool               `json:"match"`
	Score      float64            `json:"score"`
	Schema     string             `json:"schema"`
	Target     bool               `json:"target"`
	Caption    string             `json:"caption"`
	Datasets   []string           `json:"datasets"`
	Features   map[string]float64 `json:"features"`
	FirstSeen  string             `json:"first_seen"`
	LastSeen   string             `json:"last_seen"`
	LastChange string             `json:"last_change"`
	Properties Properties         `json:"properties"`
}

// QueryEcho is the upstream's echo of the submitted query.
type QueryEcho struct {
	ID         *string    `json:"id"`
	Schema     string     `json:"schema"`
	Properties Properties `json:"properties"`
}

// Total carries the upstream hit count.
type Total struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// SearchResponse is a decoded screening result set.
type SearchResponse struct {
	Query   QueryEcho     `json:"query"`
	Total   Total         `json:"total"`
	Status  int           `json:"status"`
	Results []MatchRecord `json:"results"`
}

// First returns the highest-ranked record in upstream order, or nil when
// the result set is empty.
func (r *SearchResponse) First() *MatchRecord {
	if r == nil || len(r.Results) == 0 {
		return nil
	}
	return &r.Results[0]
}

// IsEmpty reports whether the response carries no match records.
func (r *SearchResponse) IsEmpty() bool {
	return r.First() == nil
}

// envelope is the wrapper the lead API puts around a result set.
type envelope struct {
	Response *SearchResponse `json:"response"`
}

// DecodeResponse decodes a screening payload. Both the bare result object
// and the {"response": {...}} envelope are accepted.
func DecodeResponse(data []byte) (*SearchResponse, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding screening response: %w", err)
	}
	if env.Response != nil {
		return env.Response, nil
	}

	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding screening response: %w", err)
	}
	return &resp, nil
}
