// Package profile shapes a screening match record into a display model.
//
// Everything here is a pure function of its input: no I/O, no clocks and
// no mutation of the record. Front-ends (terminal, browser, plain text and
// JSON) render the Profile produced by Build without further logic.
package profile

import (
	"strconv"
	"strings"

	"github.com/rshade/amlscreen/internal/screening"
)

// Section titles in render order.
const (
	SectionBasic     = "Basic Information"
	SectionPositions = "Current Positions"
	SectionEducation = "Education"
	SectionSanctions = "Sanctions & Legal Status"
	SectionNotes     = "Official Notes"
	SectionNames     = "Known Names & Aliases"
	SectionAddresses = "Known Addresses"
	SectionRecord    = "Record Information"
)

// SanctionsBanner heads the sanctions section.
const SanctionsBanner = "Subject to Multiple International Sanctions"

// Empty-result wording.
const (
	EmptyTitle   = "No Records Found"
	EmptyHeading = "Search Completed Successfully"
	EmptyDetail  = "No AML records were found for the provided search criteria."
)

// Field is a labelled value.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Note is an official note with its heuristic label.
type Note struct {
	Title   NoteCategory `json:"title"`
	Content string       `json:"content"`
}

// Summary describes the whole result set.
type Summary struct {
	TotalResults string `json:"total_results"`
	Status       string `json:"status"`
	Query        string `json:"query"`
}

// Header identifies the rendered match.
type Header struct {
	Caption  string   `json:"caption"`
	Tier     Tier     `json:"tier"`
	Severity Severity `json:"severity"`
	Score    string   `json:"score"`
	ID       string   `json:"id"`
}

// Sanctions lists the datasets the match appears in.
type Sanctions struct {
	Banner   string   `json:"banner"`
	Summary  string   `json:"summary"`
	Count    int      `json:"count"`
	Datasets []string `json:"datasets"`
}

// Profile is the complete display model of one match.
type Profile struct {
	Summary   Summary   `json:"summary"`
	Header    Header    `json:"header"`
	Basic     []Field   `json:"basic"`
	Positions []string  `json:"positions,omitempty"`
	Education []string  `json:"education,omitempty"`
	Sanctions Sanctions `json:"sanctions"`
	Notes     []Note    `json:"notes,omitempty"`
	Names     []Tag     `json:"names,omitempty"`
	Addresses []string  `json:"addresses,omitempty"`
	Record    []Field   `json:"record"`
}

// HasPositions reports whether the positions section is shown.
func (p Profile) HasPositions() bool { return len(p.Positions) > 0 }

// HasEducation reports whether the education section is shown.
func (p Profile) HasEducation() bool { return len(p.Education) > 0 }

// HasNotes reports whether the notes section is shown.
func (p Profile) HasNotes() bool { return len(p.Notes) > 0 }

// HasNames reports whether the names and aliases section is shown.
func (p Profile) HasNames() bool { return len(p.Names) > 0 }

// HasAddresses reports whether the addresses section is shown.
func (p Profile) HasAddresses() bool { return len(p.Addresses) > 0 }

// Build shapes the first record of resp. It returns false when the result
// set is empty.
func Build(resp *screening.SearchResponse) (Profile, bool) {
	rec := resp.First()
	if rec == nil {
		return Profile{}, false
	}
	p := FromRecord(*rec)
	p.Summary = BuildSummary(resp)
	return p, true
}

// BuildSummary describes a result set.
func BuildSummary(resp *screening.SearchResponse) Summary {
	if resp == nil {
		return Summary{TotalResults: "0", Status: Placeholder, Query: Placeholder}
	}
	query := strings.Join(resp.Query.Properties.Get(screening.PropName), ", ")
	if query == "" {
		query = Placeholder
	}
	return Summary{
		TotalResults: FormatCount(resp.Total.Value),
		Status:       strconv.Itoa(resp.Status),
		Query:        query,
	}
}

// FromRecord shapes one match record.
func FromRecord(rec screening.MatchRecord) Profile {
	props := rec.Properties
	tier := TierForScore(rec.Score)

	return Profile{
		Header: Header{
			Caption:  rec.Caption,
			Tier:     tier,
			Severity: tier.Severity(),
			Score:    strconv.FormatFloat(rec.Score, 'f', -1, 64),
			ID:       rec.ID,
		},
		Basic: []Field{
			{Label: "Birth Date", Value: First(props.Get(screening.PropBirthDate))},
			{Label: "Birth Place", Value: First(props.Get(screening.PropBirthPlace))},
			{Label: "Gender", Value: First(props.Get(screening.PropGender))},
			{Label: "Nationality", Value: First(props.Get(screening.PropNationality))},
			{Label: "Religion", Value: Join(props.Get(screening.PropReligion))},
		},
		Positions: cloneStrings(props.Get(screening.PropPosition)),
		Education: cloneStrings(props.Get(screening.PropEducation)),
		Sanctions: buildSanctions(rec.Datasets),
		Notes:     buildNotes(props.Get(screening.PropNotes)),
		Names:     MergeNames(props.Get(screening.PropName), props.Get(screening.PropAlias)),
		Addresses: cloneStrings(props.Get(screening.PropAddress)),
		Record: []Field{
			{Label: "First Seen", Value: FormatDate(rec.FirstSeen)},
			{Label: "Last Seen", Value: FormatDate(rec.LastSeen)},
			{Label: "Last Modified", Value: First(props.Get(screening.PropModifiedAt))},
		},
	}
}

func buildSanctions(datasets []string) Sanctions {
	tags := make([]string, len(datasets))
	for i, d := range datasets {
		tags[i] = NormalizeDataset(d)
	}
	return Sanctions{
		Banner:   SanctionsBanner,
		Summary:  DatasetSummary(len(datasets)),
		Count:    len(datasets),
		Datasets: tags,
	}
}

func buildNotes(notes []string) []Note {
	if len(notes) == 0 {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = Note{Title: CategorizeNote(n), Content: n}
	}
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
