package model

import "fmt"

// YearRange is an inclusive range of calendar years
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Span returns the width of the range in years
func (r YearRange) Span() int {
	return r.End - r.Start
}

// String formats the range as "start-end"
func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Anachronism is a mention of a concept that postdates the narrative period
type Anachronism struct {
	Term          string  `json:"term"`
	Context       string  `json:"context"` // snippet around the match
	Position      int     `json:"position"`
	EarliestYear  int     `json:"earliest_year"` // earliest year the concept is attested
	Category      string  `json:"category"`
	Confidence    float64 `json:"confidence"`
	NarrativeYear int     `json:"narrative_year"` // period end year the term was judged against
}

// AnachronismReport is the result of one detection pass over a text
type AnachronismReport struct {
	Anachronisms       []*Anachronism `json:"anachronisms"`
	NarrativePeriod    string         `json:"narrative_period"`
	EstimatedYearRange *YearRange     `json:"estimated_year_range,omitempty"`
}
