package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the aggregate compliance report for one Task. It is derived from
// the task's items and cached by the store until an item changes.
type Result struct {
	OverallCompliance int               `json:"overall_compliance"`
	DimensionScores   DimensionScores   `json:"dimension_scores"`
	LevelDistribution LevelDistribution `json:"level_distribution"`
	TotalItems        int               `json:"total_items"`
	CompletedItems    int               `json:"completed_items"`
}

// DimensionScore is one entry of DimensionScores.
type DimensionScore struct {
	Dimension string
	Score     int
}

// DimensionScores maps dimension name to score, keeping the order in which
// dimensions were first seen. It encodes as a JSON object in that order.
type DimensionScores []DimensionScore

// Get returns the score for a dimension.
func (d DimensionScores) Get(dimension string) (int, bool) {
	for _, s := range d {
		if s.Dimension == dimension {
			return s.Score, true
		}
	}
	return 0, false
}

// Keys returns the dimension names in order.
func (d DimensionScores) Keys() []string {
	keys := make([]string, len(d))
	for i, s := range d {
		keys[i] = s.Dimension
	}
	return keys
}

func (d DimensionScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Dimension)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", s.Score)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *DimensionScores) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dimension scores: expected object, got %v", tok)
	}

	out := DimensionScores{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dimension scores: expected key, got %v", tok)
		}
		var score int
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("dimension scores %q: %w", key, err)
		}
		out = append(out, DimensionScore{Dimension: key, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// LevelDistribution counts rated items by rating. Unset items are not counted.
type LevelDistribution struct {
	Compliant     int `json:"compliant"`
	Partial       int `json:"partial"`
	NonCompliant  int `json:"non_compliant"`
	NotApplicable int `json:"not_applicable"`
}

// Add increments the counter for r. Unset and unknown ratings are ignored.
func (l *LevelDistribution) Add(r Rating) {
	switch r {
	case RatingCompliant:
		l.Compliant++
	case RatingPartial:
		l.Partial++
	case RatingNonCompliant:
		l.NonCompliant++
	case RatingNotApplicable:
		l.NotApplicable++
	}
}

// Count returns the counter for r.
func (l LevelDistribution) Count(r Rating) int {
	switch r {
	case RatingCompliant:
		return l.Compliant
	case RatingPartial:
		return l.Partial
	case RatingNonCompliant:
		return l.NonCompliant
	case RatingNotApplicable:
		return l.NotApplicable
	}
	return 0
}

// Total is the number of rated items.
func (l LevelDistribution) Total() int {
	return l.Compliant + l.Partial + l.NonCompliant + l.NotApplicable
}
