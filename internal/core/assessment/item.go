package assessment

import (
	"encoding/json"
	"fmt"
)

// Rating is the compliance verdict recorded against an Item. The zero value
// means the item has not been rated yet and is encoded as JSON null.
type Rating string

const (
	RatingUnset         Rating = ""
	RatingCompliant     Rating = "compliant"
	RatingPartial       Rating = "partial"
	RatingNonCompliant  Rating = "non_compliant"
	RatingNotApplicable Rating = "not_applicable"
)

// Ratings lists the rated values in display order.
var Ratings = []Rating{RatingCompliant, RatingPartial, RatingNonCompliant, RatingNotApplicable}

// Valid reports whether r is a rated value. RatingUnset is not valid input.
func (r Rating) Valid() bool {
	switch r {
	case RatingCompliant, RatingPartial, RatingNonCompliant, RatingNotApplicable:
		return true
	}
	return false
}

// ParseRating converts user input to a Rating.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.Valid() {
		return RatingUnset, fmt.Errorf("%w: unknown rating %q", ErrValidation, s)
	}
	return r, nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if r == RatingUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RatingUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Rating(s)
	return nil
}

// Item is a single checklist line of a Task.
type Item struct {
	ID             string `json:"id"`
	Dimension      string `json:"dimension"`
	DimensionIndex int    `json:"dimension_index"`
	Content        string `json:"content"`
	Rating         Rating `json:"rating"`
	Evidence       string `json:"evidence"`
	Remarks        string `json:"remarks"`
}

// ItemPatch is a partial update of an Item. A nil field is left untouched.
type ItemPatch struct {
	Rating   *Rating `json:"rating,omitempty"`
	Evidence *string `json:"evidence,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// Validate checks that a supplied rating is a known value.
func (p ItemPatch) Validate() error {
	if p.Rating != nil && !p.Rating.Valid() {
		return fmt.Errorf("%w: unknown rating %q", ErrValidation, string(*p.Rating))
	}
	return nil
}

// Apply merges the patch into it.
func (p ItemPatch) Apply(it *Item) {
	if p.Rating != nil {
		it.Rating = *p.Rating
	}
	if p.Evidence != nil {
		it.Evidence = *p.Evidence
	}
	if p.Remarks != nil {
		it.Remarks = *p.Remarks
	}
}
