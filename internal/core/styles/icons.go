package styles

import "github.com/colonyops/assess/internal/core/assessment"

// Rating glyphs shown next to item ratings.
var (
	IconCompliant     = "✔"
	IconPartial       = "◐"
	IconNonCompliant  = "✘"
	IconNotApplicable = "–"
	IconUnrated       = "·"
)

// RatingIcon returns the glyph for r.
func RatingIcon(r assessment.Rating) string {
	switch r {
	case assessment.RatingCompliant:
		return IconCompliant
	case assessment.RatingPartial:
		return IconPartial
	case assessment.RatingNonCompliant:
		return IconNonCompliant
	case assessment.RatingNotApplicable:
		return IconNotApplicable
	}
	return IconUnrated
}
