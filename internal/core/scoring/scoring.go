// Package scoring turns rated checklist items into a compliance Result.
package scoring

import (
	"math"

	"github.com/colonyops/assess/internal/core/assessment"
)

// Score returns the numeric compliance score of a rating and whether the
// rating takes part in averaging. Unset and not-applicable ratings do not.
func Score(r assessment.Rating) (int, bool) {
	switch r {
	case assessment.RatingCompliant:
		return 100, true
	case assessment.RatingPartial:
		return 50, true
	case assessment.RatingNonCompliant:
		return 0, true
	}
	return 0, false
}

// Label returns the display label of a rating.
func Label(r assessment.Rating) string {
	switch r {
	case assessment.RatingCompliant:
		return "Compliant"
	case assessment.RatingPartial:
		return "Partially compliant"
	case assessment.RatingNonCompliant:
		return "Non-compliant"
	case assessment.RatingNotApplicable:
		return "Not applicable"
	}
	return "Not rated"
}

type dimensionTotal struct {
	sum   int
	count int
}

// Compute aggregates items into a Result. It performs no I/O and does not
// modify items.
func Compute(items []assessment.Item) assessment.Result {
	var (
		dist   assessment.LevelDistribution
		order  []string
		totals = map[string]*dimensionTotal{}
		total  int
		valid  int
	)

	for _, it := range items {
		if it.Rating == assessment.RatingUnset {
			continue
		}
		dist.Add(it.Rating)

		score, ok := Score(it.Rating)
		if !ok {
			continue
		}
		total += score
		valid++

		dt, seen := totals[it.Dimension]
		if !seen {
			dt = &dimensionTotal{}
			totals[it.Dimension] = dt
			order = append(order, it.Dimension)
		}
		dt.sum += score
		dt.count++
	}

	scores := make(assessment.DimensionScores, 0, len(order))
	for _, dim := range order {
		dt := totals[dim]
		scores = append(scores, assessment.DimensionScore{
			Dimension: dim,
			Score:     roundDiv(dt.sum, dt.count),
		})
	}

	overall := 0
	if valid > 0 {
		overall = roundDiv(total, valid)
	}

	return assessment.Result{
		OverallCompliance: overall,
		DimensionScores:   scores,
		LevelDistribution: dist,
		TotalItems:        len(items),
		CompletedItems:    valid,
	}
}

// roundDiv divides and rounds half away from zero.
func roundDiv(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
