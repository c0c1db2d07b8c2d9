// Package checklist generates the checklist items of a new task from its template.
package checklist

import (
	"fmt"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
)

// ItemID returns the id of the n-th generated item (1-based).
func ItemID(n int) string {
	return fmt.Sprintf("item_%d", n)
}

// Generate lays out tpl.Items checklist items across the template's
// dimensions. Each dimension receives ceil(items/dimensions) items in order
// until the total is reached, so the last dimension may receive fewer.
// The output depends only on the template's id, dimension names and item
// count.
func Generate(tpl assessment.Template) []assessment.Item {
	dims := catalog.Layout(tpl)
	if tpl.Items <= 0 {
		return []assessment.Item{}
	}

	perDim := (tpl.Items + len(dims) - 1) / len(dims)
	items := make([]assessment.Item, 0, tpl.Items)

	n := 1
	for i, dim := range dims {
		for j := 0; j < perDim && n <= tpl.Items; j++ {
			items = append(items, assessment.Item{
				ID:             ItemID(n),
				Dimension:      dim,
				DimensionIndex: i + 1,
				Content:        fmt.Sprintf("%s - item %d", dim, n),
				Rating:         assessment.RatingUnset,
			})
			n++
		}
	}

	return items
}
