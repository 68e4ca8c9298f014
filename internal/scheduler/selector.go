package scheduler

import "github.com/recallhq/recall/internal/models"

// TallyCounts returns the per-state breakdown over the given candidate sets.
// The due and new sets are disjoint by the state partition, so summing is
// safe without de-duplication.
func TallyCounts(sets ...[]models.CardState) models.StateCounts {
	var counts models.StateCounts
	for _, set := range sets {
		for _, c := range set {
			switch c.State {
			case models.StateNew:
				counts.New++
			case models.StateLearning:
				counts.Learning++
			case models.StateRelearning:
				counts.Relearning++
			case models.StateReview:
				counts.Review++
			}
			counts.Total++
		}
	}
	return counts
}
