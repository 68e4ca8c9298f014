package scheduler

import (
	"math/rand"

	"github.com/recallhq/recall/internal/models"
)

// OrderSession combines the due and new candidate sets into a single
// presentation sequence using an unbiased Fisher-Yates shuffle. The inputs
// are not modified.
func OrderSession(due, fresh []models.CardState, rng *rand.Rand) []models.CardState {
	out := make([]models.CardState, 0, len(due)+len(fresh))
	out = append(out, due...)
	out = append(out, fresh...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
