package api

import (
	"github.com/recallhq/recall/internal/services"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	LearnerService services.LearnerService
	CardService    services.CardService
	ReviewService  services.ReviewService

	DefaultNewLimit    int
	DefaultReviewLimit int
}
