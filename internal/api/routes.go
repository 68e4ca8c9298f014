package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/learners", s.handleCreateLearner)
	r.Get("/learners", s.handleListLearners)
	r.Get("/learners/{id}", s.handleGetLearner)
	r.Get("/learners/{id}/stats", s.handleLearnerStats)

	r.Post("/learners/{id}/cards", s.handleCreateCard)
	r.Get("/learners/{id}/cards", s.handleListCards)
	r.Get("/learners/{id}/cards/{cardID}", s.handleGetCard)

	r.Get("/learners/{id}/session", s.handleGetSession)
	r.Post("/learners/{id}/cards/{cardID}/review", s.handleReviewCard)

	return r
}
