package api

import (
	"net/http"

	"github.com/recallhq/recall/internal/logger"
)

type createLearnerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateLearner(w http.ResponseWriter, r *http.Request) {
	var req createLearnerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	learner, err := s.LearnerService.CreateLearner(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, learner)
}

func (s *Server) handleListLearners(w http.ResponseWriter, r *http.Request) {
	learners, err := s.LearnerService.ListLearners(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"learners": learners})
}

func (s *Server) handleGetLearner(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	learner, err := s.LearnerService.GetLearner(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, learner)
}

func (s *Server) handleLearnerStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	counts, err := s.LearnerService.GetStats(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("stats fetched: learner_id=%d, total=%d", id, counts.Total)
	writeJSON(w, r, http.StatusOK, counts)
}
