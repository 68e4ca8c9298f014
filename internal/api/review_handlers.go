package api

import (
	"net/http"

	"github.com/recallhq/recall/internal/errors"
	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
)

type reviewRequest struct {
	Response string `json:"response"`
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	learnerID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := urlParamInt64(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	resp, err := models.ParseResponse(req.Response)
	if err != nil {
		log.Warn("invalid response value: %q", req.Response)
		handleError(w, r, errors.NewInvalidResponseError(err))
		return
	}

	log = log.WithFields(map[string]any{
		"learner_id": learnerID,
		"card_id":    cardID,
		"response":   resp.String(),
	})
	log.Debug("reviewing card")

	updated, err := s.ReviewService.SubmitResponse(r.Context(), learnerID, cardID, resp, now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed successfully")
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	newLimit, err := queryIntOr(r, "new_limit", s.DefaultNewLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	reviewLimit, err := queryIntOr(r, "review_limit", s.DefaultReviewLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.ReviewService.GetSession(r.Context(), learnerID, newLimit, reviewLimit, now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}
