package api

import (
	"net/http"

	"github.com/recallhq/recall/internal/repository"
)

type createCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), learnerID, req.Front, req.Back, now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit, err := queryIntOr(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryIntOr(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := repository.CardFilter{
		LearnerID: learnerID,
		Search:    r.URL.Query().Get("search"),
		Limit:     limit,
		Offset:    offset,
		OrderDir:  r.URL.Query().Get("order"),
	}

	cards, err := s.CardService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
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

	card, err := s.CardService.GetCard(r.Context(), cardID, learnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
