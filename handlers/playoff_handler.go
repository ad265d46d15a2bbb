package handlers

import (
	"net/http"

	"github.com/Dosada05/pingpong-tournament/services"
)

type PlayoffHandler struct {
	playoffService services.PlayoffService
}

func NewPlayoffHandler(ps services.PlayoffService) *PlayoffHandler {
	return &PlayoffHandler{playoffService: ps}
}

func (h *PlayoffHandler) ListPlayoffMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.playoffService.ListPlayoffMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "matches", matches)
}

func (h *PlayoffHandler) Bracket(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.playoffService.Bracket(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "rounds", rounds)
}

func (h *PlayoffHandler) GeneratePlayoffs(w http.ResponseWriter, r *http.Request) {
	matches, err := h.playoffService.GeneratePlayoffs(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, "matches", matches)
}
