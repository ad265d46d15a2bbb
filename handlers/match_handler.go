package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
)

type MatchHandler struct {
	matchService services.MatchService
	scoreService services.ScoreService
}

func NewMatchHandler(ms services.MatchService, ss services.ScoreService) *MatchHandler {
	return &MatchHandler{matchService: ms, scoreService: ss}
}

// ListMatches supports ?playoff=true|false and ?group_id=<id>.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	filter, err := matchFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "matches", matches)
}

func (h *MatchHandler) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.GenerateRoundRobinMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, "matches", matches)
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.MatchByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "match", match)
}

func (h *MatchHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.MatchScore(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "score", score)
}

func (h *MatchHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.scoreService.RecordScore(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "score", score)
}

func (h *MatchHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.matchService.GenerateSchedule(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "schedule", schedule)
}

func matchFilterFromQuery(r *http.Request) (models.MatchFilter, error) {
	var filter models.MatchFilter
	q := r.URL.Query()

	if raw := q.Get("playoff"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid playoff parameter %q", raw)
		}
		filter.IsPlayoff = &v
	}
	if groupID := q.Get("group_id"); groupID != "" {
		filter.GroupID = &groupID
	}
	return filter, nil
}
