package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pingpong-tournament/services"
)

type AssignGroupsInput struct {
	Count *int `json:"count"`
}

type GroupHandler struct {
	groupService     services.GroupService
	standingsService services.StandingsService
}

func NewGroupHandler(gs services.GroupService, ss services.StandingsService) *GroupHandler {
	return &GroupHandler{groupService: gs, standingsService: ss}
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListGroups(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "groups", groups)
}

func (h *GroupHandler) AssignGroups(w http.ResponseWriter, r *http.Request) {
	var input AssignGroupsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Count == nil {
		badRequestResponse(w, r, errors.New("count is required"))
		return
	}

	groups, err := h.groupService.AssignRandomGroups(r.Context(), *input.Count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, "groups", groups)
}

func (h *GroupHandler) ListGroupPlayers(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.groupService.GroupMembers(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "players", players)
}

func (h *GroupHandler) GroupStandings(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GroupStandings(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "standings", standings)
}

func (h *GroupHandler) AllStandings(w http.ResponseWriter, r *http.Request) {
	tables, err := h.standingsService.AllStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, "standings", tables)
}
