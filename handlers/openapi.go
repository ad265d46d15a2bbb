package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/storage"
	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// Response envelopes, used only to describe the API.
type (
	ErrorResponse struct {
		Error string `json:"error"`
	}
	PlayersResponse struct {
		Players []models.Player `json:"players"`
	}
	PlayerResponse struct {
		Player models.Player `json:"player"`
	}
	GroupsResponse struct {
		Groups []models.Group `json:"groups"`
	}
	StandingsResponse struct {
		Standings []models.Standing `json:"standings"`
	}
	AllStandingsResponse struct {
		Standings []models.GroupStandings `json:"standings"`
	}
	MatchesResponse struct {
		Matches []models.Match `json:"matches"`
	}
	MatchResponse struct {
		Match models.Match `json:"match"`
	}
	ScoreResponse struct {
		Score models.Score `json:"score"`
	}
	ScheduleResponse struct {
		Schedule []services.GroupSchedule `json:"schedule"`
	}
	BracketResponse struct {
		Rounds []brackets.RoundView `json:"rounds"`
	}
	ExportResponse struct {
		Export storage.UploadResult `json:"export"`
	}
)

type playerPath struct {
	PlayerID string `path:"playerID"`
}

type groupPath struct {
	GroupID string `path:"groupID"`
}

type matchPath struct {
	MatchID string `path:"matchID"`
}

type recordScoreRequest struct {
	MatchID string `path:"matchID"`
	services.RecordScoreInput
}

type listMatchesQuery struct {
	Playoff *bool  `query:"playoff" description:"Only playoff (true) or only group (false) matches."`
	GroupID string `query:"group_id" description:"Only matches of this group."`
}

type operation struct {
	method, path, summary string
	req                   interface{}
	resp                  interface{}
	status                int
	errors                []int
}

var apiOperations = []operation{
	{http.MethodGet, "/api/players", "List players", nil, PlayersResponse{}, http.StatusOK, nil},
	{http.MethodPost, "/api/players", "Add a player", services.AddPlayerInput{}, PlayerResponse{}, http.StatusCreated, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}},
	{http.MethodDelete, "/api/players/{playerID}", "Remove a player with its membership, matches and scores", playerPath{}, nil, http.StatusNoContent, []int{http.StatusNotFound}},

	{http.MethodGet, "/api/groups", "List groups", nil, GroupsResponse{}, http.StatusOK, nil},
	{http.MethodPost, "/api/groups/assign", "Replace all groups with a random assignment", AssignGroupsInput{}, GroupsResponse{}, http.StatusCreated, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}},
	{http.MethodGet, "/api/groups/{groupID}/players", "List group members", groupPath{}, PlayersResponse{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodGet, "/api/groups/{groupID}/standings", "Group standings", groupPath{}, StandingsResponse{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodGet, "/api/standings", "Standings of every group", nil, AllStandingsResponse{}, http.StatusOK, nil},

	{http.MethodGet, "/api/matches", "List matches", listMatchesQuery{}, MatchesResponse{}, http.StatusOK, []int{http.StatusBadRequest}},
	{http.MethodPost, "/api/matches/generate", "Regenerate round-robin group matches", nil, MatchesResponse{}, http.StatusCreated, nil},
	{http.MethodGet, "/api/matches/{matchID}", "Get a match", matchPath{}, MatchResponse{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodGet, "/api/matches/{matchID}/score", "Get the score of a match", matchPath{}, ScoreResponse{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodPut, "/api/matches/{matchID}/score", "Record the score of a match", recordScoreRequest{}, ScoreResponse{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity}},
	{http.MethodGet, "/api/schedule", "Group matches by group", nil, ScheduleResponse{}, http.StatusOK, nil},

	{http.MethodGet, "/api/playoffs", "List playoff matches", nil, MatchesResponse{}, http.StatusOK, nil},
	{http.MethodGet, "/api/playoffs/bracket", "Playoff matches by round", nil, BracketResponse{}, http.StatusOK, nil},
	{http.MethodPost, "/api/playoffs/generate", "Regenerate playoff matches from group standings", nil, MatchesResponse{}, http.StatusCreated, nil},

	{http.MethodPost, "/api/exports", "Upload a JSON snapshot of the tournament", nil, ExportResponse{}, http.StatusCreated, []int{http.StatusNotImplemented}},
}

func newOpenAPISpec(title string) (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = title + " API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Group stage and playoff records for a table tennis tournament.")

	// GET /healthz
	health, err := r.NewOperationContext(http.MethodGet, "/healthz")
	if err != nil {
		return nil, err
	}
	health.SetSummary("Health check")
	health.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	health.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	if err := r.AddOperation(health); err != nil {
		return nil, err
	}

	for _, op := range apiOperations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			return nil, err
		}
		oc.SetSummary(op.summary)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		// every API operation reads or writes the store
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
		if err := r.AddOperation(oc); err != nil {
			return nil, err
		}
	}
	return r.Spec, nil
}

// OpenAPIHandler serves the API description as JSON.
func OpenAPIHandler(title string) (http.HandlerFunc, error) {
	spec, err := newOpenAPISpec(title)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}, nil
}
