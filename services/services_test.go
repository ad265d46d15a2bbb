package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store     *repositories.MemoryStore
	uploader  *storage.MemoryUploader
	players   services.PlayerService
	groups    services.GroupService
	matches   services.MatchService
	scores    services.ScoreService
	standings services.StandingsService
	playoffs  services.PlayoffService
	exports   services.ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	cache := services.NewCache(store)
	rng := services.NewRand(7, 11)

	uploader, err := storage.NewMemoryUploader("https://cdn.example.com/")
	require.NoError(t, err)

	return &testEnv{
		store:     store,
		uploader:  uploader,
		players:   services.NewPlayerService(store, cache, logger),
		groups:    services.NewGroupService(store, cache, rng, logger),
		matches:   services.NewMatchService(store, cache, logger),
		scores:    services.NewScoreService(store, cache, logger),
		standings: services.NewStandingsService(cache),
		playoffs:  services.NewPlayoffService(store, cache, rng, logger),
		exports:   services.NewExportService(cache, uploader, "Office Table Tennis", logger),
	}
}

func (e *testEnv) addPlayers(t *testing.T, names ...string) []models.Player {
	t.Helper()
	out := make([]models.Player, 0, len(names))
	for _, name := range names {
		p, err := e.players.AddPlayer(context.Background(), services.AddPlayerInput{
			Name:  name,
			Email: strings.ToLower(name) + "@example.com",
		})
		require.NoError(t, err)
		out = append(out, *p)
	}
	return out
}

func findMatch(t *testing.T, matches []models.Match, a, b string) models.Match {
	t.Helper()
	for _, m := range matches {
		if m.HasPlayer(a) && m.HasPlayer(b) {
			return m
		}
	}
	t.Fatalf("no match between %s and %s", a, b)
	return models.Match{}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func scoreInput(p1, p2 int) services.RecordScoreInput {
	return services.RecordScoreInput{Player1Score: intPtr(p1), Player2Score: intPtr(p2)}
}

func TestAddPlayerValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input services.AddPlayerInput
		want  error
	}{
		{"empty name", services.AddPlayerInput{Name: "  ", Email: "a@example.com"}, services.ErrPlayerNameRequired},
		{"long name", services.AddPlayerInput{Name: strings.Repeat("x", 101), Email: "a@example.com"}, services.ErrPlayerNameTooLong},
		{"bad email", services.AddPlayerInput{Name: "Ann", Email: "not-an-email"}, services.ErrInvalidEmail},
		{"display name email", services.AddPlayerInput{Name: "Ann", Email: "Ann <a@example.com>"}, services.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.players.AddPlayer(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, services.ErrInvalidArgument)
		})
	}

	players, err := env.players.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)

	p, err := env.players.AddPlayer(ctx, services.AddPlayerInput{Name: " Ann ", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestListPlayersSeesNewPlayers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	players, err := env.players.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)

	added := env.addPlayers(t, "Ann", "Bob")

	players, err = env.players.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, added, players)
}

func TestAssignRandomGroupsPartitionsPlayers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	players := env.addPlayers(t, "A", "B", "C", "D", "E", "F", "G")

	groups, err := env.groups.AssignRandomGroups(ctx, 3)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	seen := make(map[string]int)
	for _, g := range groups {
		members, err := env.groups.GroupMembers(ctx, g.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(members), 2)
		assert.LessOrEqual(t, len(members), 3)
		for _, m := range members {
			seen[m.ID]++
		}
	}
	require.Len(t, seen, len(players))
	for _, p := range players {
		assert.Equal(t, 1, seen[p.ID], "player %s", p.Name)
	}

	// reassignment replaces the previous groups
	again, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)
	listed, err := env.groups.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, again, listed)
}

func TestAssignRandomGroupsRejectsInvalidCount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C")

	before, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)

	for _, n := range []int{0, -1, 11} {
		_, err := env.groups.AssignRandomGroups(ctx, n)
		assert.ErrorIs(t, err, services.ErrInvalidArgument, "count %d", n)
	}

	after, err := env.groups.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGroupMembersUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.groups.GroupMembers(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGenerateRoundRobinMatches(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.addPlayers(t, "A", "B", "C")

	groups, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)

	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, pair := range [][2]string{{p[0].ID, p[1].ID}, {p[0].ID, p[2].ID}, {p[1].ID, p[2].ID}} {
		m := findMatch(t, created, pair[0], pair[1])
		assert.True(t, m.InGroup(groups[0].ID))
		assert.False(t, m.IsPlayoff)
		assert.Equal(t, 1, m.Round)
		assert.False(t, m.Completed)
	}

	// regeneration replaces rather than appends
	_, err = env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	all, err := env.matches.ListMatches(ctx, models.MatchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	schedule, err := env.matches.GenerateSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, groups[0].ID, schedule[0].Group.ID)
	assert.Len(t, schedule[0].Matches, 3)
}

func TestRecordScoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.addPlayers(t, "A", "B")
	_, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)
	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	match := created[0]

	_, err = env.scores.MatchScore(ctx, match.ID)
	assert.ErrorIs(t, err, services.ErrScoreNotFound)

	for i := 0; i < 2; i++ {
		score, err := env.scores.RecordScore(ctx, match.ID, scoreInput(11, 7))
		require.NoError(t, err)
		require.NotNil(t, score.WinnerID)
		assert.Equal(t, match.Player1ID, *score.WinnerID)
	}

	stored, err := env.store.Scores().List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	got, err := env.matches.MatchByID(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	standings, err := env.standings.GroupStandings(ctx, *match.GroupID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	winner := standings[0]
	assert.Equal(t, match.Player1ID, winner.Player.ID)
	assert.Equal(t, 1, winner.Played)
	assert.Equal(t, 1, winner.Won)
	assert.Equal(t, 2, winner.Points)
	loser := standings[1]
	assert.Equal(t, 1, loser.Lost)
	assert.Equal(t, 0, loser.Points)
	assert.ElementsMatch(t, []string{p[0].ID, p[1].ID}, []string{winner.Player.ID, loser.Player.ID})
}

func TestRecordScoreDraw(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B")
	_, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)
	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	match := created[0]

	score, err := env.scores.RecordScore(ctx, match.ID, scoreInput(5, 5))
	require.NoError(t, err)
	assert.Nil(t, score.WinnerID)

	all, err := env.standings.AllStandings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	for _, s := range all[0].Standings {
		assert.Equal(t, 1, s.Drawn)
		assert.Equal(t, 1, s.Points)
	}
}

func TestRecordScoreErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B")
	_, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)
	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)

	invalid := []struct {
		name  string
		input services.RecordScoreInput
		want  error
	}{
		{"negative", scoreInput(-1, 3), services.ErrNegativeScore},
		{"missing both", services.RecordScoreInput{}, services.ErrScoreRequired},
		{"missing player2", services.RecordScoreInput{Player1Score: intPtr(11)}, services.ErrScoreRequired},
		{"missing player1", services.RecordScoreInput{Player2Score: intPtr(0)}, services.ErrScoreRequired},
		{"too large", scoreInput(services.MaxScore+1, 3), services.ErrScoreTooLarge},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.scores.RecordScore(ctx, created[0].ID, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, services.ErrInvalidArgument)
		})
	}

	match, err := env.matches.MatchByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.False(t, match.Completed)

	_, err = env.scores.RecordScore(ctx, "missing", scoreInput(1, 3))
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = env.scores.MatchScore(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)

	stored, err := env.store.Scores().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// the upper bound itself is accepted
	score, err := env.scores.RecordScore(ctx, created[0].ID, scoreInput(services.MaxScore, 0))
	require.NoError(t, err)
	assert.Equal(t, services.MaxScore, score.Player1Score)
}

func TestStandingsUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.standings.GroupStandings(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGeneratePlayoffs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C", "D", "E", "F")

	groups, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)
	groupMatches, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	require.Len(t, groupMatches, 6)

	for _, m := range groupMatches {
		_, err := env.scores.RecordScore(ctx, m.ID, scoreInput(11, 3))
		require.NoError(t, err)
	}

	want := make(map[string]bool)
	for _, g := range groups {
		standings, err := env.standings.GroupStandings(ctx, g.ID)
		require.NoError(t, err)
		want[standings[0].Player.ID] = true
		want[standings[1].Player.ID] = true
	}

	playoffs, err := env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)
	require.Len(t, playoffs, 2)

	got := make(map[string]bool)
	for _, m := range playoffs {
		assert.True(t, m.IsPlayoff)
		assert.Nil(t, m.GroupID)
		assert.Equal(t, 1, m.Round)
		got[m.Player1ID] = true
		got[m.Player2ID] = true
	}
	assert.Equal(t, want, got)

	bracket, err := env.playoffs.Bracket(ctx)
	require.NoError(t, err)
	require.Len(t, bracket, 1)
	assert.Len(t, bracket[0].Matches, 2)
}

func TestGeneratePlayoffsOddQualifiers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C")

	// sizes 2 and 1 give three qualifiers
	_, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)

	playoffs, err := env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)
	assert.Len(t, playoffs, 1)
}

func TestRegenerationIsolation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C", "D")
	_, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)

	groupMatches, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	playoffs, err := env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, playoffs)

	// new playoffs leave group matches alone
	_, err = env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)
	listed, err := env.matches.ListMatches(ctx, models.MatchFilter{IsPlayoff: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, groupMatches, listed)

	// new group matches leave playoffs alone
	current, err := env.playoffs.ListPlayoffMatches(ctx)
	require.NoError(t, err)
	_, err = env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	after, err := env.playoffs.ListPlayoffMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, current, after)
}

func TestRemovePlayerCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.addPlayers(t, "A", "B", "C")
	groups, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)
	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	for _, m := range created {
		_, err := env.scores.RecordScore(ctx, m.ID, scoreInput(3, 1))
		require.NoError(t, err)
	}

	require.NoError(t, env.players.RemovePlayer(ctx, p[0].ID))

	members, err := env.groups.GroupMembers(ctx, groups[0].ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	matches, err := env.matches.ListMatches(ctx, models.MatchFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].HasPlayer(p[0].ID))

	scores, err := env.store.Scores().List(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, matches[0].ID, scores[0].MatchID)

	err = env.players.RemovePlayer(ctx, p[0].ID)
	assert.ErrorIs(t, err, services.ErrPlayerNotFound)
}

func TestExportSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "Ann")

	res, err := env.exports.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "office-table-tennis/"), res.Key)
	assert.True(t, strings.HasSuffix(res.Key, ".json"), res.Key)
	assert.Equal(t, "https://cdn.example.com/"+res.Key, res.Location)

	body, ok := env.uploader.Object(res.Key)
	require.True(t, ok)
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Ann", snap.Players[0].Name)
}

func TestExportDisabled(t *testing.T) {
	store := repositories.NewMemoryStore()
	exports := services.NewExportService(services.NewCache(store), nil, "x", slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := exports.ExportSnapshot(context.Background())
	assert.ErrorIs(t, err, services.ErrExportDisabled)
}

func TestCacheConcurrentReads(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.players.ListPlayers(ctx)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.players.AddPlayer(ctx, services.AddPlayerInput{Name: "P", Email: "p@example.com"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	players, err := env.players.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 8)
}

func TestStandingsWinCase(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.addPlayers(t, "A", "B", "C")
	groups, err := env.groups.AssignRandomGroups(ctx, 1)
	require.NoError(t, err)
	created, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)

	win := func(winner, loser string) {
		m := findMatch(t, created, winner, loser)
		input := scoreInput(11, 4)
		if m.Player2ID == winner {
			input = scoreInput(4, 11)
		}
		_, err := env.scores.RecordScore(ctx, m.ID, input)
		require.NoError(t, err)
	}
	win(p[0].ID, p[1].ID)
	win(p[0].ID, p[2].ID)
	win(p[1].ID, p[2].ID)

	standings, err := env.standings.GroupStandings(ctx, groups[0].ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	top := standings[0]
	assert.Equal(t, p[0].ID, top.Player.ID)
	assert.Equal(t, 2, top.Played)
	assert.Equal(t, 2, top.Won)
	assert.Equal(t, 0, top.Lost)
	assert.Equal(t, 4, top.Points)

	assert.Equal(t, p[1].ID, standings[1].Player.ID)
	assert.Equal(t, 2, standings[1].Points)
	assert.Equal(t, p[2].ID, standings[2].Player.ID)
	assert.Equal(t, 0, standings[2].Points)
}

func TestAssignRandomGroupsDropsGroupMatchesKeepsPlayoffs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C", "D")
	_, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)
	groupMatches, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	require.Len(t, groupMatches, 2)
	_, err = env.scores.RecordScore(ctx, groupMatches[0].ID, scoreInput(11, 9))
	require.NoError(t, err)

	_, err = env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)
	playoffs, err := env.playoffs.ListPlayoffMatches(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, playoffs)

	_, err = env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)

	remaining, err := env.matches.ListMatches(ctx, models.MatchFilter{IsPlayoff: boolPtr(false)})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = env.scores.MatchScore(ctx, groupMatches[0].ID)
	assert.ErrorIs(t, err, services.ErrMatchNotFound)

	after, err := env.playoffs.ListPlayoffMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, playoffs, after)
}

var errCreateFailed = errors.New("insert failed")

// brokenCreateStore fails every match insert, inside or outside a transaction.
type brokenCreateStore struct {
	repositories.Store
}

func (s brokenCreateStore) Matches() repositories.MatchRepository {
	return brokenCreateMatches{s.Store.Matches()}
}

func (s brokenCreateStore) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repositories.Store) error {
		return fn(brokenCreateStore{tx})
	})
}

type brokenCreateMatches struct {
	repositories.MatchRepository
}

func (brokenCreateMatches) Create(context.Context, *models.Match) error {
	return errCreateFailed
}

func TestFailedRegenerationKeepsCommittedMatches(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addPlayers(t, "A", "B", "C", "D")
	_, err := env.groups.AssignRandomGroups(ctx, 2)
	require.NoError(t, err)
	groupMatches, err := env.matches.GenerateRoundRobinMatches(ctx)
	require.NoError(t, err)
	_, err = env.scores.RecordScore(ctx, groupMatches[0].ID, scoreInput(11, 2))
	require.NoError(t, err)
	_, err = env.playoffs.GeneratePlayoffs(ctx)
	require.NoError(t, err)

	before, err := env.store.Matches().List(ctx, models.MatchFilter{})
	require.NoError(t, err)
	scoresBefore, err := env.store.Scores().List(ctx)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broken := brokenCreateStore{env.store}
	cache := services.NewCache(broken)

	_, err = services.NewMatchService(broken, cache, logger).GenerateRoundRobinMatches(ctx)
	assert.ErrorIs(t, err, errCreateFailed)

	_, err = services.NewPlayoffService(broken, cache, services.NewRand(1, 2), logger).GeneratePlayoffs(ctx)
	assert.ErrorIs(t, err, errCreateFailed)

	after, err := env.store.Matches().List(ctx, models.MatchFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	scoresAfter, err := env.store.Scores().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoresBefore, scoresAfter)
}
