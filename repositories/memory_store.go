package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/Dosada05/pingpong-tournament/models"
)

type memoryData struct {
	players      []models.Player
	groups       []models.Group
	playerGroups []models.PlayerGroup
	matches      []models.Match
	scores       []models.Score
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		players:      slices.Clone(d.players),
		groups:       slices.Clone(d.groups),
		playerGroups: slices.Clone(d.playerGroups),
		matches:      slices.Clone(d.matches),
		scores:       slices.Clone(d.scores),
	}
}

func (d *memoryData) hasPlayer(id string) bool {
	return slices.ContainsFunc(d.players, func(p models.Player) bool { return p.ID == id })
}

func (d *memoryData) hasGroup(id string) bool {
	return slices.ContainsFunc(d.groups, func(g models.Group) bool { return g.ID == id })
}

// deleteMatches removes the matches selected by drop and the scores of those
// matches, and returns how many matches were removed.
func (d *memoryData) deleteMatches(drop func(models.Match) bool) int64 {
	removed := make(map[string]bool)
	kept := d.matches[:0:0]
	for _, m := range d.matches {
		if drop(m) {
			removed[m.ID] = true
			continue
		}
		kept = append(kept, m)
	}
	d.matches = kept
	d.scores = slices.DeleteFunc(d.scores, func(s models.Score) bool { return removed[s.MatchID] })
	return int64(len(removed))
}

// MemoryStore is an in-process Store. Each instance is isolated. Writes
// outside WithTx are applied atomically one call at a time; inside WithTx they
// go to a private copy that replaces the committed data only when fn succeeds.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.RWMutex{}, data: &memoryData{}}
}

func (s *MemoryStore) Players() PlayerRepository { return &memoryPlayerRepository{s: s} }
func (s *MemoryStore) Groups() GroupRepository   { return &memoryGroupRepository{s: s} }
func (s *MemoryStore) Matches() MatchRepository  { return &memoryMatchRepository{s: s} }
func (s *MemoryStore) Scores() ScoreRepository   { return &memoryScoreRepository{s: s} }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txData := s.data.clone()
	if err := fn(&MemoryStore{mu: s.mu, data: txData, inTx: true}); err != nil {
		return err
	}
	s.data = txData
	return nil
}

func (s *MemoryStore) read(fn func(d *memoryData) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *MemoryStore) write(fn func(d *memoryData) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

type memoryPlayerRepository struct{ s *MemoryStore }

func (r *memoryPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	return r.s.write(func(d *memoryData) error {
		d.players = append(d.players, *player)
		return nil
	})
}

func (r *memoryPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	var found *models.Player
	err := r.s.read(func(d *memoryData) error {
		i := slices.IndexFunc(d.players, func(p models.Player) bool { return p.ID == id })
		if i < 0 {
			return ErrPlayerNotFound
		}
		p := d.players[i]
		found = &p
		return nil
	})
	return found, err
}

func (r *memoryPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	var out []models.Player
	err := r.s.read(func(d *memoryData) error {
		out = append(make([]models.Player, 0, len(d.players)), d.players...)
		return nil
	})
	return out, err
}

func (r *memoryPlayerRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(func(d *memoryData) error {
		if !d.hasPlayer(id) {
			return ErrPlayerNotFound
		}
		d.players = slices.DeleteFunc(d.players, func(p models.Player) bool { return p.ID == id })
		d.playerGroups = slices.DeleteFunc(d.playerGroups, func(pg models.PlayerGroup) bool { return pg.PlayerID == id })
		d.deleteMatches(func(m models.Match) bool { return m.HasPlayer(id) })
		return nil
	})
}

type memoryGroupRepository struct{ s *MemoryStore }

func (r *memoryGroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.s.write(func(d *memoryData) error {
		d.groups = append(d.groups, *group)
		return nil
	})
}

func (r *memoryGroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var found *models.Group
	err := r.s.read(func(d *memoryData) error {
		i := slices.IndexFunc(d.groups, func(g models.Group) bool { return g.ID == id })
		if i < 0 {
			return ErrGroupNotFound
		}
		g := d.groups[i]
		found = &g
		return nil
	})
	return found, err
}

func (r *memoryGroupRepository) List(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	err := r.s.read(func(d *memoryData) error {
		out = append(make([]models.Group, 0, len(d.groups)), d.groups...)
		return nil
	})
	return out, err
}

func (r *memoryGroupRepository) DeleteAll(ctx context.Context) error {
	return r.s.write(func(d *memoryData) error {
		d.groups = nil
		d.playerGroups = nil
		d.deleteMatches(func(m models.Match) bool { return m.GroupID != nil })
		return nil
	})
}

func (r *memoryGroupRepository) AddMember(ctx context.Context, membership models.PlayerGroup) error {
	return r.s.write(func(d *memoryData) error {
		if !d.hasPlayer(membership.PlayerID) {
			return ErrPlayerNotFound
		}
		if !d.hasGroup(membership.GroupID) {
			return ErrGroupNotFound
		}
		if slices.ContainsFunc(d.playerGroups, func(pg models.PlayerGroup) bool { return pg.PlayerID == membership.PlayerID }) {
			return ErrPlayerAlreadyGrouped
		}
		d.playerGroups = append(d.playerGroups, membership)
		return nil
	})
}

func (r *memoryGroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.Player, error) {
	members := make([]models.Player, 0)
	err := r.s.read(func(d *memoryData) error {
		for _, p := range d.players {
			if slices.Contains(d.playerGroups, models.PlayerGroup{PlayerID: p.ID, GroupID: groupID}) {
				members = append(members, p)
			}
		}
		return nil
	})
	return members, err
}

func (r *memoryGroupRepository) ListMemberships(ctx context.Context) ([]models.PlayerGroup, error) {
	var out []models.PlayerGroup
	err := r.s.read(func(d *memoryData) error {
		out = append(make([]models.PlayerGroup, 0, len(d.playerGroups)), d.playerGroups...)
		return nil
	})
	return out, err
}

type memoryMatchRepository struct{ s *MemoryStore }

func (r *memoryMatchRepository) Create(ctx context.Context, match *models.Match) error {
	return r.s.write(func(d *memoryData) error {
		if match.Player1ID == match.Player2ID {
			return ErrMatchPlayersInvalid
		}
		if !d.hasPlayer(match.Player1ID) || !d.hasPlayer(match.Player2ID) {
			return ErrPlayerNotFound
		}
		if match.GroupID != nil && !d.hasGroup(*match.GroupID) {
			return ErrGroupNotFound
		}
		d.matches = append(d.matches, *match)
		return nil
	})
}

func (r *memoryMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	var found *models.Match
	err := r.s.read(func(d *memoryData) error {
		i := slices.IndexFunc(d.matches, func(m models.Match) bool { return m.ID == id })
		if i < 0 {
			return ErrMatchNotFound
		}
		m := d.matches[i]
		found = &m
		return nil
	})
	return found, err
}

func (r *memoryMatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	out := make([]models.Match, 0)
	err := r.s.read(func(d *memoryData) error {
		for _, m := range d.matches {
			if filter.IsPlayoff != nil && m.IsPlayoff != *filter.IsPlayoff {
				continue
			}
			if filter.GroupID != nil && !m.InGroup(*filter.GroupID) {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	return out, err
}

func (r *memoryMatchRepository) DeleteByPlayoff(ctx context.Context, isPlayoff bool) (int64, error) {
	var n int64
	err := r.s.write(func(d *memoryData) error {
		n = d.deleteMatches(func(m models.Match) bool { return m.IsPlayoff == isPlayoff })
		return nil
	})
	return n, err
}

func (r *memoryMatchRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.s.write(func(d *memoryData) error {
		i := slices.IndexFunc(d.matches, func(m models.Match) bool { return m.ID == id })
		if i < 0 {
			return ErrMatchNotFound
		}
		d.matches[i].Completed = true
		return nil
	})
}

type memoryScoreRepository struct{ s *MemoryStore }

func (r *memoryScoreRepository) Upsert(ctx context.Context, score models.Score) error {
	return r.s.write(func(d *memoryData) error {
		if !slices.ContainsFunc(d.matches, func(m models.Match) bool { return m.ID == score.MatchID }) {
			return ErrMatchNotFound
		}
		if i := slices.IndexFunc(d.scores, func(s models.Score) bool { return s.MatchID == score.MatchID }); i >= 0 {
			d.scores[i] = score
			return nil
		}
		d.scores = append(d.scores, score)
		return nil
	})
}

func (r *memoryScoreRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Score, error) {
	var found *models.Score
	err := r.s.read(func(d *memoryData) error {
		i := slices.IndexFunc(d.scores, func(s models.Score) bool { return s.MatchID == matchID })
		if i < 0 {
			return ErrScoreNotFound
		}
		sc := d.scores[i]
		found = &sc
		return nil
	})
	return found, err
}

func (r *memoryScoreRepository) List(ctx context.Context) ([]models.Score, error) {
	var out []models.Score
	err := r.s.read(func(d *memoryData) error {
		out = append(make([]models.Score, 0, len(d.scores)), d.scores...)
		return nil
	})
	return out, err
}
