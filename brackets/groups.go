package brackets

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/google/uuid"
)

const (
	MinGroups = 1
	MaxGroups = 10
)

var ErrInvalidGroupCount = errors.New("group count out of range")

func ValidateGroupCount(n int) error {
	if n < MinGroups || n > MaxGroups {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidGroupCount, n, MinGroups, MaxGroups)
	}
	return nil
}

// AssignGroups creates n groups named "Group 1".."Group n" and deals the
// shuffled players into them round-robin, so group sizes differ by at most one
// and every player lands in exactly one group.
func AssignGroups(rng *rand.Rand, players []models.Player, n int, now time.Time) ([]models.Group, []models.PlayerGroup, error) {
	if err := ValidateGroupCount(n); err != nil {
		return nil, nil, err
	}

	groups := make([]models.Group, n)
	for i := range groups {
		groups[i] = models.Group{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Group %d", i+1),
			CreatedAt: now,
		}
	}

	shuffled := Shuffle(rng, players)
	memberships := make([]models.PlayerGroup, 0, len(shuffled))
	for i, p := range shuffled {
		memberships = append(memberships, models.PlayerGroup{
			PlayerID: p.ID,
			GroupID:  groups[i%n].ID,
		})
	}
	return groups, memberships, nil
}
