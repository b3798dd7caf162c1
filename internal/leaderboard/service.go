package leaderboard

import (
	"log"
	"sort"

	"elearn-platform/internal/models"
)

const topSize = 10

type Store interface {
	GetAllUsers() ([]models.User, error)
}

// Cache holds a computed ranking between completions. Satisfied by the
// redis cache.
type Cache interface {
	GetLeaderboard() ([]models.LeaderboardEntry, error)
	SetLeaderboard(entries []models.LeaderboardEntry) error
}

type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
	}
}

// GetLeaderboard returns the top ten users by completed-course count.
func (s *Service) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		if entries, err := s.cache.GetLeaderboard(); err == nil {
			return entries, nil
		}
	}

	users, err := s.store.GetAllUsers()
	if err != nil {
		return nil, err
	}
	entries := Rank(users)

	if s.cache != nil {
		if err := s.cache.SetLeaderboard(entries); err != nil {
			log.Printf("Error caching leaderboard: %v", err)
		}
	}
	return entries, nil
}

// Rank sorts users by completed-course count descending. Ties are
// broken by ascending user id, so recomputing over the same state
// always yields the same order. Truncated to the top ten.
func Rank(users []models.User) []models.LeaderboardEntry {
	ranked := make([]models.User, len(users))
	copy(ranked, users)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > topSize {
		ranked = ranked[:topSize]
	}

	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, user := range ranked {
		entries[i] = models.LeaderboardEntry{
			Username: user.Username(),
			Score:    user.Score(),
		}
	}
	return entries
}
