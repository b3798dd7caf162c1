package leaderboard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearn-platform/internal/models"
)

func userWithScore(id uint, email string, completed int) models.User {
	u := models.User{ID: id, Email: email}
	for i := 0; i < completed; i++ {
		u.CompletedCourses = append(u.CompletedCourses, models.Course{ID: uint(i + 1)})
	}
	return u
}

func TestRank(t *testing.T) {
	users := []models.User{
		userWithScore(1, "alice@example.com", 3),
		userWithScore(2, "bob@example.com", 1),
		userWithScore(3, "carol@example.com", 3),
		userWithScore(4, "dave@example.com", 0),
	}

	entries := Rank(users)

	require.Len(t, entries, 4)
	assert.Equal(t, []models.LeaderboardEntry{
		{Username: "alice", Score: 3},
		{Username: "carol", Score: 3}, // tie broken by lower user id first
		{Username: "bob", Score: 1},
		{Username: "dave", Score: 0},
	}, entries)
}

func TestRank_TruncatesToTopTen(t *testing.T) {
	var users []models.User
	for i := 1; i <= 12; i++ {
		users = append(users, userWithScore(uint(i), fmt.Sprintf("user%d@example.com", i), i))
	}

	entries := Rank(users)

	require.Len(t, entries, 10)
	assert.Equal(t, "user12", entries[0].Username)
	assert.Equal(t, 12, entries[0].Score)
	assert.Equal(t, "user3", entries[9].Username)
}

func TestRank_InputOrderIrrelevant(t *testing.T) {
	forward := []models.User{
		userWithScore(1, "a@x.com", 2),
		userWithScore(2, "b@x.com", 2),
	}
	backward := []models.User{forward[1], forward[0]}

	assert.Equal(t, Rank(forward), Rank(backward))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

type fakeStore struct {
	users []models.User
	calls int
}

func (f *fakeStore) GetAllUsers() ([]models.User, error) {
	f.calls++
	return f.users, nil
}

type fakeCache struct {
	entries []models.LeaderboardEntry
	sets    int
}

func (f *fakeCache) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	if f.entries == nil {
		return nil, errors.New("cache miss")
	}
	return f.entries, nil
}

func (f *fakeCache) SetLeaderboard(entries []models.LeaderboardEntry) error {
	f.entries = entries
	f.sets++
	return nil
}

func TestGetLeaderboard_CacheMissThenHit(t *testing.T) {
	store := &fakeStore{users: []models.User{userWithScore(1, "alice@example.com", 2)}}
	cache := &fakeCache{}
	svc := NewService(store, cache)

	first, err := svc.GetLeaderboard()
	require.NoError(t, err)
	second, err := svc.GetLeaderboard()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls, "second fetch is served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestGetLeaderboard_NoCache(t *testing.T) {
	store := &fakeStore{users: []models.User{userWithScore(1, "alice@example.com", 1)}}
	svc := NewService(store, nil)

	entries, err := svc.GetLeaderboard()
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{{Username: "alice", Score: 1}}, entries)
}
