package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"elearn-platform/internal/models"
)

// Course content is immutable once authored, so cached courses get a
// long TTL. The leaderboard is derived and cheap to recompute, so it
// gets a short TTL plus explicit invalidation on completions.
const (
	courseTTL      = 24 * time.Hour
	leaderboardTTL = time.Minute
	leaderboardKey = "leaderboard:top"
	courseListKey  = "courses:all"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetCourse(course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("course:%d", course.ID)
	return c.client.Set(c.ctx, key, data, courseTTL).Err()
}

func (c *RedisCache) GetCourse(courseID uint) (*models.Course, error) {
	key := fmt.Sprintf("course:%d", courseID)
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = json.Unmarshal(data, &course)
	return &course, err
}

func (c *RedisCache) SetCourseList(courses []models.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, courseListKey, data, courseTTL).Err()
}

func (c *RedisCache) GetCourseList() ([]models.Course, error) {
	data, err := c.client.Get(c.ctx, courseListKey).Bytes()
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *RedisCache) SetLeaderboard(entries []models.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, leaderboardKey, data, leaderboardTTL).Err()
}

func (c *RedisCache) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	data, err := c.client.Get(c.ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, err
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InvalidateLeaderboard drops the cached ranking so the next fetch
// recomputes it. Called after every first-time course completion.
func (c *RedisCache) InvalidateLeaderboard() error {
	return c.client.Del(c.ctx, leaderboardKey).Err()
}
