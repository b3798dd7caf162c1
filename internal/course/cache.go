package course

import (
	"log"

	"elearn-platform/internal/models"
)

// ContentCache holds course content. Courses are immutable once
// authored, so entries stay valid until they expire. Implemented by
// the Redis cache.
type ContentCache interface {
	GetCourse(courseID uint) (*models.Course, error)
	SetCourse(course *models.Course) error
	GetCourseList() ([]models.Course, error)
	SetCourseList(courses []models.Course) error
}

// CachedStore is a read-through layer over a Store for the catalog
// reads every authenticated page triggers. Per-user progress reads and
// writes pass straight through.
type CachedStore struct {
	Store
	cache ContentCache
}

func NewCachedStore(store Store, cache ContentCache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

var _ Store = (*CachedStore)(nil)

func (s *CachedStore) GetAllCourses() ([]models.Course, error) {
	if courses, err := s.cache.GetCourseList(); err == nil {
		return courses, nil
	}

	courses, err := s.Store.GetAllCourses()
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCourseList(courses); err != nil {
		log.Printf("Error caching course list: %v", err)
	}
	return courses, nil
}

func (s *CachedStore) GetCourse(courseID uint) (*models.Course, error) {
	if course, err := s.cache.GetCourse(courseID); err == nil {
		return course, nil
	}

	course, err := s.Store.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCourse(course); err != nil {
		log.Printf("Error caching course %d: %v", course.ID, err)
	}
	return course, nil
}
