package course

import (
	"log"

	"elearn-platform/internal/models"
	"elearn-platform/internal/progress"
)

type Store interface {
	GetAllCourses() ([]models.Course, error)
	GetCourse(courseID uint) (*models.Course, error)
	GetCourseLessons(courseID uint) ([]models.Lesson, error)
	GetLesson(lessonID uint) (*models.Lesson, error)
	GetUserWithProgress(userID uint) (*models.User, error)
	AddReadLesson(userID uint, lessonID uint) error
	AddCompletedCourse(userID uint, courseID uint) error
}

// Notifier pushes progress events to connected clients. Satisfied by
// the websocket hub.
type Notifier interface {
	Broadcast(messageType string, data interface{})
	SendToUser(userID uint, messageType string, data interface{})
}

// LeaderboardCache invalidates the cached ranking after a first-time
// completion. Satisfied by the redis cache.
type LeaderboardCache interface {
	InvalidateLeaderboard() error
}

type Service struct {
	store Store
	hub   Notifier
	cache LeaderboardCache
}

func NewService(store Store, hub Notifier, cache LeaderboardCache) *Service {
	return &Service{
		store: store,
		hub:   hub,
		cache: cache,
	}
}

// CourseView is a course joined with the caller's derived progress.
// The join happens here at the API boundary; nothing is written back
// onto the content entity.
type CourseView struct {
	models.Course
	Completed bool                    `json:"completed"`
	Progress  progress.CourseProgress `json:"progress"`
}

func (s *Service) ListCourses(userID uint) ([]CourseView, error) {
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.GetAllCourses()
	if err != nil {
		return nil, err
	}

	readSet := user.ReadLessonSet()
	passedSet := user.PassedQuizSet()

	views := make([]CourseView, len(courses))
	for i := range courses {
		views[i] = CourseView{
			Course:    courses[i],
			Completed: user.HasCompletedCourse(courses[i].ID),
			Progress:  progress.ComputeCourseProgress(&courses[i], readSet, passedSet),
		}
	}
	return views, nil
}

type CourseDetail struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Lessons     []models.LessonDTO      `json:"lessons"`
	Quiz        *models.QuizSummaryDTO  `json:"quiz,omitempty"`
	Completed   bool                    `json:"completed"`
	Progress    progress.CourseProgress `json:"progress"`
}

func (s *Service) GetCourse(courseID, userID uint) (*CourseDetail, error) {
	course, err := s.store.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}

	readSet := user.ReadLessonSet()
	passedSet := user.PassedQuizSet()

	lessons := make([]models.LessonDTO, len(course.Lessons))
	for i, lesson := range course.Lessons {
		lessons[i] = lesson.ToDTO(readSet[lesson.ID])
	}

	detail := &CourseDetail{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Lessons:     lessons,
		Completed:   user.HasCompletedCourse(course.ID),
		Progress:    progress.ComputeCourseProgress(course, readSet, passedSet),
	}
	if course.Quiz != nil {
		summary := course.Quiz.ToSummaryDTO(passedSet[course.Quiz.ID])
		detail.Quiz = &summary
	}
	return detail, nil
}

func (s *Service) GetCourseLessons(courseID, userID uint) ([]models.LessonDTO, error) {
	if _, err := s.store.GetCourse(courseID); err != nil {
		return nil, err
	}
	lessons, err := s.store.GetCourseLessons(courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}

	readSet := user.ReadLessonSet()
	dtos := make([]models.LessonDTO, len(lessons))
	for i, lesson := range lessons {
		dtos[i] = lesson.ToDTO(readSet[lesson.ID])
	}
	return dtos, nil
}

func (s *Service) GetLesson(lessonID, userID uint) (*models.LessonDTO, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}

	dto := lesson.ToDTO(user.HasReadLesson(lesson.ID))
	if course, err := s.store.GetCourse(lesson.CourseID); err == nil {
		dto.CourseTitle = course.Title
	}
	return &dto, nil
}

type MarkReadResult struct {
	Read            bool `json:"read"`
	AlreadyRead     bool `json:"already_read"`
	CourseCompleted bool `json:"course_completed"`
}

// MarkLessonRead is idempotent: marking a lesson that is already in
// the read set changes nothing. Either way the owning course gets a
// completion check.
func (s *Service) MarkLessonRead(userID, lessonID uint) (*MarkReadResult, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}

	alreadyRead := user.HasReadLesson(lessonID)
	if !alreadyRead {
		if err := s.store.AddReadLesson(userID, lessonID); err != nil {
			return nil, err
		}
	}

	completed, _ := s.CheckCourseCompletion(userID, lesson.CourseID)

	return &MarkReadResult{
		Read:            true,
		AlreadyRead:     alreadyRead,
		CourseCompleted: completed,
	}, nil
}

// CheckCourseCompletion re-evaluates the completion predicate from the
// current sets. On the first evaluation that comes out true the course
// is appended to completedCourses and downstream consumers are
// notified. Errors degrade to "not completed": completion is derived,
// so a missed detection is recomputed on the next triggering event.
func (s *Service) CheckCourseCompletion(userID, courseID uint) (completed bool, firstTime bool) {
	course, err := s.store.GetCourse(courseID)
	if err != nil {
		log.Printf("Error checking course completion: %v", err)
		return false, false
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		log.Printf("Error checking course completion: %v", err)
		return false, false
	}

	if !progress.IsCourseComplete(course, user.ReadLessonSet(), user.PassedQuizSet()) {
		return false, false
	}

	if user.HasCompletedCourse(courseID) {
		return true, false
	}

	if err := s.store.AddCompletedCourse(userID, courseID); err != nil {
		log.Printf("Error recording course completion: %v", err)
		return false, false
	}
	s.notifyCompletion(userID, course)
	return true, true
}

func (s *Service) notifyCompletion(userID uint, course *models.Course) {
	if s.cache != nil {
		if err := s.cache.InvalidateLeaderboard(); err != nil {
			log.Printf("Error invalidating leaderboard cache: %v", err)
		}
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, "course_completed", map[string]interface{}{
			"course_id": course.ID,
			"title":     course.Title,
		})
		s.hub.Broadcast("leaderboard_refresh", nil)
	}
}
