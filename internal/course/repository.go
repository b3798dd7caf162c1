package course

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"elearn-platform/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// Course reads preload the quiz row but never its questions: question
// rows carry correct answers and only the scoring path may load them.

func (r *Repository) GetAllCourses() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Preload("Quiz").
		Order("id asc").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *Repository) GetCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Preload("Quiz").
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, models.ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}

func (r *Repository) GetCourseLessons(courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Where("course_id = ?", courseID).
		Order("position asc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *Repository) GetLesson(lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, lessonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lesson %d: %w", lessonID, models.ErrNotFound)
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *Repository) GetUserWithProgress(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("ReadLessons").
		Preload("PassedQuizzes").
		Preload("CompletedCourses").
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// AddReadLesson appends to the user's read set. Only a bare reference
// goes into the append so content rows are never rewritten; the join
// table keeps set semantics, so a concurrent duplicate append is
// harmless.
func (r *Repository) AddReadLesson(userID uint, lessonID uint) error {
	return r.db.Model(&models.User{ID: userID}).
		Association("ReadLessons").
		Append(&models.Lesson{ID: lessonID})
}

func (r *Repository) AddCompletedCourse(userID uint, courseID uint) error {
	return r.db.Model(&models.User{ID: userID}).
		Association("CompletedCourses").
		Append(&models.Course{ID: courseID})
}
