package quiz

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

func (r *Repository) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuizByCourse(courseID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("course_id = ?", courseID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz for course %d: %w", courseID, models.ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetUserWithProgress(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("PassedQuizzes").
		Preload("ReadLessons").
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

func (r *Repository) AddPassedQuiz(userID uint, quizID uint) error {
	return r.db.Model(&models.User{ID: userID}).
		Association("PassedQuizzes").
		Append(&models.Quiz{ID: quizID})
}

func (r *Repository) SaveAttempt(attempt *models.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *Repository) CountAttempts(userID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

func (r *Repository) GetAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at desc").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
