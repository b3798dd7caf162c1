package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"elearn-platform/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ UserRepository = (*Repository)(nil)

func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

// GetUserByMagicToken matches an unexpired magic-link token.
func (r *Repository) GetUserByMagicToken(token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.Where("magic_link_token = ? AND magic_link_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTokenExpired
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserWithProgress(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("CompletedCourses").
		Preload("ReadLessons").
		Preload("PassedQuizzes").
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
