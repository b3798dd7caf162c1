package leaderboard

import (
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

func (r *Repository) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("CompletedCourses").
		Order("id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
