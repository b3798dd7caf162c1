package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is an append-only record of one scored submission.
// Answers holds the selected option index per question position;
// a null entry means the question was left unanswered.
type QuizAttempt struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	UserID      uint           `json:"user_id" gorm:"index;not null"`
	QuizID      uint           `json:"quiz_id" gorm:"index;not null"`
	Answers     datatypes.JSON `json:"answers"`
	Score       int            `json:"score" gorm:"not null"`
	Passed      bool           `json:"passed" gorm:"not null"`
	TimeSpent   int            `json:"time_spent"`
	CompletedAt time.Time      `json:"completed_at"`
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}
