package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content entities are authored out of band and never mutated by the
// learner-facing code.

type Course struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Title        string   `json:"title" gorm:"not null"`
	Description  string   `json:"description" gorm:"not null"`
	InstructorID *uint    `json:"instructor_id,omitempty"`
	Lessons      []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	Quiz         *Quiz    `json:"quiz,omitempty" gorm:"foreignKey:CourseID"`
}

// LessonIDs returns the course's lesson ids in position order.
// Lessons must be loaded.
func (c *Course) LessonIDs() []uint {
	ids := make([]uint, len(c.Lessons))
	for i, l := range c.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// QuizID returns the id of the course's quiz, or nil when the course
// has no quiz.
func (c *Course) QuizID() *uint {
	if c.Quiz == nil {
		return nil
	}
	return &c.Quiz.ID
}

type Lesson struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Content  string `json:"content" gorm:"not null"`
	Position int    `json:"position"`
}

type Quiz struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	CourseID     uint       `json:"course_id" gorm:"uniqueIndex;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	PassingScore int        `json:"passing_score" gorm:"default:70"`
	TimeLimit    int        `json:"time_limit" gorm:"default:30"`
	MaxAttempts  int        `json:"max_attempts" gorm:"default:3"`
}

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	Prompt        string         `json:"question" gorm:"not null"`
	Options       datatypes.JSON `json:"options" gorm:"not null"`
	CorrectAnswer int            `json:"correct_answer" gorm:"not null"`
	Explanation   string         `json:"explanation"`
	Position      int            `json:"position"`
}
