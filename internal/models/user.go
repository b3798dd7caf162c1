package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is created on the first magic-link request for an email address.
// The three association slices are membership sets: they only ever grow.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	MagicLinkToken   string     `json:"-" gorm:"index"`
	MagicLinkExpires *time.Time `json:"-"`

	ReadLessons      []Lesson `json:"-" gorm:"many2many:user_read_lessons;"`
	PassedQuizzes    []Quiz   `json:"-" gorm:"many2many:user_passed_quizzes;"`
	CompletedCourses []Course `json:"-" gorm:"many2many:user_completed_courses;"`
}

// Username is the local part of the email address.
func (u *User) Username() string {
	if i := strings.IndexByte(u.Email, '@'); i >= 0 {
		return u.Email[:i]
	}
	return u.Email
}

// Score is the number of completed courses. CompletedCourses must be loaded.
func (u *User) Score() int {
	return len(u.CompletedCourses)
}

func (u *User) ReadLessonSet() map[uint]bool {
	set := make(map[uint]bool, len(u.ReadLessons))
	for _, l := range u.ReadLessons {
		set[l.ID] = true
	}
	return set
}

func (u *User) PassedQuizSet() map[uint]bool {
	set := make(map[uint]bool, len(u.PassedQuizzes))
	for _, q := range u.PassedQuizzes {
		set[q.ID] = true
	}
	return set
}

func (u *User) HasCompletedCourse(courseID uint) bool {
	for _, c := range u.CompletedCourses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}

func (u *User) HasPassedQuiz(quizID uint) bool {
	for _, q := range u.PassedQuizzes {
		if q.ID == quizID {
			return true
		}
	}
	return false
}

func (u *User) HasReadLesson(lessonID uint) bool {
	for _, l := range u.ReadLessons {
		if l.ID == lessonID {
			return true
		}
	}
	return false
}
