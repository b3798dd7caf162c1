// Package progress holds the pure course-progress and quiz-scoring
// rules. Everything here computes from (content state, user state)
// passed in by the caller; persistence stays in the service layers.
package progress

import (
	"math"

	"elearn-platform/internal/models"
)

type QuizStatus string

const (
	QuizNotRequired QuizStatus = "not_required"
	QuizNotPassed   QuizStatus = "not_passed"
	QuizPassed      QuizStatus = "passed"
)

type CourseState string

const (
	StateNotStarted  CourseState = "not_started"
	StateInProgress  CourseState = "in_progress"
	StateQuizPending CourseState = "quiz_pending"
	StateCompleted   CourseState = "completed"
)

// CourseProgress is the derived per-course view for one user.
type CourseProgress struct {
	Read       int         `json:"read"`
	Total      int         `json:"total"`
	Percentage int         `json:"percentage"`
	QuizStatus QuizStatus  `json:"quiz_status"`
	State      CourseState `json:"state"`
}

// ComputeCourseProgress counts the course's lessons present in the
// user's read set and derives the quiz status. Percentage is 0 for a
// course with no lessons. course.Lessons and course.Quiz must be loaded.
func ComputeCourseProgress(course *models.Course, readLessons, passedQuizzes map[uint]bool) CourseProgress {
	total := len(course.Lessons)
	read := 0
	for _, lesson := range course.Lessons {
		if readLessons[lesson.ID] {
			read++
		}
	}

	status := QuizNotRequired
	if course.Quiz != nil {
		if passedQuizzes[course.Quiz.ID] {
			status = QuizPassed
		} else {
			status = QuizNotPassed
		}
	}

	return CourseProgress{
		Read:       read,
		Total:      total,
		Percentage: roundPercent(read, total),
		QuizStatus: status,
		State:      state(read, total, status),
	}
}

// IsCourseComplete reports whether every lesson of the course is read
// and its quiz, if any, is passed. The predicate is recomputed from the
// sets on every call and holds regardless of the order in which the
// underlying read/pass events happened.
func IsCourseComplete(course *models.Course, readLessons, passedQuizzes map[uint]bool) bool {
	for _, lesson := range course.Lessons {
		if !readLessons[lesson.ID] {
			return false
		}
	}
	if course.Quiz != nil && !passedQuizzes[course.Quiz.ID] {
		return false
	}
	return true
}

func state(read, total int, quizStatus QuizStatus) CourseState {
	switch {
	case read == 0 && total > 0:
		return StateNotStarted
	case read < total:
		return StateInProgress
	case quizStatus == QuizNotPassed:
		return StateQuizPending
	default:
		return StateCompleted
	}
}

// AnswerReview is the per-question breakdown returned after scoring.
// This is the only place correct answers and explanations surface.
type AnswerReview struct {
	Question      string `json:"question"`
	UserAnswer    *int   `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

type ScoredAttempt struct {
	Correct int
	Total   int
	Score   int
	Reviews []AnswerReview
}

// ScoreAttempt grades answers against the quiz questions in position
// order. answers[i] is the selected option index for question i; a nil
// entry is an unanswered question and never counts as correct. Extra
// trailing answers are ignored here; the quiz service rejects
// oversized submissions before scoring, so that tolerance matters only
// for direct callers.
func ScoreAttempt(questions []models.Question, answers []*int) ScoredAttempt {
	correct := 0
	reviews := make([]AnswerReview, len(questions))
	for i, question := range questions {
		var userAnswer *int
		if i < len(answers) {
			userAnswer = answers[i]
		}
		isCorrect := userAnswer != nil && *userAnswer == question.CorrectAnswer
		if isCorrect {
			correct++
		}
		reviews[i] = AnswerReview{
			Question:      question.Prompt,
			UserAnswer:    userAnswer,
			CorrectAnswer: question.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   question.Explanation,
		}
	}
	return ScoredAttempt{
		Correct: correct,
		Total:   len(questions),
		Score:   roundPercent(correct, len(questions)),
		Reviews: reviews,
	}
}

func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
