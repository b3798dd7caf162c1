package models

import "gorm.io/datatypes"

// QuestionDTO is the learner-facing view of a question. CorrectAnswer
// and Explanation are stripped: they are only revealed in the review
// returned after an attempt is submitted.
type QuestionDTO struct {
	ID      uint           `json:"id"`
	Prompt  string         `json:"question"`
	Options datatypes.JSON `json:"options"`
}

func (q Question) ToDTO() QuestionDTO {
	return QuestionDTO{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// QuizDTO is the sanitized quiz sent before an attempt, annotated with
// the caller's attempt history.
type QuizDTO struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	PassingScore int           `json:"passing_score"`
	TimeLimit    int           `json:"time_limit"`
	MaxAttempts  int           `json:"max_attempts"`
	Questions    []QuestionDTO `json:"questions"`
	Attempts     int           `json:"attempts"`
	HasPassed    bool          `json:"has_passed"`
	CanTakeQuiz  bool          `json:"can_take_quiz"`
}

func (q Quiz) ToDTO() QuizDTO {
	questions := make([]QuestionDTO, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.ToDTO()
	}
	return QuizDTO{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
		MaxAttempts:  q.MaxAttempts,
		Questions:    questions,
	}
}

// QuizSummaryDTO announces that a course has a quiz without shipping
// its questions.
type QuizSummaryDTO struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PassingScore int    `json:"passing_score"`
	TimeLimit    int    `json:"time_limit"`
	MaxAttempts  int    `json:"max_attempts"`
	HasPassed    bool   `json:"has_passed"`
}

func (q Quiz) ToSummaryDTO(hasPassed bool) QuizSummaryDTO {
	return QuizSummaryDTO{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
		MaxAttempts:  q.MaxAttempts,
		HasPassed:    hasPassed,
	}
}

// LessonDTO is a lesson annotated with the caller's read flag.
type LessonDTO struct {
	ID          uint   `json:"id"`
	CourseID    uint   `json:"course_id"`
	CourseTitle string `json:"course_title,omitempty"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Position    int    `json:"position"`
	Read        bool   `json:"read"`
}

func (l Lesson) ToDTO(read bool) LessonDTO {
	return LessonDTO{
		ID:       l.ID,
		CourseID: l.CourseID,
		Title:    l.Title,
		Content:  l.Content,
		Position: l.Position,
		Read:     read,
	}
}
