package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"elearn-platform/internal/models"
	"elearn-platform/internal/progress"
)

type Store interface {
	GetQuizByID(quizID uint) (*models.Quiz, error)
	GetQuizByCourse(courseID uint) (*models.Quiz, error)
	GetUserWithProgress(userID uint) (*models.User, error)
	AddPassedQuiz(userID uint, quizID uint) error
	SaveAttempt(attempt *models.QuizAttempt) error
	CountAttempts(userID, quizID uint) (int64, error)
	GetAttempts(userID, quizID uint) ([]models.QuizAttempt, error)
}

// CompletionChecker re-evaluates course completion after a first-time
// pass. Satisfied by the course service.
type CompletionChecker interface {
	CheckCourseCompletion(userID, courseID uint) (completed bool, firstTime bool)
}

// Policy controls the max-attempts gate. The original behavior is
// advisory: attempts are counted and reported but never rejected.
// Enforced mode turns the limit into a hard stop for users who have
// not passed yet.
type Policy struct {
	EnforceMaxAttempts bool
}

type Service struct {
	store      Store
	policy     Policy
	completion CompletionChecker
	now        func() time.Time
}

func NewService(store Store, policy Policy) *Service {
	return &Service{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// SetCompletionChecker wires the course service in after construction;
// the two services reference each other's concerns only through this
// interface.
func (s *Service) SetCompletionChecker(checker CompletionChecker) {
	s.completion = checker
}

// GetCourseQuiz returns the sanitized quiz for a course: questions
// without correct answers or explanations, plus the caller's attempt
// history.
func (s *Service) GetCourseQuiz(courseID, userID uint) (*models.QuizDTO, error) {
	quiz, err := s.store.GetQuizByCourse(courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.store.CountAttempts(userID, quiz.ID)
	if err != nil {
		return nil, err
	}

	dto := quiz.ToDTO()
	dto.Attempts = int(attempts)
	dto.HasPassed = user.HasPassedQuiz(quiz.ID)
	dto.CanTakeQuiz = s.canTakeQuiz(quiz, int(attempts), dto.HasPassed)
	return &dto, nil
}

func (s *Service) canTakeQuiz(quiz *models.Quiz, attempts int, hasPassed bool) bool {
	if !s.policy.EnforceMaxAttempts {
		// Retakes are always allowed; the limit is informational.
		return true
	}
	return hasPassed || attempts < quiz.MaxAttempts
}

type SubmitRequest struct {
	Answers   []*int `json:"answers"`
	TimeSpent int    `json:"timeSpent"`
}

type AttemptResult struct {
	Score            int                     `json:"score"`
	Passed           bool                    `json:"passed"`
	PassingScore     int                     `json:"passingScore"`
	Results          []progress.AnswerReview `json:"results"`
	AttemptsLeft     int                     `json:"attemptsLeft"`
	WasAlreadyPassed bool                    `json:"wasAlreadyPassed"`
	FirstTimePass    bool                    `json:"firstTimePass"`
	CourseCompleted  bool                    `json:"courseCompleted"`
}

// SubmitAttempt scores the answers, appends an attempt record and, on
// the first passing attempt for this quiz, grows the passed set and
// re-checks the owning course's completion.
func (s *Service) SubmitAttempt(userID, quizID uint, req SubmitRequest) (*AttemptResult, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) > len(quiz.Questions) {
		return nil, fmt.Errorf("got %d answers for %d questions: %w",
			len(req.Answers), len(quiz.Questions), models.ErrInvalidInput)
	}

	user, err := s.store.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}
	wasAlreadyPassed := user.HasPassedQuiz(quizID)

	if s.policy.EnforceMaxAttempts && !wasAlreadyPassed {
		attempts, err := s.store.CountAttempts(userID, quizID)
		if err != nil {
			return nil, err
		}
		if int(attempts) >= quiz.MaxAttempts {
			return nil, models.ErrAttemptsExhausted
		}
	}

	scored := progress.ScoreAttempt(quiz.Questions, req.Answers)
	passed := scored.Score >= quiz.PassingScore

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("encoding answers: %w", models.ErrInvalidInput)
	}
	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Answers:     answersJSON,
		Score:       scored.Score,
		Passed:      passed,
		TimeSpent:   req.TimeSpent,
		CompletedAt: s.now(),
	}
	if err := s.store.SaveAttempt(attempt); err != nil {
		return nil, err
	}

	firstTimePass := passed && !wasAlreadyPassed
	courseCompleted := false
	if firstTimePass {
		if err := s.store.AddPassedQuiz(userID, quizID); err != nil {
			return nil, err
		}
		if s.completion != nil {
			courseCompleted, _ = s.completion.CheckCourseCompletion(userID, quiz.CourseID)
		}
	}

	totalAttempts, err := s.store.CountAttempts(userID, quizID)
	if err != nil {
		return nil, err
	}
	attemptsLeft := quiz.MaxAttempts - int(totalAttempts)
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	return &AttemptResult{
		Score:            scored.Score,
		Passed:           passed,
		PassingScore:     quiz.PassingScore,
		Results:          scored.Reviews,
		AttemptsLeft:     attemptsLeft,
		WasAlreadyPassed: wasAlreadyPassed,
		FirstTimePass:    firstTimePass,
		CourseCompleted:  courseCompleted,
	}, nil
}

func (s *Service) GetAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	return s.store.GetAttempts(userID, quizID)
}
