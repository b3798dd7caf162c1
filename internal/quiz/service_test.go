package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearn-platform/internal/models"
)

type fakeStore struct {
	quiz     *models.Quiz
	user     *models.User
	attempts []models.QuizAttempt
	passAdds []uint
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) GetQuizByID(quizID uint) (*models.Quiz, error) {
	if f.quiz == nil || f.quiz.ID != quizID {
		return nil, models.ErrNotFound
	}
	return f.quiz, nil
}

func (f *fakeStore) GetQuizByCourse(courseID uint) (*models.Quiz, error) {
	if f.quiz == nil || f.quiz.CourseID != courseID {
		return nil, models.ErrNotFound
	}
	return f.quiz, nil
}

func (f *fakeStore) GetUserWithProgress(userID uint) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, models.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) AddPassedQuiz(userID uint, quizID uint) error {
	f.passAdds = append(f.passAdds, quizID)
	f.user.PassedQuizzes = append(f.user.PassedQuizzes, models.Quiz{ID: quizID})
	return nil
}

func (f *fakeStore) SaveAttempt(attempt *models.QuizAttempt) error {
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeStore) CountAttempts(userID, quizID uint) (int64, error) {
	count := int64(0)
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) GetAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeChecker struct {
	calls  []uint
	result bool
}

func (f *fakeChecker) CheckCourseCompletion(userID, courseID uint) (bool, bool) {
	f.calls = append(f.calls, courseID)
	return f.result, f.result
}

func intPtr(v int) *int { return &v }

func testQuiz() *models.Quiz {
	options := []byte(`["a","b","c","d"]`)
	return &models.Quiz{
		ID:           20,
		CourseID:     1,
		Title:        "Final Quiz",
		PassingScore: 70,
		TimeLimit:    30,
		MaxAttempts:  3,
		Questions: []models.Question{
			{ID: 1, QuizID: 20, Prompt: "q1", Options: options, CorrectAnswer: 0, Position: 0},
			{ID: 2, QuizID: 20, Prompt: "q2", Options: options, CorrectAnswer: 1, Position: 1},
			{ID: 3, QuizID: 20, Prompt: "q3", Options: options, CorrectAnswer: 2, Position: 2},
			{ID: 4, QuizID: 20, Prompt: "q4", Options: options, CorrectAnswer: 3, Position: 3},
			{ID: 5, QuizID: 20, Prompt: "q5", Options: options, CorrectAnswer: 0, Position: 4},
		},
	}
}

func newTestService(policy Policy) (*Service, *fakeStore, *fakeChecker) {
	store := &fakeStore{
		quiz: testQuiz(),
		user: &models.User{ID: 5, Email: "alice@example.com"},
	}
	checker := &fakeChecker{result: true}
	svc := NewService(store, policy)
	svc.SetCompletionChecker(checker)
	return svc, store, checker
}

func passingAnswers() []*int {
	// 4 of 5 correct: score 80 against passing score 70.
	return []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(3), intPtr(1)}
}

func failingAnswers() []*int {
	return []*int{intPtr(1), intPtr(0), nil, nil, nil}
}

func TestSubmitAttempt_FirstTimePass(t *testing.T) {
	svc, store, checker := newTestService(Policy{})

	result, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: passingAnswers(), TimeSpent: 120})
	require.NoError(t, err)

	assert.Equal(t, 80, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 70, result.PassingScore)
	assert.True(t, result.FirstTimePass)
	assert.False(t, result.WasAlreadyPassed)
	assert.True(t, result.CourseCompleted)
	assert.Equal(t, 2, result.AttemptsLeft)
	assert.Len(t, result.Results, 5)

	assert.Equal(t, []uint{20}, store.passAdds)
	assert.Equal(t, []uint{1}, checker.calls, "owning course must be re-checked")
	require.Len(t, store.attempts, 1)
	assert.Equal(t, 80, store.attempts[0].Score)
	assert.True(t, store.attempts[0].Passed)
	assert.Equal(t, 120, store.attempts[0].TimeSpent)
}

func TestSubmitAttempt_RepeatPass(t *testing.T) {
	svc, store, checker := newTestService(Policy{})

	_, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: passingAnswers()})
	require.NoError(t, err)
	result, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: passingAnswers()})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.True(t, result.WasAlreadyPassed)
	assert.False(t, result.FirstTimePass)
	assert.Len(t, store.passAdds, 1, "passed set grows once")
	assert.Len(t, checker.calls, 1, "completion re-checked only on first pass")
	assert.Len(t, store.attempts, 2, "every submission is recorded")
	assert.Equal(t, 1, result.AttemptsLeft)
}

func TestSubmitAttempt_FailingAttempt(t *testing.T) {
	svc, store, checker := newTestService(Policy{})

	result, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: failingAnswers()})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
	assert.False(t, result.FirstTimePass)
	assert.Empty(t, store.passAdds)
	assert.Empty(t, checker.calls)
	assert.Len(t, store.attempts, 1)
}

func TestSubmitAttempt_AdvisoryPolicyNeverRejects(t *testing.T) {
	svc, store, _ := newTestService(Policy{})

	for i := 0; i < 5; i++ {
		result, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: failingAnswers()})
		require.NoError(t, err, "attempt %d", i+1)
		if i >= 2 {
			assert.Equal(t, 0, result.AttemptsLeft, "attemptsLeft clamps at zero")
		}
	}
	assert.Len(t, store.attempts, 5)
}

func TestSubmitAttempt_EnforcedPolicyRejects(t *testing.T) {
	svc, store, _ := newTestService(Policy{EnforceMaxAttempts: true})

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: failingAnswers()})
		require.NoError(t, err)
	}

	_, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: failingAnswers()})
	assert.ErrorIs(t, err, models.ErrAttemptsExhausted)
	assert.Len(t, store.attempts, 3, "rejected submission records no attempt")
}

func TestSubmitAttempt_EnforcedPolicyAllowsPassedRetake(t *testing.T) {
	svc, store, _ := newTestService(Policy{EnforceMaxAttempts: true})
	store.user.PassedQuizzes = []models.Quiz{{ID: 20}}
	for i := 0; i < 3; i++ {
		store.attempts = append(store.attempts, models.QuizAttempt{UserID: 5, QuizID: 20})
	}

	result, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: passingAnswers()})
	require.NoError(t, err)
	assert.True(t, result.WasAlreadyPassed)
	assert.False(t, result.FirstTimePass)
}

func TestSubmitAttempt_TooManyAnswers(t *testing.T) {
	svc, store, _ := newTestService(Policy{})

	answers := append(passingAnswers(), intPtr(0), intPtr(0))
	_, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: answers})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, store.attempts)
}

func TestSubmitAttempt_UnknownQuiz(t *testing.T) {
	svc, _, _ := newTestService(Policy{})

	_, err := svc.SubmitAttempt(5, 99, SubmitRequest{Answers: passingAnswers()})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitAttempt_SparseAnswersRecorded(t *testing.T) {
	svc, store, _ := newTestService(Policy{})

	_, err := svc.SubmitAttempt(5, 20, SubmitRequest{Answers: []*int{intPtr(0), nil, intPtr(2)}})
	require.NoError(t, err)

	var stored []*int
	require.NoError(t, json.Unmarshal(store.attempts[0].Answers, &stored))
	require.Len(t, stored, 3)
	assert.Equal(t, 0, *stored[0])
	assert.Nil(t, stored[1])
	assert.Equal(t, 2, *stored[2])
}

func TestGetCourseQuiz_Sanitized(t *testing.T) {
	svc, store, _ := newTestService(Policy{})
	store.attempts = append(store.attempts, models.QuizAttempt{UserID: 5, QuizID: 20})

	dto, err := svc.GetCourseQuiz(1, 5)
	require.NoError(t, err)

	assert.Equal(t, "Final Quiz", dto.Title)
	assert.Equal(t, 1, dto.Attempts)
	assert.False(t, dto.HasPassed)
	assert.True(t, dto.CanTakeQuiz)
	require.Len(t, dto.Questions, 5)

	// The wire form must never leak correct answers or explanations.
	payload, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "correct_answer")
	assert.NotContains(t, string(payload), "explanation")
}

func TestGetCourseQuiz_EnforcedCanTakeQuiz(t *testing.T) {
	svc, store, _ := newTestService(Policy{EnforceMaxAttempts: true})
	for i := 0; i < 3; i++ {
		store.attempts = append(store.attempts, models.QuizAttempt{UserID: 5, QuizID: 20})
	}

	dto, err := svc.GetCourseQuiz(1, 5)
	require.NoError(t, err)
	assert.False(t, dto.CanTakeQuiz)

	store.user.PassedQuizzes = []models.Quiz{{ID: 20}}
	dto, err = svc.GetCourseQuiz(1, 5)
	require.NoError(t, err)
	assert.True(t, dto.CanTakeQuiz, "a passed user may always retake")
}

func TestGetCourseQuiz_NoQuizForCourse(t *testing.T) {
	svc, _, _ := newTestService(Policy{})

	_, err := svc.GetCourseQuiz(42, 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
