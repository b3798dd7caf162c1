package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"elearn-platform/internal/models"
)

func intPtr(v int) *int { return &v }

func courseWithLessons(ids ...uint) *models.Course {
	c := &models.Course{ID: 1, Title: "Web 3.0 Basics"}
	for i, id := range ids {
		c.Lessons = append(c.Lessons, models.Lesson{ID: id, CourseID: c.ID, Position: i})
	}
	return c
}

func withQuiz(c *models.Course, quizID uint) *models.Course {
	c.Quiz = &models.Quiz{ID: quizID, CourseID: c.ID, PassingScore: 70}
	return c
}

func TestComputeCourseProgress(t *testing.T) {
	cases := []struct {
		name   string
		course *models.Course
		read   map[uint]bool
		passed map[uint]bool
		want   CourseProgress
	}{
		{
			name:   "no lessons no quiz",
			course: courseWithLessons(),
			want:   CourseProgress{Read: 0, Total: 0, Percentage: 0, QuizStatus: QuizNotRequired, State: StateCompleted},
		},
		{
			name:   "two of three read",
			course: courseWithLessons(1, 2, 3),
			read:   map[uint]bool{1: true, 2: true},
			want:   CourseProgress{Read: 2, Total: 3, Percentage: 67, QuizStatus: QuizNotRequired, State: StateInProgress},
		},
		{
			name:   "nothing read",
			course: courseWithLessons(1, 2),
			want:   CourseProgress{Read: 0, Total: 2, Percentage: 0, QuizStatus: QuizNotRequired, State: StateNotStarted},
		},
		{
			name:   "all read quiz unpassed",
			course: withQuiz(courseWithLessons(1, 2), 9),
			read:   map[uint]bool{1: true, 2: true},
			want:   CourseProgress{Read: 2, Total: 2, Percentage: 100, QuizStatus: QuizNotPassed, State: StateQuizPending},
		},
		{
			name:   "all read quiz passed",
			course: withQuiz(courseWithLessons(1, 2), 9),
			read:   map[uint]bool{1: true, 2: true},
			passed: map[uint]bool{9: true},
			want:   CourseProgress{Read: 2, Total: 2, Percentage: 100, QuizStatus: QuizPassed, State: StateCompleted},
		},
		{
			name:   "quiz passed before reading",
			course: withQuiz(courseWithLessons(1, 2), 9),
			read:   map[uint]bool{1: true},
			passed: map[uint]bool{9: true},
			want:   CourseProgress{Read: 1, Total: 2, Percentage: 50, QuizStatus: QuizPassed, State: StateInProgress},
		},
		{
			name:   "lessons from other courses ignored",
			course: courseWithLessons(1, 2, 3),
			read:   map[uint]bool{1: true, 7: true, 8: true},
			want:   CourseProgress{Read: 1, Total: 3, Percentage: 33, QuizStatus: QuizNotRequired, State: StateInProgress},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeCourseProgress(tc.course, tc.read, tc.passed)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsCourseComplete(t *testing.T) {
	course := withQuiz(courseWithLessons(1, 2, 3), 9)

	assert.False(t, IsCourseComplete(course, nil, nil))
	assert.False(t, IsCourseComplete(course, map[uint]bool{1: true, 2: true, 3: true}, nil))
	assert.False(t, IsCourseComplete(course, map[uint]bool{1: true, 2: true}, map[uint]bool{9: true}))
	assert.True(t, IsCourseComplete(course, map[uint]bool{1: true, 2: true, 3: true}, map[uint]bool{9: true}))

	noQuiz := courseWithLessons(1, 2)
	assert.True(t, IsCourseComplete(noQuiz, map[uint]bool{1: true, 2: true}, nil))

	empty := courseWithLessons()
	assert.True(t, IsCourseComplete(empty, nil, nil))
}

// The predicate depends only on the final sets, not on the order the
// read/pass events arrived in.
func TestIsCourseComplete_OrderIndependent(t *testing.T) {
	course := withQuiz(courseWithLessons(1, 2), 9)

	type event struct {
		lesson uint
		quiz   uint
	}
	events := []event{{lesson: 1}, {lesson: 2}, {quiz: 9}}
	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, perm := range permutations {
		read := map[uint]bool{}
		passed := map[uint]bool{}
		for i, idx := range perm {
			e := events[idx]
			if e.lesson != 0 {
				read[e.lesson] = true
			}
			if e.quiz != 0 {
				passed[e.quiz] = true
			}
			complete := IsCourseComplete(course, read, passed)
			if i < len(perm)-1 {
				assert.False(t, complete, "perm %v step %d", perm, i)
			} else {
				assert.True(t, complete, "perm %v final", perm)
			}
		}
	}
}

func questions(correct ...int) []models.Question {
	qs := make([]models.Question, len(correct))
	for i, c := range correct {
		qs[i] = models.Question{
			Prompt:        "q",
			CorrectAnswer: c,
			Position:      i,
			Explanation:   "because",
		}
	}
	return qs
}

func TestScoreAttempt(t *testing.T) {
	cases := []struct {
		name        string
		questions   []models.Question
		answers     []*int
		wantCorrect int
		wantScore   int
	}{
		{
			name:        "four of five correct",
			questions:   questions(0, 1, 2, 3, 0),
			answers:     []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(3), intPtr(1)},
			wantCorrect: 4,
			wantScore:   80,
		},
		{
			name:        "unanswered never counts",
			questions:   questions(0, 1, 2),
			answers:     []*int{intPtr(0), nil, intPtr(2)},
			wantCorrect: 2,
			wantScore:   67,
		},
		{
			name:        "all wrong",
			questions:   questions(0, 0),
			answers:     []*int{intPtr(1), intPtr(1)},
			wantCorrect: 0,
			wantScore:   0,
		},
		{
			name:        "short answer list",
			questions:   questions(0, 1, 2),
			answers:     []*int{intPtr(0)},
			wantCorrect: 1,
			wantScore:   33,
		},
		{
			name:        "extra answers ignored",
			questions:   questions(0),
			answers:     []*int{intPtr(0), intPtr(1), intPtr(2)},
			wantCorrect: 1,
			wantScore:   100,
		},
		{
			name:        "empty quiz",
			questions:   nil,
			answers:     nil,
			wantCorrect: 0,
			wantScore:   0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreAttempt(tc.questions, tc.answers)
			assert.Equal(t, tc.wantCorrect, got.Correct)
			assert.Equal(t, len(tc.questions), got.Total)
			assert.Equal(t, tc.wantScore, got.Score)
			assert.Len(t, got.Reviews, len(tc.questions))
		})
	}
}

func TestScoreAttempt_ReviewDetail(t *testing.T) {
	qs := []models.Question{
		{Prompt: "What is a smart contract?", CorrectAnswer: 1, Explanation: "self-executing code"},
		{Prompt: "What is gas?", CorrectAnswer: 2, Explanation: "execution fee"},
	}
	answers := []*int{intPtr(1), nil}

	got := ScoreAttempt(qs, answers)

	assert.Equal(t, 50, got.Score)
	assert.True(t, got.Reviews[0].IsCorrect)
	assert.Equal(t, 1, *got.Reviews[0].UserAnswer)
	assert.Equal(t, "self-executing code", got.Reviews[0].Explanation)
	assert.False(t, got.Reviews[1].IsCorrect)
	assert.Nil(t, got.Reviews[1].UserAnswer)
	assert.Equal(t, 2, got.Reviews[1].CorrectAnswer)
}

func TestRoundPercent(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 6, 83},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{3, 3, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundPercent(c.part, c.total), "roundPercent(%d,%d)", c.part, c.total)
	}
}
