package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestConfig(clock *fakeClock) *Config {
	return &Config{
		QuestionTime: 60 * time.Second,
		Clock:        clock.Now,
	}
}

func testQuestions(n int) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, entity.Question{
			Description: "q",
			Options: entity.OptionList{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			},
		})
	}
	return questions
}

func TestPlaySession_CorrectAnswerAccruesBonus(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "comp-1", testQuestions(2))
	require.NoError(t, err)
	assert.Equal(t, StatePresenting, sess.State())

	// Answer the first question after 12 seconds: 48s left -> bonus 8.
	clock.Advance(12 * time.Second)
	outcome, err := sess.Answer(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, outcome)

	// Answer the second instantly: full bonus 10.
	outcome, err = sess.Answer(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, outcome)
	assert.Equal(t, StateFinished, sess.State())

	result, err := sess.Result()
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 2, Total: 2, Bonus: 18}, result)
}

func TestPlaySession_WrongAnswerScoresNothing(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	outcome, err := sess.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, outcome)

	result, err := sess.Result()
	require.NoError(t, err)
	assert.Equal(t, Result{Correct: 0, Total: 1, Bonus: 0}, result)
}

func TestPlaySession_LateAnswerCountsAsTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	// The budget is 60s; an answer at 61s is a time-out even if correct.
	clock.Advance(61 * time.Second)
	outcome, err := sess.Answer(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimedOut, outcome)

	result, err := sess.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 0, result.Bonus)
}

func TestPlaySession_TimeoutAdvances(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(2))
	require.NoError(t, err)

	require.NoError(t, sess.Timeout())
	_, idx, _, err := sess.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	require.NoError(t, sess.Timeout())
	assert.Equal(t, StateFinished, sess.State())
	assert.ErrorIs(t, sess.Timeout(), ErrSessionFinished)
}

func TestPlaySession_QuestionTimerResets(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(2))
	require.NoError(t, err)

	clock.Advance(40 * time.Second)
	_, _, remaining, err := sess.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, 20, remaining)

	// Advancing to the next question restarts its own 60-second budget.
	_, err = sess.Answer(0)
	require.NoError(t, err)
	_, _, remaining, err = sess.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, 60, remaining)
}

func TestPlaySession_InvalidOption(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	_, err = sess.Answer(5)
	assert.ErrorIs(t, err, ErrInvalidOption)

	// The failed answer must not consume the question.
	_, idx, _, err := sess.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestPlaySession_ResultOnlyWhenFinished(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	_, err = sess.Result()
	assert.ErrorIs(t, err, ErrSessionNotFinished)
}

func TestPlaySession_CompletionTriState(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "comp-1", testQuestions(1))
	require.NoError(t, err)

	// Before any poll the status is unknown, not waiting.
	assert.Equal(t, entity.CompletionUnknown, sess.Completion())

	sess.SetCompletion(entity.CompletionWaiting)
	assert.Equal(t, entity.CompletionWaiting, sess.Completion())

	sess.SetCompletion(entity.CompletionDone)
	assert.Equal(t, entity.CompletionDone, sess.Completion())
}

func TestManager_StartRequiresQuestions(t *testing.T) {
	manager := NewManager(nil, 0)
	_, err := manager.Start("user-1", "quiz-1", "", nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestManager_GetScopedToOwner(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), time.Hour)

	sess, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	got, err := manager.Get(sess.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = manager.Get(sess.ID, "someone-else")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = manager.Get("no-such-session", "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_ReapsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	manager := NewManager(newTestConfig(clock), 10*time.Minute)

	active, err := manager.Start("user-1", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)
	idle, err := manager.Start("user-2", "quiz-1", "", testQuestions(1))
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	// user-1 keeps playing, user-2 walked away.
	_, err = active.Answer(0)
	require.NoError(t, err)

	manager.reap()
	assert.Equal(t, 1, manager.Count())

	_, err = manager.Get(idle.ID, "user-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
