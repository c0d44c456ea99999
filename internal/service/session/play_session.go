package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// PlaySession is one player's run through a quiz. State is purely in-memory:
// nothing is persisted between questions, only the final Result is handed off
// to score submission.
//
// Lifecycle: Presenting(question i) -> answered or timed out ->
// Presenting(question i+1) -> ... -> Finished.
type PlaySession struct {
	ID            string
	UserID        string
	QuizID        string
	CompetitionID string // empty for solo play

	mu            sync.Mutex
	cfg           *Config
	questions     []entity.Question
	index         int
	correct       int
	bonus         int
	state         State
	questionStart time.Time
	lastActivity  time.Time

	// completion mirrors the opponent-finished check for this session.
	// Starts at CompletionUnknown until the first poll runs.
	completion entity.CompletionStatus
}

func newPlaySession(cfg *Config, userID, quizID, competitionID string, questions []entity.Question) *PlaySession {
	now := cfg.Clock()
	return &PlaySession{
		ID:            uuid.NewString(),
		UserID:        userID,
		QuizID:        quizID,
		CompetitionID: competitionID,
		cfg:           cfg,
		questions:     questions,
		state:         StatePresenting,
		questionStart: now,
		lastActivity:  now,
	}
}

// State returns the current lifecycle state.
func (s *PlaySession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion returns the question on screen, its zero-based index and
// the remaining whole seconds on its timer.
func (s *PlaySession) CurrentQuestion() (*entity.Question, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return nil, 0, 0, ErrSessionFinished
	}
	q := s.questions[s.index]
	return &q, s.index, s.remainingLocked(), nil
}

// TotalQuestions returns the question count of the run.
func (s *PlaySession) TotalQuestions() int {
	return len(s.questions)
}

// remainingLocked computes the whole seconds left on the current question.
// Callers must hold s.mu.
func (s *PlaySession) remainingLocked() int {
	elapsed := s.cfg.Clock().Sub(s.questionStart)
	remaining := int(s.cfg.QuestionTime.Seconds()) - int(elapsed.Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Answer records the chosen option for the current question and advances the
// session. An answer arriving after the budget expired counts as a time-out:
// the late choice is discarded. A correct in-time answer increments the
// correct counter and accrues the time bonus from the remaining seconds.
func (s *PlaySession) Answer(optionIndex int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return 0, ErrSessionFinished
	}

	q := s.questions[s.index]
	if !q.IsValidOption(optionIndex) {
		return 0, ErrInvalidOption
	}

	remaining := s.remainingLocked()
	outcome := OutcomeIncorrect
	if remaining <= 0 {
		outcome = OutcomeTimedOut
	} else if q.IsCorrect(optionIndex) {
		outcome = OutcomeCorrect
		s.correct++
		s.bonus += entity.TimeBonus(remaining, int(s.cfg.QuestionTime.Seconds()))
	}

	s.advanceLocked()
	return outcome, nil
}

// Timeout forces the current question to end with an implicit null answer
// and advances the session. Used when the client reports timer expiry.
func (s *PlaySession) Timeout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return ErrSessionFinished
	}
	s.advanceLocked()
	return nil
}

// advanceLocked moves to the next question or finishes the run.
// Callers must hold s.mu.
func (s *PlaySession) advanceLocked() {
	now := s.cfg.Clock()
	s.lastActivity = now
	s.index++
	if s.index >= len(s.questions) {
		s.state = StateFinished
		return
	}
	s.questionStart = now
}

// Result returns the hand-off for score submission. Only valid once finished.
func (s *PlaySession) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return Result{}, ErrSessionNotFinished
	}
	return Result{
		Correct: s.correct,
		Total:   len(s.questions),
		Bonus:   s.bonus,
	}, nil
}

// Completion returns the tri-state opponent-finished status recorded for
// this session.
func (s *PlaySession) Completion() entity.CompletionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion
}

// SetCompletion records the result of a completion poll.
func (s *PlaySession) SetCompletion(status entity.CompletionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = status
	s.lastActivity = s.cfg.Clock()
}

// idleSince reports how long the session has been untouched.
func (s *PlaySession) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity)
}
