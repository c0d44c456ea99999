package session

import (
	"errors"
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// State is the lifecycle position of a play session.
type State int

const (
	// StatePresenting means a question is on screen and its timer is running.
	StatePresenting State = iota
	// StateFinished means the last question was answered or timed out.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Outcome describes how a single question ended.
type Outcome int

const (
	// OutcomeCorrect: the chosen option was the correct one.
	OutcomeCorrect Outcome = iota
	// OutcomeIncorrect: an option was chosen but it was wrong.
	OutcomeIncorrect
	// OutcomeTimedOut: the timer expired, counted as an implicit null answer.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Result is the hand-off from a finished session to score submission.
type Result struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Bonus   int `json:"bonus"`
}

// Config holds the session tuning knobs. Clock is injectable for tests.
type Config struct {
	QuestionTime time.Duration
	Clock        func() time.Time
}

// DefaultConfig returns the production configuration: the 60-second
// per-question budget with the wall clock.
func DefaultConfig() *Config {
	return &Config{
		QuestionTime: entity.DefaultQuestionTimeSec * time.Second,
		Clock:        time.Now,
	}
}

var (
	// ErrSessionFinished is returned for answers arriving after the last question.
	ErrSessionFinished = errors.New("play session already finished")
	// ErrSessionNotFinished is returned when the result is read too early.
	ErrSessionNotFinished = errors.New("play session not finished yet")
	// ErrSessionNotFound is returned for unknown or reaped session IDs.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrNoQuestions is returned when a session would have nothing to present.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrInvalidOption is returned for an out-of-range option index.
	ErrInvalidOption = errors.New("invalid option index")
)
