package dto

import (
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/service/session"
)

// CreateChallengeRequest creates a match. Opponent and quiz are both
// optional: an absent opponent makes the challenge open, an absent quiz
// defers the quiz choice.
type CreateChallengeRequest struct {
	OpponentID *string `json:"opponent_id" binding:"omitempty,uuid"`
	QuizID     *string `json:"quiz_id" binding:"omitempty,uuid"`
}

// CompetitionResponse is the transport view of a match.
type CompetitionResponse struct {
	ID           string           `json:"id"`
	Status       string           `json:"status"`
	ChallengerID string           `json:"challenger_id"`
	OpponentID   *string          `json:"opponent_id,omitempty"`
	QuizID       *string          `json:"quiz_id,omitempty"`
	Quiz         *QuizResponse    `json:"quiz,omitempty"`
	Players      []PlayerResponse `json:"players,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PlayerResponse is one player's row inside a match.
type PlayerResponse struct {
	UserID     string     `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	Score      int        `json:"score"`
	Finished   bool       `json:"finished"`
	FinalScore *int       `json:"final_score,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func NewPlayerResponse(p *entity.CompetitionPlayer) PlayerResponse {
	resp := PlayerResponse{
		UserID:     p.UserID,
		Score:      p.Score,
		Finished:   p.Finished,
		FinalScore: p.FinalScore,
		FinishedAt: p.FinishedAt,
	}
	if p.User != nil {
		resp.Username = p.User.Username
	}
	return resp
}

func NewCompetitionResponse(comp *entity.Competition) CompetitionResponse {
	resp := CompetitionResponse{
		ID:           comp.ID,
		Status:       comp.Status,
		ChallengerID: comp.ChallengerID,
		OpponentID:   comp.OpponentID,
		QuizID:       comp.QuizID,
		CreatedAt:    comp.CreatedAt,
	}
	if comp.Quiz != nil {
		quiz := NewQuizResponse(comp.Quiz)
		resp.Quiz = &quiz
	}
	for i := range comp.Players {
		resp.Players = append(resp.Players, NewPlayerResponse(&comp.Players[i]))
	}
	return resp
}

func NewCompetitionListResponse(comps []entity.Competition) []CompetitionResponse {
	out := make([]CompetitionResponse, 0, len(comps))
	for i := range comps {
		out = append(out, NewCompetitionResponse(&comps[i]))
	}
	return out
}

// SessionStateResponse describes what the player sees right now: the
// current question with its countdown, or the finished marker.
type SessionStateResponse struct {
	SessionID      string            `json:"session_id"`
	CompetitionID  string            `json:"competition_id,omitempty"`
	State          string            `json:"state"`
	QuestionIndex  int               `json:"question_index"`
	TotalQuestions int               `json:"total_questions"`
	RemainingSec   int               `json:"remaining_sec"`
	Question       *QuestionResponse `json:"question,omitempty"`
}

func NewSessionStateResponse(sess *session.PlaySession) SessionStateResponse {
	resp := SessionStateResponse{
		SessionID:      sess.ID,
		CompetitionID:  sess.CompetitionID,
		State:          sess.State().String(),
		TotalQuestions: sess.TotalQuestions(),
	}
	q, idx, remaining, err := sess.CurrentQuestion()
	if err == nil {
		question := NewQuestionResponse(q)
		resp.Question = &question
		resp.QuestionIndex = idx
		resp.RemainingSec = remaining
	} else {
		resp.QuestionIndex = sess.TotalQuestions()
	}
	return resp
}

// AnswerRequest records the chosen option for the current question.
type AnswerRequest struct {
	OptionIndex int `json:"option_index" binding:"min=0"`
}

// AnswerResponse reports the outcome and the next session state.
type AnswerResponse struct {
	Outcome string               `json:"outcome"`
	Session SessionStateResponse `json:"session"`
}

// SubmitScoreRequest is the raw-score submission path for clients that
// ran the quiz locally rather than through a server session.
type SubmitScoreRequest struct {
	Correct int `json:"correct" binding:"min=0"`
	Total   int `json:"total" binding:"required,min=1"`
	Bonus   int `json:"bonus" binding:"min=0"`
}

// ResultResponse is the hand-off from a finished session.
type ResultResponse struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Bonus      int `json:"bonus"`
	FinalScore int `json:"final_score"`
}

// CompletionResponse is the poll answer for "did both of us finish?".
type CompletionResponse struct {
	Status string `json:"status"`
}

// RankingEntry is one row of a match's final ranking.
type RankingEntry struct {
	Position int `json:"position"`
	PlayerResponse
	Winner bool `json:"winner"`
}

// RankingResponse is the final ranking of a completed match. The winner
// is always the first entry.
type RankingResponse struct {
	CompetitionID string         `json:"competition_id"`
	Ranking       []RankingEntry `json:"ranking"`
}

func NewRankingResponse(competitionID string, players []entity.CompetitionPlayer) RankingResponse {
	resp := RankingResponse{CompetitionID: competitionID}
	for i := range players {
		resp.Ranking = append(resp.Ranking, RankingEntry{
			Position:       i + 1,
			PlayerResponse: NewPlayerResponse(&players[i]),
			Winner:         i == 0,
		})
	}
	return resp
}
