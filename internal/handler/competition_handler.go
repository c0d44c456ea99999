package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/middleware"
	"github.com/semiologia/semiologia-api/internal/service"
)

// Context keys filled by the UUID param middleware.
const (
	ContextCompetitionID = "competitionID"
	ContextSessionID     = "sessionID"
)

// CompetitionHandler serves the two-player match workflow: challenges,
// play sessions, score submission, completion polling and the final ranking.
type CompetitionHandler struct {
	competitionService *service.CompetitionService
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(competitionService *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService}
}

// CreateChallenge handles POST /api/competitions.
func (h *CompetitionHandler) CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	comp, err := h.competitionService.CreateChallenge(userID, req.OpponentID, req.QuizID)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[CompetitionHandler] challenge created id=%s by=%s", comp.ID, userID)
	c.JSON(http.StatusCreated, dto.NewCompetitionResponse(comp))
}

// ListReceived handles GET /api/competitions/received.
func (h *CompetitionHandler) ListReceived(c *gin.Context) {
	comps, err := h.competitionService.ListReceivedChallenges(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"competitions": dto.NewCompetitionListResponse(comps)})
}

// ListCompleted handles GET /api/competitions/completed.
func (h *CompetitionHandler) ListCompleted(c *gin.Context) {
	comps, err := h.competitionService.ListCompletedChallenges(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"competitions": dto.NewCompetitionListResponse(comps)})
}

// Accept handles POST /api/competitions/:competition_id/accept.
func (h *CompetitionHandler) Accept(c *gin.Context) {
	competitionID := c.GetString(ContextCompetitionID)
	userID := c.GetString(middleware.ContextUserID)

	if err := h.competitionService.AcceptChallenge(competitionID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "challenge accepted"})
}

// Reject handles POST /api/competitions/:competition_id/reject.
func (h *CompetitionHandler) Reject(c *gin.Context) {
	competitionID := c.GetString(ContextCompetitionID)
	userID := c.GetString(middleware.ContextUserID)

	if err := h.competitionService.RejectChallenge(competitionID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "challenge rejected"})
}

// StartSession handles POST /api/competitions/:competition_id/session.
func (h *CompetitionHandler) StartSession(c *gin.Context) {
	competitionID := c.GetString(ContextCompetitionID)
	userID := c.GetString(middleware.ContextUserID)

	sess, err := h.competitionService.StartSession(competitionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSessionStateResponse(sess))
}

// GetSession handles GET /api/sessions/:session_id.
func (h *CompetitionHandler) GetSession(c *gin.Context) {
	sess, err := h.competitionService.GetSession(c.GetString(ContextSessionID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionStateResponse(sess))
}

// Answer handles POST /api/sessions/:session_id/answer.
func (h *CompetitionHandler) Answer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.competitionService.GetSession(c.GetString(ContextSessionID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := sess.Answer(req.OptionIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnswerResponse{
		Outcome: outcome.String(),
		Session: dto.NewSessionStateResponse(sess),
	})
}

// Timeout handles POST /api/sessions/:session_id/timeout. The client calls
// it when the question timer runs out with no answer chosen.
func (h *CompetitionHandler) Timeout(c *gin.Context) {
	sess, err := h.competitionService.GetSession(c.GetString(ContextSessionID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Timeout(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionStateResponse(sess))
}

// SubmitResult handles POST /api/sessions/:session_id/submit: it takes the
// finished session's tally and writes it as the caller's score row.
func (h *CompetitionHandler) SubmitResult(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	result, err := h.competitionService.SubmitSessionResult(c.GetString(ContextSessionID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	finalScore, err := entity.ComputeFinalScore(result.Correct, result.Total, result.Bonus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultResponse{
		Correct:    result.Correct,
		Total:      result.Total,
		Bonus:      result.Bonus,
		FinalScore: finalScore,
	})
}

// SubmitScore handles POST /api/competitions/:competition_id/score, the raw
// submission path for clients that timed the quiz locally.
func (h *CompetitionHandler) SubmitScore(c *gin.Context) {
	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	competitionID := c.GetString(ContextCompetitionID)
	userID := c.GetString(middleware.ContextUserID)
	if err := h.competitionService.SubmitScore(competitionID, userID, req.Correct, req.Total, req.Bonus); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "score submitted"})
}

// PollSessionCompletion handles GET /api/sessions/:session_id/completion.
func (h *CompetitionHandler) PollSessionCompletion(c *gin.Context) {
	status, err := h.competitionService.PollCompletion(c.GetString(ContextSessionID), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompletionResponse{Status: status.String()})
}

// CheckCompletion handles GET /api/competitions/:competition_id/completion.
func (h *CompetitionHandler) CheckCompletion(c *gin.Context) {
	status, err := h.competitionService.CheckCompletion(c.GetString(ContextCompetitionID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompletionResponse{Status: status.String()})
}

// Ranking handles GET /api/competitions/:competition_id/ranking.
func (h *CompetitionHandler) Ranking(c *gin.Context) {
	competitionID := c.GetString(ContextCompetitionID)
	players, err := h.competitionService.GetFinalRanking(competitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRankingResponse(competitionID, players))
}
