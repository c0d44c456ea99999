package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
	"github.com/semiologia/semiologia-api/internal/service/session"
	"github.com/semiologia/semiologia-api/internal/websocket"
)

// finalizeLockTTL bounds the Redis claim two racing submitters take before
// running finalization. The transaction itself stays idempotent; the lock
// only avoids duplicate work.
const finalizeLockTTL = time.Minute

// CompetitionService coordinates the lifecycle of two-player quiz matches:
// creation, invitation, per-player play sessions, score submission,
// finish detection and final ranking.
type CompetitionService struct {
	competitionRepo repository.CompetitionRepository
	questionRepo    repository.QuestionRepository
	quizRepo        repository.QuizRepository
	userRepo        repository.UserRepository
	cacheRepo       repository.CacheRepository
	sessions        *session.Manager
	notifier        websocket.Notifier
	email           EmailService
}

// NewCompetitionService creates the match coordinator.
func NewCompetitionService(
	competitionRepo repository.CompetitionRepository,
	questionRepo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	sessions *session.Manager,
	notifier websocket.Notifier,
	email EmailService,
) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
		questionRepo:    questionRepo,
		quizRepo:        quizRepo,
		userRepo:        userRepo,
		cacheRepo:       cacheRepo,
		sessions:        sessions,
		notifier:        notifier,
		email:           email,
	}
}

// CreateChallenge creates a pending competition and registers the challenger
// as its first player. Both writes happen in one transaction, so a
// competition always has at least its creator as a player. A nil opponent
// creates an open challenge; a nil quiz leaves the quiz choice for later.
func (s *CompetitionService) CreateChallenge(challengerID string, opponentID, quizID *string) (*entity.Competition, error) {
	challenger, err := s.userRepo.GetByID(challengerID)
	if err != nil {
		return nil, err
	}

	var opponent *entity.User
	if opponentID != nil {
		if *opponentID == challengerID {
			return nil, fmt.Errorf("%w: cannot challenge yourself", apperrors.ErrValidation)
		}
		opponent, err = s.userRepo.GetByID(*opponentID)
		if err != nil {
			return nil, err
		}
	}

	var quizTitle string
	if quizID != nil {
		quiz, err := s.quizRepo.GetByID(*quizID)
		if err != nil {
			return nil, err
		}
		quizTitle = quiz.Title
	}

	comp := &entity.Competition{
		QuizID:       quizID,
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		Status:       entity.CompetitionStatusPending,
	}
	if err := s.competitionRepo.CreateWithChallenger(comp, challengerID); err != nil {
		return nil, err
	}

	if opponent != nil {
		s.notifier.NotifyUser(opponent.ID, websocket.EventChallengeReceived, map[string]interface{}{
			"competition_id": comp.ID,
			"challenger":     challenger.Username,
			"quiz_id":        quizID,
		})
		if err := s.email.SendChallengeInvite(context.Background(), opponent.Email, challenger.Username, quizTitle); err != nil {
			// Notification only; the challenge itself stands.
			log.Printf("[CompetitionService] challenge invite email failed comp=%s: %v", comp.ID, err)
		}
	}

	return comp, nil
}

// AcceptChallenge transitions the competition to accepted and registers the
// acceptor as its second player. Safe against double-accept: an existing
// player row makes the call a no-op, both via the pre-check and the unique
// (competition_id, user_id) constraint underneath. A full roster rejects any
// further joiner with ErrConflict, checked here and again under lock in the
// player insert.
func (s *CompetitionService) AcceptChallenge(competitionID, userID string) error {
	comp, err := s.competitionRepo.GetWithPlayers(competitionID)
	if err != nil {
		return err
	}

	if comp.HasPlayer(userID) {
		return nil // duplicate tap or retried request
	}
	if comp.IsTerminal() {
		return apperrors.ErrConflict
	}
	if !comp.IsOpen() && !comp.IsAddressedTo(userID) {
		return apperrors.ErrForbidden
	}
	if len(comp.Players) >= entity.PlayerCountForMatch {
		// Open challenges stay visible after someone took the seat; a late
		// joiner must not become a third player row.
		return apperrors.ErrConflict
	}

	if comp.IsPending() {
		err = s.competitionRepo.UpdateStatus(competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusAccepted)
		if err != nil && !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		// ErrConflict here means another responder moved the status first;
		// fall through and let the player insert decide.
	}

	player := &entity.CompetitionPlayer{
		CompetitionID: competitionID,
		UserID:        userID,
		Score:         0,
		Finished:      false,
	}
	err = s.competitionRepo.AddPlayer(player)
	if errors.Is(err, repository.ErrAlreadyJoined) {
		return nil
	}
	if errors.Is(err, repository.ErrMatchFull) {
		// The roster filled between our read and the insert.
		return apperrors.ErrConflict
	}
	return err
}

// RejectChallenge transitions the competition to rejected. Player rows are
// left untouched; the status is terminal afterwards.
func (s *CompetitionService) RejectChallenge(competitionID, userID string) error {
	comp, err := s.competitionRepo.GetByID(competitionID)
	if err != nil {
		return err
	}
	if !comp.IsOpen() && !comp.IsAddressedTo(userID) {
		return apperrors.ErrForbidden
	}
	return s.competitionRepo.UpdateStatus(competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusRejected)
}

// ListReceivedChallenges returns pending challenges the user may still act
// on: addressed to them or open, with a quiz chosen, and not yet joined.
// Membership is a derived join, so the "not already joined" filter runs here
// rather than in SQL.
func (s *CompetitionService) ListReceivedChallenges(userID string) ([]entity.Competition, error) {
	comps, err := s.competitionRepo.ListPendingFor(userID)
	if err != nil {
		return nil, err
	}

	received := make([]entity.Competition, 0, len(comps))
	for _, comp := range comps {
		if comp.QuizID == nil {
			continue // nothing to play yet
		}
		if comp.HasPlayer(userID) {
			continue
		}
		received = append(received, comp)
	}
	return received, nil
}

// ListCompletedChallenges returns finished matches the user played in.
func (s *CompetitionService) ListCompletedChallenges(userID string) ([]entity.Competition, error) {
	return s.competitionRepo.ListCompletedFor(userID)
}

// StartSession loads the competition's question set in creation order and
// opens a play session for the user. Only joined players may play, and only
// once a quiz has been chosen.
func (s *CompetitionService) StartSession(competitionID, userID string) (*session.PlaySession, error) {
	comp, err := s.competitionRepo.GetWithPlayers(competitionID)
	if err != nil {
		return nil, err
	}
	if comp.IsTerminal() {
		return nil, apperrors.ErrConflict
	}
	if !comp.HasPlayer(userID) {
		return nil, apperrors.ErrForbidden
	}
	if comp.QuizID == nil {
		return nil, fmt.Errorf("%w: competition has no quiz", apperrors.ErrValidation)
	}

	questions, err := s.questionRepo.GetByQuizID(*comp.QuizID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Start(userID, *comp.QuizID, competitionID, questions)
}

// GetSession returns the user's play session by ID.
func (s *CompetitionService) GetSession(sessionID, userID string) (*session.PlaySession, error) {
	return s.sessions.Get(sessionID, userID)
}

// SubmitSessionResult pulls the finished session's result, submits it as the
// user's score and drops the session.
func (s *CompetitionService) SubmitSessionResult(sessionID, userID string) (session.Result, error) {
	sess, err := s.sessions.Get(sessionID, userID)
	if err != nil {
		return session.Result{}, err
	}
	result, err := sess.Result()
	if err != nil {
		return session.Result{}, err
	}
	if err := s.SubmitScore(sess.CompetitionID, userID, result.Correct, result.Total, result.Bonus); err != nil {
		return session.Result{}, err
	}
	s.sessions.Remove(sessionID)
	return result, nil
}

// SubmitScore writes the caller's finished row:
//
//	percentage  = round(correct/total * 100)
//	final_score = percentage + bonus
//
// Only the caller's row is touched; the opponent's submission writes a
// disjoint row in whichever order the network delivers them. After the write
// the player set is re-read, and when exactly two players exist and both
// finished, finalization runs.
func (s *CompetitionService) SubmitScore(competitionID, userID string, correct, total, bonus int) error {
	finalScore, err := entity.ComputeFinalScore(correct, total, bonus)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Submitting for a competition the user never joined must fail loudly.
	if _, err := s.competitionRepo.GetPlayer(competitionID, userID); err != nil {
		return err
	}

	if err := s.competitionRepo.SubmitPlayerScore(competitionID, userID, correct, finalScore); err != nil {
		return err
	}

	// "Both finished" is re-derived from the rows, never from in-memory
	// counters: the two submissions are causally independent.
	players, err := s.competitionRepo.GetPlayers(competitionID)
	if err != nil {
		return err
	}

	if entity.ResolveCompletion(players) == entity.CompletionDone {
		if err := s.finalize(competitionID); err != nil {
			return err
		}
		for _, p := range players {
			s.notifier.NotifyUser(p.UserID, websocket.EventCompetitionCompleted, map[string]interface{}{
				"competition_id": competitionID,
			})
		}
		return nil
	}

	for _, p := range players {
		if p.UserID != userID {
			s.notifier.NotifyUser(p.UserID, websocket.EventOpponentFinished, map[string]interface{}{
				"competition_id": competitionID,
			})
		}
	}
	return nil
}

// finalize is the server-side aggregation step: it marks the competition
// completed and credits both players' lifetime stats in one transaction.
// A Redis SetNX claim keeps the two racing submitters from both doing the
// work; correctness does not depend on it.
func (s *CompetitionService) finalize(competitionID string) error {
	claimed, err := s.cacheRepo.SetNX(finalizeLockKey(competitionID), 1, finalizeLockTTL)
	if err != nil {
		// Cache unavailable: fall through, the transaction is idempotent.
		log.Printf("[CompetitionService] finalize lock unavailable comp=%s: %v", competitionID, err)
	} else if !claimed {
		return nil
	}

	return s.competitionRepo.Finalize(competitionID, func(tx *gorm.DB, players []entity.CompetitionPlayer) error {
		winnerID := entity.WinnerOf(players)
		for _, p := range players {
			points := int64(0)
			if p.FinalScore != nil {
				points = int64(*p.FinalScore)
			}
			if err := s.userRepo.CreditMatchResult(tx, p.UserID, points, p.UserID == winnerID); err != nil {
				return err
			}
		}
		return nil
	})
}

func finalizeLockKey(competitionID string) string {
	return fmt.Sprintf("competition:%s:finalize", competitionID)
}

// CheckCompletion re-derives the tri-state completion status from the player
// rows: done only when exactly two players exist and both finished, waiting
// otherwise. Idempotent and safe to poll.
func (s *CompetitionService) CheckCompletion(competitionID string) (entity.CompletionStatus, error) {
	if _, err := s.competitionRepo.GetByID(competitionID); err != nil {
		return entity.CompletionUnknown, err
	}
	players, err := s.competitionRepo.GetPlayers(competitionID)
	if err != nil {
		return entity.CompletionUnknown, err
	}
	return entity.ResolveCompletion(players), nil
}

// PollCompletion runs a completion check on behalf of a play session and
// records the result on it, moving the session's view out of the unknown
// state.
func (s *CompetitionService) PollCompletion(sessionID, userID string) (entity.CompletionStatus, error) {
	sess, err := s.sessions.Get(sessionID, userID)
	if err != nil {
		return entity.CompletionUnknown, err
	}
	status, err := s.CheckCompletion(sess.CompetitionID)
	if err != nil {
		return sess.Completion(), err
	}
	sess.SetCompletion(status)
	return status, nil
}

// GetFinalRanking returns the competition's players in final ranking order.
// The winner is strictly the first entry; exact ties resolve to the earlier
// finisher.
func (s *CompetitionService) GetFinalRanking(competitionID string) ([]entity.CompetitionPlayer, error) {
	if _, err := s.competitionRepo.GetByID(competitionID); err != nil {
		return nil, err
	}
	players, err := s.competitionRepo.GetPlayers(competitionID)
	if err != nil {
		return nil, err
	}
	return entity.RankPlayers(players), nil
}
