package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

// CompetitionRepo implements repository.CompetitionRepository.
type CompetitionRepo struct {
	db *gorm.DB
}

// NewCompetitionRepo creates a new competition repository.
func NewCompetitionRepo(db *gorm.DB) *CompetitionRepo {
	return &CompetitionRepo{db: db}
}

// isUniqueViolation detects a unique constraint violation regardless of the
// driver in use (pgx or lib/pq).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// lockedCompetition scopes tx to read competition rows under FOR UPDATE, so
// concurrent joiners and finalizers serialize on the row.
func lockedCompetition(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateWithChallenger inserts the competition and its challenger player row
// atomically. Either both rows exist afterwards or neither does.
func (r *CompetitionRepo) CreateWithChallenger(comp *entity.Competition, challengerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comp).Error; err != nil {
			return err
		}
		player := &entity.CompetitionPlayer{
			CompetitionID: comp.ID,
			UserID:        challengerID,
			Score:         0,
			Finished:      false,
		}
		return tx.Create(player).Error
	})
}

// GetByID returns a competition by ID.
func (r *CompetitionRepo) GetByID(id string) (*entity.Competition, error) {
	var comp entity.Competition
	err := r.db.First(&comp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comp, nil
}

// GetWithPlayers returns a competition with its player rows and quiz preloaded.
func (r *CompetitionRepo) GetWithPlayers(id string) (*entity.Competition, error) {
	var comp entity.Competition
	err := r.db.
		Preload("Players").
		Preload("Players.User").
		Preload("Quiz").
		First(&comp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comp, nil
}

// UpdateStatus transitions the competition status with a compare-and-set on
// the previous status, so two racing responders cannot both win.
func (r *CompetitionRepo) UpdateStatus(id string, from, to string) error {
	res := r.db.Model(&entity.Competition{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the competition does not exist or it already moved on.
		var count int64
		if err := r.db.Model(&entity.Competition{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

// AddPlayer inserts a player row. The competition row is read FOR UPDATE
// first, so two racing joiners cannot both see a free seat: the roster count
// is checked under the lock and the insert rejected once it reaches
// entity.PlayerCountForMatch. The unique (competition_id, user_id) violation
// maps to ErrAlreadyJoined.
func (r *CompetitionRepo) AddPlayer(player *entity.CompetitionPlayer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comp entity.Competition
		err := lockedCompetition(tx).First(&comp, "id = ?", player.CompetitionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var count int64
		err = tx.Model(&entity.CompetitionPlayer{}).
			Where("competition_id = ?", player.CompetitionID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= entity.PlayerCountForMatch {
			// Re-joining an already-full match is still idempotent.
			var existing int64
			err = tx.Model(&entity.CompetitionPlayer{}).
				Where("competition_id = ? AND user_id = ?", player.CompetitionID, player.UserID).
				Count(&existing).Error
			if err != nil {
				return err
			}
			if existing > 0 {
				return repository.ErrAlreadyJoined
			}
			return repository.ErrMatchFull
		}

		if err := tx.Create(player).Error; err != nil {
			if isUniqueViolation(err) {
				return repository.ErrAlreadyJoined
			}
			return err
		}
		return nil
	})
}

// GetPlayers returns all player rows with identity, ranked by final score.
// NULL final scores (unfinished players) sort last; exact final-score ties are
// broken by earlier finish time, then row creation order.
func (r *CompetitionRepo) GetPlayers(competitionID string) ([]entity.CompetitionPlayer, error) {
	var players []entity.CompetitionPlayer
	err := r.db.
		Preload("User").
		Where("competition_id = ?", competitionID).
		Order("final_score DESC NULLS LAST, finished_at ASC NULLS LAST, created_at ASC").
		Find(&players).Error
	return players, err
}

// GetPlayer returns one player's row within a competition.
func (r *CompetitionRepo) GetPlayer(competitionID, userID string) (*entity.CompetitionPlayer, error) {
	var player entity.CompetitionPlayer
	err := r.db.
		Where("competition_id = ? AND user_id = ?", competitionID, userID).
		First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// SubmitPlayerScore marks the caller's row finished. Touches only that row;
// the opposing player writes a disjoint row, so no locking is needed here.
func (r *CompetitionRepo) SubmitPlayerScore(competitionID, userID string, score, finalScore int) error {
	now := time.Now()
	res := r.db.Model(&entity.CompetitionPlayer{}).
		Where("competition_id = ? AND user_id = ?", competitionID, userID).
		Updates(map[string]interface{}{
			"score":       score,
			"finished":    true,
			"final_score": finalScore,
			"finished_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListPendingFor returns pending competitions addressed to the user or open.
// Membership ("already joined") is a derived join, filtered by the service.
func (r *CompetitionRepo) ListPendingFor(userID string) ([]entity.Competition, error) {
	var comps []entity.Competition
	err := r.db.
		Preload("Players").
		Preload("Players.User").
		Preload("Quiz").
		Where("status = ?", entity.CompetitionStatusPending).
		Where("opponent_id = ? OR opponent_id IS NULL", userID).
		Order("created_at DESC").
		Find(&comps).Error
	return comps, err
}

// ListCompletedFor returns completed competitions the user participated in.
func (r *CompetitionRepo) ListCompletedFor(userID string) ([]entity.Competition, error) {
	var comps []entity.Competition
	err := r.db.
		Preload("Players").
		Preload("Players.User").
		Preload("Quiz").
		Where("status = ?", entity.CompetitionStatusCompleted).
		Where("id IN (?)", r.db.Model(&entity.CompetitionPlayer{}).
			Select("competition_id").
			Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&comps).Error
	return comps, err
}

// Finalize re-reads the player rows under a row lock, then runs fn and the
// status transition in the same transaction. Safe to call from both racing
// submitters: the second caller sees the completed status and stops.
func (r *CompetitionRepo) Finalize(competitionID string, fn func(tx *gorm.DB, players []entity.CompetitionPlayer) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comp entity.Competition
		err := lockedCompetition(tx).First(&comp, "id = ?", competitionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if comp.IsCompleted() {
			return nil // someone else finalized already
		}
		if !comp.CanTransitionTo(entity.CompetitionStatusCompleted) {
			return apperrors.ErrConflict
		}

		var players []entity.CompetitionPlayer
		if err := tx.Where("competition_id = ?", competitionID).Find(&players).Error; err != nil {
			return err
		}
		if entity.ResolveCompletion(players) != entity.CompletionDone {
			return apperrors.ErrConflict
		}

		if fn != nil {
			if err := fn(tx, players); err != nil {
				return err
			}
		}

		return tx.Model(&entity.Competition{}).
			Where("id = ?", competitionID).
			Update("status", entity.CompetitionStatusCompleted).Error
	})
}
