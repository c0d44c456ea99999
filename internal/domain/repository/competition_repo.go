package repository

import (
	"errors"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"gorm.io/gorm"
)

// ErrAlreadyJoined is returned when a player row already exists for the
// (competition, user) pair. Callers treat it as an idempotent no-op on accept.
var ErrAlreadyJoined = errors.New("player already joined competition")

// ErrMatchFull is returned when the competition already has its full roster
// of players, so no further join can be admitted.
var ErrMatchFull = errors.New("competition already has a full roster")

// CompetitionRepository defines persistence operations for competitions and
// their per-player rows.
type CompetitionRepository interface {
	// CreateWithChallenger inserts the competition together with the
	// challenger's player row in a single transaction, so a competition
	// always has at least its creator as a player.
	CreateWithChallenger(comp *entity.Competition, challengerID string) error

	GetByID(id string) (*entity.Competition, error)
	GetWithPlayers(id string) (*entity.Competition, error)
	UpdateStatus(id string, from, to string) error

	// AddPlayer inserts a player row, holding the competition row locked so
	// concurrent joins serialize. Returns ErrAlreadyJoined when the unique
	// (competition_id, user_id) constraint is violated and ErrMatchFull when
	// the roster already holds entity.PlayerCountForMatch players.
	AddPlayer(player *entity.CompetitionPlayer) error

	// GetPlayers returns all player rows for the competition joined with
	// player identity, ordered final_score DESC with earlier finishers
	// winning ties.
	GetPlayers(competitionID string) ([]entity.CompetitionPlayer, error)
	GetPlayer(competitionID, userID string) (*entity.CompetitionPlayer, error)

	// SubmitPlayerScore marks the caller's row finished with the given raw
	// score and final score. Only touches that one row.
	SubmitPlayerScore(competitionID, userID string, score, finalScore int) error

	// ListPendingFor returns pending competitions addressed to the user or
	// open, with players and quiz preloaded for client-side membership
	// filtering.
	ListPendingFor(userID string) ([]entity.Competition, error)
	// ListCompletedFor returns completed competitions the user played in.
	ListCompletedFor(userID string) ([]entity.Competition, error)

	// Finalize transitions the competition to completed and credits player
	// stats inside fn, all in one transaction. fn receives the transaction
	// handle and the player rows re-read under it.
	Finalize(competitionID string, fn func(tx *gorm.DB, players []entity.CompetitionPlayer) error) error
}
