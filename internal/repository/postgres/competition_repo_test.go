package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// dryRunDB builds SQL without executing it, for asserting generated clauses.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db
}

func TestLockedCompetition_GeneratesRowLock(t *testing.T) {
	// Finalization and player inserts rely on this scope actually emitting a
	// row lock; without it two racing submitters could both credit the match.
	db := dryRunDB(t)

	var comp entity.Competition
	stmt := lockedCompetition(db).Find(&comp, "id = ?", "00000000-0000-4000-8000-000000000001").Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}
