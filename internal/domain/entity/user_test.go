package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BeforeSaveHashesPassword(t *testing.T) {
	user := &User{Email: "ana@test.com", Password: "secret1"}
	require.NoError(t, user.BeforeSave(nil))

	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"))
	assert.True(t, user.CheckPassword("secret1"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUser_BeforeSaveSkipsExistingHash(t *testing.T) {
	user := &User{Password: "secret1"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	// A second save must not re-hash the hash.
	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, hashed, user.Password)
}

func TestUser_BeforeCreateAssignsID(t *testing.T) {
	user := &User{}
	require.NoError(t, user.BeforeCreate(nil))
	assert.NotEmpty(t, user.ID)

	fixed := &User{ID: "existing-id"}
	require.NoError(t, fixed.BeforeCreate(nil))
	assert.Equal(t, "existing-id", fixed.ID)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
