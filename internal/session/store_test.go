package session_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/config"
	"taskflow/internal/service"
	"taskflow/internal/session"
)

func newStore(t *testing.T) (*session.Store, *config.Config) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	return session.NewStore(cfg, nil), cfg
}

func TestStore_LoadEmpty(t *testing.T) {
	store, _ := newStore(t)

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStore_SaveThenLoad(t *testing.T) {
	store, cfg := newStore(t)
	user := service.User{Email: "a@b.com", Name: "a"}

	require.NoError(t, store.Save(session.Session{User: user, Token: "tok-123"}))

	// A fresh store over the same directory models a process restart.
	reloaded := session.NewStore(cfg, nil)
	sess, ok := reloaded.Load()
	require.True(t, ok)
	assert.Equal(t, user, sess.User)
	assert.Equal(t, "tok-123", sess.Token)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Save(session.Session{User: service.User{Email: "old@b.com"}, Token: "old"}))
	require.NoError(t, store.Save(session.Session{User: service.User{Email: "new@b.com"}, Token: "new"}))

	sess, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "new@b.com", sess.User.Email)
	assert.Equal(t, "new", sess.Token)
}

func TestStore_UserWithoutToken(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Save(session.Session{User: service.User{Email: "a@b.com"}, Token: "tok"}))
	require.NoError(t, store.Save(session.Session{User: service.User{Email: "a@b.com"}}))

	sess, ok := store.Load()
	require.True(t, ok)
	assert.Empty(t, sess.Token)
}

func TestStore_CorruptUserIsAbsent(t *testing.T) {
	store, cfg := newStore(t)
	require.NoError(t, os.WriteFile(cfg.UserPath(), []byte("{not json"), 0600))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	store, cfg := newStore(t)
	require.NoError(t, store.Save(session.Session{User: service.User{Email: "a@b.com"}, Token: "tok"}))

	require.NoError(t, store.Clear())

	_, ok := store.Load()
	assert.False(t, ok)
	assert.NoFileExists(t, cfg.TokenPath())
	assert.NoFileExists(t, cfg.UserPath())

	// Clearing again is not an error.
	assert.NoError(t, store.Clear())
}

func TestStore_FilePermissions(t *testing.T) {
	store, cfg := newStore(t)
	require.NoError(t, store.Save(session.Session{User: service.User{Email: "a@b.com"}, Token: "tok"}))

	info, err := os.Stat(cfg.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
