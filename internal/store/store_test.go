package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoralesdev/volley-panel/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "panel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadSession_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoadSession(t *testing.T) {
	s := openTestStore(t)

	want := Session{
		Token: "tok-abc",
		User:  model.User{ID: 3, Username: "ana", Email: "ana@example.com"},
	}
	require.NoError(t, s.SaveSession(want))

	got, ok, err := s.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestClearSession(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveSession(Session{Token: "tok"}))
	require.NoError(t, s.ClearSession())

	_, ok, err := s.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveSession_Overwrites(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveSession(Session{Token: "first"}))
	require.NoError(t, s.SaveSession(Session{Token: "second"}))

	got, ok, err := s.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", got.Token)
}
