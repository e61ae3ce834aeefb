package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_MemoryOnly(t *testing.T) {
	s, err := NewBlobStore("")
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, s.Path())

	data, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	require.NoError(t, s.Save([]byte(`{"version":1}`)))

	data, ok, err = s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":1}`, string(data))
}

func TestBlobStore_LoadReturnsCopy(t *testing.T) {
	s, err := NewBlobStore("")
	require.NoError(t, err)

	require.NoError(t, s.Save([]byte("abc")))
	data, _, _ := s.Load()
	data[0] = 'z'

	again, _, _ := s.Load()
	assert.Equal(t, "abc", string(again))
}

func TestBlobStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewBlobStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, dbFileName), s.Path())

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save([]byte("first")))
	require.NoError(t, s.Save([]byte("second")))
	require.NoError(t, s.Close())

	reopened, err := NewBlobStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	data, ok, err := reopened.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(data))
}

func TestBlobStore_CreatesNestedDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	s, err := NewBlobStore(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, filepath.Join(dir, dbFileName))
}

func TestBlobStore_SecondOpenReportsLocked(t *testing.T) {
	dir := t.TempDir()

	first, err := NewBlobStore(dir)
	require.NoError(t, err)
	defer first.Close()

	_, err = NewBlobStore(dir)
	require.ErrorIs(t, err, ErrLocked)
}
