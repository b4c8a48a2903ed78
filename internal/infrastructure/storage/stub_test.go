package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage_Upload(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	t.Run("stores object and content type", func(t *testing.T) {
		err := s.Upload(ctx, "contents/abc/0.jpg", []byte("jpeg-bytes"), "image/jpeg")
		require.NoError(t, err)

		data, contentType, ok := s.Object("contents/abc/0.jpg")
		require.True(t, ok)
		assert.Equal(t, []byte("jpeg-bytes"), data)
		assert.Equal(t, "image/jpeg", contentType)
	})

	t.Run("replaces existing object", func(t *testing.T) {
		require.NoError(t, s.Upload(ctx, "k", []byte("v1"), "text/plain"))
		require.NoError(t, s.Upload(ctx, "k", []byte("v2"), "text/plain"))

		data, _, ok := s.Object("k")
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), data)
	})

	t.Run("copies the input slice", func(t *testing.T) {
		buf := []byte("original")
		require.NoError(t, s.Upload(ctx, "copied", buf, "text/plain"))
		buf[0] = 'X'

		data, _, ok := s.Object("copied")
		require.True(t, ok)
		assert.Equal(t, []byte("original"), data)
	})

	t.Run("empty storage key", func(t *testing.T) {
		err := s.Upload(ctx, "", []byte("x"), "text/plain")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestMemoryObjectStorage_DeleteObject(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	t.Run("removes stored object", func(t *testing.T) {
		require.NoError(t, s.Upload(ctx, "to-delete", []byte("x"), "text/plain"))
		require.NoError(t, s.DeleteObject(ctx, "to-delete"))

		exists, err := s.ObjectExists(ctx, "to-delete")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		require.NoError(t, s.DeleteObject(ctx, "never-stored"))
	})

	t.Run("empty storage key", func(t *testing.T) {
		err := s.DeleteObject(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestMemoryObjectStorage_ObjectExists(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	t.Run("reports stored keys", func(t *testing.T) {
		require.NoError(t, s.Upload(ctx, "present", []byte("x"), "text/plain"))

		exists, err := s.ObjectExists(ctx, "present")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.ObjectExists(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("empty storage key", func(t *testing.T) {
		exists, err := s.ObjectExists(ctx, "")
		require.Error(t, err)
		assert.False(t, exists)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestMemoryObjectStorage_Len(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	assert.Equal(t, 0, s.Len())
	require.NoError(t, s.Upload(ctx, "a", []byte("1"), "text/plain"))
	require.NoError(t, s.Upload(ctx, "b", []byte("2"), "text/plain"))
	assert.Equal(t, 2, s.Len())
	require.NoError(t, s.DeleteObject(ctx, "a"))
	assert.Equal(t, 1, s.Len())
}
