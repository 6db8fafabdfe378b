package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubImageStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload and download url", func(t *testing.T) {
		s := NewStubImageStorage()
		require.NoError(t, s.Upload(ctx, "products/abc.jpg", []byte{0xFF, 0xD8}, "image/jpeg"))
		assert.True(t, s.Has("products/abc.jpg"))

		url, expiresAt, err := s.DownloadURL(ctx, "products/abc.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/products/abc.jpg", url)
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("upload copies the payload", func(t *testing.T) {
		s := NewStubImageStorage()
		data := []byte{1, 2, 3}
		require.NoError(t, s.Upload(ctx, "k", data, "image/png"))
		data[0] = 9
		assert.True(t, s.Has("k"))
	})

	t.Run("delete removes the object", func(t *testing.T) {
		s := NewStubImageStorage()
		require.NoError(t, s.Upload(ctx, "k", []byte{1}, "image/png"))
		require.NoError(t, s.Delete(ctx, "k"))
		assert.False(t, s.Has("k"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		s := NewStubImageStorage()
		require.Error(t, s.Upload(ctx, "", nil, "image/png"))
		_, _, err := s.DownloadURL(ctx, "")
		require.Error(t, err)
		require.Error(t, s.Delete(ctx, ""))
	})
}
