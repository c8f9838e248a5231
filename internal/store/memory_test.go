package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/tinylink/internal/links"
	"github.com/serroba/tinylink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runRepositoryContract(t, func(_ *testing.T) store.Backend {
		return store.NewMemoryStore()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.Create(ctx, links.New("copy12", "https://example.com", time.Now())))
	require.NoError(t, s.IncrementClick(ctx, "copy12", time.Now()))

	got, err := s.Get(ctx, "copy12")
	require.NoError(t, err)

	got.URL = "https://mutated.com"
	got.Clicks = 100
	*got.LastClickedAt = time.Time{}

	again, err := s.Get(ctx, "copy12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", again.URL)
	assert.Equal(t, int64(1), again.Clicks)
	assert.False(t, again.LastClickedAt.IsZero())
}

func TestMemoryStore_Shutdown(t *testing.T) {
	assert.NoError(t, store.NewMemoryStore().Shutdown())
}
