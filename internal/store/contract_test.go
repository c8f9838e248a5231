package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/tinylink/internal/links"
	"github.com/serroba/tinylink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behavior every backend must share.
// newStore must return an empty store.
func runRepositoryContract(t *testing.T, newStore func(t *testing.T) store.Backend) {
	t.Helper()

	ctx := context.Background()
	createdAt := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)

		err := s.Create(ctx, links.New("abc123", "https://example.com", createdAt))
		require.NoError(t, err)

		got, err := s.Get(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, links.Code("abc123"), got.Code)
		assert.Equal(t, "https://example.com", got.URL)
		assert.Zero(t, got.Clicks)
		assert.True(t, createdAt.Equal(got.CreatedAt), "createdAt %v != %v", got.CreatedAt, createdAt)
		assert.Nil(t, got.LastClickedAt)
	})

	t.Run("create conflict keeps the first record", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Create(ctx, links.New("dup123", "https://first.com", createdAt)))

		err := s.Create(ctx, links.New("dup123", "https://second.com", createdAt.Add(time.Hour)))
		require.ErrorIs(t, err, links.ErrConflict)

		got, err := s.Get(ctx, "dup123")
		require.NoError(t, err)
		assert.Equal(t, "https://first.com", got.URL)
		assert.True(t, createdAt.Equal(got.CreatedAt))
	})

	t.Run("concurrent creates have a single winner", func(t *testing.T) {
		s := newStore(t)

		const writers = 10

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			wins      int
			conflicts int
		)

		for i := range writers {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				err := s.Create(ctx, links.New("race12", "https://example.com", createdAt.Add(time.Duration(i))))

				mu.Lock()
				defer mu.Unlock()

				switch {
				case err == nil:
					wins++
				case assert.ErrorIs(t, err, links.ErrConflict):
					conflicts++
				}
			}(i)
		}

		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, writers-1, conflicts)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)

		got, err := s.Get(ctx, "nope12")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("list returns every record", func(t *testing.T) {
		s := newStore(t)

		empty, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		for _, code := range []links.Code{"list01", "list02", "list03"} {
			require.NoError(t, s.Create(ctx, links.New(code, "https://example.com/"+string(code), createdAt)))
		}

		all, err := s.List(ctx)
		require.NoError(t, err)

		codes := make([]links.Code, 0, len(all))
		for _, link := range all {
			codes = append(codes, link.Code)
		}

		assert.ElementsMatch(t, []links.Code{"list01", "list02", "list03"}, codes)
	})

	t.Run("delete twice reports not found the second time", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Create(ctx, links.New("del123", "https://example.com", createdAt)))

		require.NoError(t, s.Delete(ctx, "del123"))
		require.ErrorIs(t, s.Delete(ctx, "del123"), links.ErrNotFound)

		_, err := s.Get(ctx, "del123")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("increment click updates counter and timestamp", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Create(ctx, links.New("clk123", "https://example.com", createdAt)))

		first := createdAt.Add(time.Minute)
		second := createdAt.Add(2 * time.Minute)

		require.NoError(t, s.IncrementClick(ctx, "clk123", first))
		require.NoError(t, s.IncrementClick(ctx, "clk123", second))

		got, err := s.Get(ctx, "clk123")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Clicks)
		require.NotNil(t, got.LastClickedAt)
		assert.True(t, second.Equal(*got.LastClickedAt))
		assert.Equal(t, "https://example.com", got.URL)
		assert.True(t, createdAt.Equal(got.CreatedAt))
	})

	t.Run("increment missing code returns ErrNotFound and creates nothing", func(t *testing.T) {
		s := newStore(t)

		err := s.IncrementClick(ctx, "ghost1", createdAt)
		require.ErrorIs(t, err, links.ErrNotFound)

		_, err = s.Get(ctx, "ghost1")
		assert.ErrorIs(t, err, links.ErrNotFound)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Create(ctx, links.New("many12", "https://example.com", createdAt)))

		const clicks = 50

		stamps := make([]time.Time, clicks)

		var wg sync.WaitGroup

		for i := range clicks {
			stamps[i] = createdAt.Add(time.Duration(i+1) * time.Second)

			wg.Add(1)

			go func(at time.Time) {
				defer wg.Done()

				assert.NoError(t, s.IncrementClick(ctx, "many12", at))
			}(stamps[i])
		}

		wg.Wait()

		got, err := s.Get(ctx, "many12")
		require.NoError(t, err)
		assert.Equal(t, int64(clicks), got.Clicks)
		require.NotNil(t, got.LastClickedAt)

		matched := false
		for _, at := range stamps {
			if at.Equal(*got.LastClickedAt) {
				matched = true
			}
		}

		assert.True(t, matched, "lastClickedAt %v should be one of the click times", got.LastClickedAt)
	})

	t.Run("ping succeeds", func(t *testing.T) {
		s := newStore(t)

		assert.NoError(t, s.Ping(ctx))
	})
}

func newLinkFixture(code links.Code) *links.Link {
	return links.New(code, "https://example.com/"+string(code), time.Now().UTC())
}
