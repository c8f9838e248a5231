package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisDB(t *testing.T) {
	t.Run("defaults to database 0", func(t *testing.T) {
		db, err := parseRedisDB("")

		require.NoError(t, err)
		assert.Equal(t, 0, db)
	})

	t.Run("reads a database number", func(t *testing.T) {
		db, err := parseRedisDB("3")

		require.NoError(t, err)
		assert.Equal(t, 3, db)
	})

	for _, raw := range []string{"one", "1.5", "-1", " 2"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := parseRedisDB(raw)

			assert.ErrorContains(t, err, "REDIS_DB")
		})
	}
}
