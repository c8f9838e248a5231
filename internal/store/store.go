package store

import (
	"context"

	"github.com/serroba/tinylink/internal/links"
)

// Backend is a links.Repository that can report its reachability and
// release the connections it owns.
type Backend interface {
	links.Repository
	Ping(ctx context.Context) error
	Shutdown() error
}
