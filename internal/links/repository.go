package links

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("link not found")
	ErrConflict    = errors.New("code already exists")
	ErrInvalidURL  = errors.New("invalid url")
	ErrInvalidCode = errors.New("invalid code")
)

// Repository is the record store holding links keyed by code.
//
// Implementations must decide Create conflicts atomically in the backend and
// apply IncrementClick as a single additive update, never read-modify-write.
type Repository interface {
	// Create stores a new link. Returns ErrConflict if the code is taken.
	Create(ctx context.Context, link *Link) error

	// Get returns the link stored under code, or ErrNotFound.
	Get(ctx context.Context, code Code) (*Link, error)

	// List returns every stored link in no particular order.
	List(ctx context.Context) ([]Link, error)

	// Delete removes the link stored under code, or returns ErrNotFound.
	Delete(ctx context.Context, code Code) error

	// IncrementClick adds one click and sets the last click time to at.
	// Returns ErrNotFound if no link is stored under code.
	IncrementClick(ctx context.Context, code Code, at time.Time) error
}
