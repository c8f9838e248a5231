package links

import (
	"context"
	"time"
)

// reservedCodes are valid codes shadowed by fixed routes of the service; a
// link stored under one could never be followed.
var reservedCodes = map[Code]struct{}{
	"healthz": {},
}

// IsReservedCode reports whether code is taken by a fixed route.
func IsReservedCode(code Code) bool {
	_, ok := reservedCodes[code]
	return ok
}

// Shortener validates and stores new links, generating a code when the
// caller does not supply one.
type Shortener struct {
	store        Repository
	generateCode CodeGenerator
	now          func() time.Time
}

// NewShortener creates a new Shortener writing to store.
func NewShortener(store Repository, generator CodeGenerator) *Shortener {
	return &Shortener{
		store:        store,
		generateCode: generator,
		now:          time.Now,
	}
}

// Shorten creates a link for rawURL under code, or under a generated code if
// code is empty. Validation failures return ErrInvalidURL or ErrInvalidCode
// before the store is touched. A taken or reserved code returns ErrConflict.
func (s *Shortener) Shorten(ctx context.Context, rawURL string, code Code) (*Link, error) {
	if !IsValidURL(rawURL) {
		return nil, ErrInvalidURL
	}

	if code != "" && !IsValidCode(string(code)) {
		return nil, ErrInvalidCode
	}

	if code == "" {
		code = Code(s.generateCode())
	}

	if IsReservedCode(code) {
		return nil, ErrConflict
	}

	link := New(code, rawURL, s.now().UTC())

	if err := s.store.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}
