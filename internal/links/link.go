package links

import "time"

// Code is the short code identifying a link and forming its redirect path.
type Code string

// Link is a short code mapped to its target URL together with click counters.
type Link struct {
	Code          Code
	URL           string
	Clicks        int64
	CreatedAt     time.Time
	LastClickedAt *time.Time // nil until the first recorded click
}

// New returns a fresh link with no clicks, created at the given time.
func New(code Code, url string, createdAt time.Time) *Link {
	return &Link{
		Code:      code,
		URL:       url,
		CreatedAt: createdAt,
	}
}
