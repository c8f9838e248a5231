package events

import "time"

const (
	TopicLinkCreated = "link.created"
	TopicLinkDeleted = "link.deleted"
	TopicLinkClicked = "link.clicked"
)

// Request carries the caller metadata attached to every event.
type Request struct {
	ClientIP  string `json:"clientIp,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// LinkCreatedEvent is emitted after a link has been stored.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	Generated bool      `json:"generated"`
	CreatedAt time.Time `json:"createdAt"`
	Request
}

// LinkDeletedEvent is emitted after a link has been removed.
type LinkDeletedEvent struct {
	Code      string    `json:"code"`
	DeletedAt time.Time `json:"deletedAt"`
	Request
}

// LinkClickedEvent is emitted after a redirect's click was counted.
type LinkClickedEvent struct {
	Code      string    `json:"code"`
	ClickedAt time.Time `json:"clickedAt"`
	Request
}
