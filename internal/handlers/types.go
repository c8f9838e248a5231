package handlers

import "time"

// LinkBody is the JSON representation of a stored link.
type LinkBody struct {
	Code          string     `doc:"The short code"                 example:"abc123"              json:"code"`
	URL           string     `doc:"The target URL"                 example:"https://example.com" json:"url"`
	Clicks        int64      `doc:"Number of redirects served"     json:"clicks"`
	CreatedAt     time.Time  `doc:"When the link was created"      json:"createdAt"`
	LastClickedAt *time.Time `doc:"When the link was last followed" json:"lastClickedAt,omitempty"`
}

// ListLinksResponse is the response for listing every link.
type ListLinksResponse struct {
	Body []LinkBody
}

// CreateLinkBody is the payload for creating a link. Fields are untyped so
// that any malformed value, including a non-string one, reaches the handler
// and answers 400.
type CreateLinkBody struct {
	_    struct{} `additionalProperties:"true" json:"-"`
	URL  any      `doc:"The http or https URL to shorten"            json:"url,omitempty"  required:"false"`
	Code any      `doc:"Optional custom code, 6-8 letters or digits" json:"code,omitempty" required:"false"`
}

// CreateLinkRequest is the request for creating a link.
type CreateLinkRequest struct {
	Body CreateLinkBody `required:"false"`
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     struct {
		Code     string `doc:"The short code"     example:"abc123"                        json:"code"`
		URL      string `doc:"The target URL"     example:"https://example.com/very/long" json:"url"`
		ShortURL string `doc:"The full short URL" example:"http://localhost:8888/abc123"  json:"shortUrl"`
	}
}

// LinkRequest addresses a single link by code.
type LinkRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// GetLinkResponse is the response for reading a single link.
type GetLinkResponse struct {
	Body LinkBody
}

// DeleteLinkResponse is the response for deleting a link.
type DeleteLinkResponse struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// RedirectResponse sends the visitor to the target URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
