package links

import (
	"fmt"
	"net/url"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jaevor/go-nanoid"
)

const (
	MinCodeLength     = 6
	MaxCodeLength     = 8
	DefaultCodeLength = 6

	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

var codeRules = []validation.Rule{
	validation.Required,
	validation.Length(MinCodeLength, MaxCodeLength),
	validation.Match(codePattern),
}

var urlRules = []validation.Rule{
	validation.Required,
	validation.By(absoluteWebURL),
}

// IsValidCode reports whether s is 6 to 8 ASCII letters or digits.
func IsValidCode(s string) bool {
	return validation.Validate(s, codeRules...) == nil
}

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	return validation.Validate(s, urlRules...) == nil
}

func absoluteWebURL(value any) error {
	s, _ := value.(string)

	u, err := url.Parse(s)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_url_scheme", "must use http or https")
	}

	if u.Host == "" || u.Hostname() == "" {
		return validation.NewError("validation_url_host", "must include a host")
	}

	return nil
}

// CodeGenerator returns a new random code on each call.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of alphanumeric codes of the given
// length, drawn uniformly from a cryptographically secure source.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return nil, fmt.Errorf("code length must be between %d and %d, got %d",
			MinCodeLength, MaxCodeLength, length)
	}

	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}
