package container

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/serroba/tinylink/internal/links"
)

const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Options is the server configuration, read from flags and SERVICE_*
// environment variables.
type Options struct {
	Port          int    `default:"8888"                                                 help:"Port to listen on"                                          short:"p"`
	BaseURL       string `default:""                                                     help:"Public origin for short URLs (defaults to http://localhost:<port>)"`
	CodeLength    int    `default:"6"                                                    help:"Length of generated short codes (6-8)"                      short:"c"`
	Store         string `default:"redis"                                                help:"Record store: redis, postgres, sqlite or memory"            short:"s"`
	RedisAddr     string `default:"localhost:6379"                                       help:"Redis server address"                                       short:"r"`
	RedisPassword string `default:""                                                     help:"Redis password"`
	RedisDB       int    `default:"0"                                                    help:"Redis database number"`
	RedisPrefix   string `default:"link:"                                                help:"Key prefix for link hashes"`
	PostgresURL   string `default:"postgres://localhost:5432/tinylink?sslmode=disable" help:"PostgreSQL connection URL"`
	SQLiteDSN     string `default:"tinylink.db"                                          help:"SQLite file path or libsql:// URL"`
	ClickTimeout  int    `default:"5"                                                    help:"Seconds allowed for recording a click"`
	Events        bool   `default:"false"                                                help:"Publish link events to Redis streams"`
	LogFormat     string `default:"console"                                              help:"Log format: console or json"`
	LogLevel      string `default:"info"                                                 help:"Log level: debug, info, warn or error"`
}

// Validate checks the options before anything is wired.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&o.BaseURL, validation.By(publicURL)),
		validation.Field(&o.CodeLength, validation.Required,
			validation.Min(links.MinCodeLength), validation.Max(links.MaxCodeLength)),
		validation.Field(&o.Store, validation.Required,
			validation.In(StoreRedis, StorePostgres, StoreSQLite, StoreMemory)),
		validation.Field(&o.RedisAddr,
			validation.When(o.Store == StoreRedis || o.Events, validation.Required)),
		validation.Field(&o.PostgresURL, validation.When(o.Store == StorePostgres, validation.Required)),
		validation.Field(&o.SQLiteDSN, validation.When(o.Store == StoreSQLite, validation.Required)),
		validation.Field(&o.ClickTimeout, validation.Min(0)),
		validation.Field(&o.LogFormat, validation.In("console", "json")),
		validation.Field(&o.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// publicURL accepts an empty value or an absolute http(s) URL.
func publicURL(value any) error {
	s, _ := value.(string)
	if s == "" || links.IsValidURL(s) {
		return nil
	}

	return validation.NewError("validation_base_url", "must be an absolute http or https URL")
}

// PublicBaseURL is the origin short URLs are built on, without a trailing
// slash.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL == "" {
		return fmt.Sprintf("http://localhost:%d", o.Port)
	}

	return strings.TrimRight(o.BaseURL, "/")
}

// ClickTimeoutDuration converts ClickTimeout to a duration. Zero selects the
// recorder default.
func (o *Options) ClickTimeoutDuration() time.Duration {
	return time.Duration(o.ClickTimeout) * time.Second
}
