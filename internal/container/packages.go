package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tinylink/internal/clicks"
	"github.com/serroba/tinylink/internal/events"
	"github.com/serroba/tinylink/internal/handlers"
	"github.com/serroba/tinylink/internal/health"
	"github.com/serroba/tinylink/internal/links"
	"github.com/serroba/tinylink/internal/messaging"
	"github.com/serroba/tinylink/internal/middleware"
	"github.com/serroba/tinylink/internal/store"
	"go.uber.org/zap"
)

const (
	// AuditConsumerGroup is the Redis streams consumer group of cmd/consumer.
	AuditConsumerGroup = "tinylink-audit"

	connectTimeout = 10 * time.Second
)

// EventPublishers holds the typed publish functions for link events.
type EventPublishers struct {
	Created messaging.Publish[events.LinkCreatedEvent]
	Deleted messaging.Publish[events.LinkDeletedEvent]
	Clicked messaging.Publish[events.LinkClickedEvent]
}

// redisConn closes the shared client when the injector shuts down.
type redisConn struct {
	*redis.Client
}

func (c *redisConn) Shutdown() error {
	return c.Close()
}

// LoggerPackage provides *zap.Logger configured from Options.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat, opts.LogLevel)
	})
}

// NewLogger builds a console (development) or json (production) logger.
func NewLogger(format, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		atomic, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		cfg.Level = atomic
	}

	return cfg.Build()
}

// RedisPackage provides the shared *redis.Client. The connection is only
// opened when something invokes it.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*redisConn, error) {
		opts := do.MustInvoke[*Options](i)

		return &redisConn{Client: redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})}, nil
	})

	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		conn, err := do.Invoke[*redisConn](i)
		if err != nil {
			return nil, err
		}

		return conn.Client, nil
	})
}

// StorePackage provides the store.Backend selected by Options.Store.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (store.Backend, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		backend, err := openBackend(ctx, i, opts)
		if err != nil {
			return nil, err
		}

		logger.Info("record store ready", zap.String("store", opts.Store))

		return backend, nil
	})
}

func openBackend(ctx context.Context, i *do.Injector, opts *Options) (store.Backend, error) {
	switch opts.Store {
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreRedis:
		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisStore(client, opts.RedisPrefix), nil
	case StorePostgres:
		pool, err := pgxpool.New(ctx, opts.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}

		pg := store.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		return pg, nil
	case StoreSQLite:
		return store.OpenSQLiteStore(ctx, opts.SQLiteDSN)
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}
}

// EventsPackage provides EventPublishers. With events disabled every
// function discards; otherwise they publish to Redis streams.
func EventsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := messaging.NewRedisStreamPublisher(client, messaging.NewZapLoggerAdapter(logger))
		if err != nil {
			return nil, fmt.Errorf("event publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (*EventPublishers, error) {
		opts := do.MustInvoke[*Options](i)

		if !opts.Events {
			return &EventPublishers{
				Created: messaging.Discard[events.LinkCreatedEvent](),
				Deleted: messaging.Discard[events.LinkDeletedEvent](),
				Clicked: messaging.Discard[events.LinkClickedEvent](),
			}, nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		publisher := group.Publisher()

		return &EventPublishers{
			Created: messaging.NewPublishFunc[events.LinkCreatedEvent](publisher, events.TopicLinkCreated),
			Deleted: messaging.NewPublishFunc[events.LinkDeletedEvent](publisher, events.TopicLinkDeleted),
			Clicked: messaging.NewPublishFunc[events.LinkClickedEvent](publisher, events.TopicLinkClicked),
		}, nil
	})
}

// ClicksPackage provides the background *clicks.Recorder.
func ClicksPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*clicks.Recorder, error) {
		opts := do.MustInvoke[*Options](i)
		backend := do.MustInvoke[store.Backend](i)
		publishers := do.MustInvoke[*EventPublishers](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return clicks.NewRecorder(backend, opts.ClickTimeoutDuration(), publishers.Clicked, logger), nil
	})
}

// HTTPPackage provides the chi router and the huma API with every route
// registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		backend := do.MustInvoke[store.Backend](i)
		publishers := do.MustInvoke[*EventPublishers](i)
		recorder := do.MustInvoke[*clicks.Recorder](i)

		generator, err := links.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("TinyLink", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		health.RegisterRoutes(api, health.NewHandler(backend, logger))
		handlers.RegisterRoutes(api,
			handlers.NewLinksHandler(
				backend,
				links.NewShortener(backend, generator),
				opts.PublicBaseURL(),
				publishers.Created,
				publishers.Deleted,
				logger,
			),
			handlers.NewRedirectHandler(backend, recorder, logger),
		)

		return api, nil
	})
}

// ConsumerGroupPackage provides the audit *messaging.ConsumerGroup reading
// every link topic.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisStreamSubscriber(
			client,
			AuditConsumerGroup,
			messaging.NewZapLoggerAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("event subscriber: %w", err)
		}

		audit := events.NewAuditLog(logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(
			messaging.NewConsumer[events.LinkCreatedEvent](subscriber, events.TopicLinkCreated, audit.LinkCreated, logger),
			messaging.NewConsumer[events.LinkDeletedEvent](subscriber, events.TopicLinkDeleted, audit.LinkDeleted, logger),
			messaging.NewConsumer[events.LinkClickedEvent](subscriber, events.TopicLinkClicked, audit.LinkClicked, logger),
		)

		return group, nil
	})
}
