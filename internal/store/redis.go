package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinylink/internal/links"
)

const (
	DefaultRedisPrefix = "link:"

	scanBatchSize = 100
)

// createScript inserts the link hash only if the key does not exist yet.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'url', ARGV[2], 'clicks', 0, 'createdAt', ARGV[3])
return 1
`)

// incrementScript bumps the counter of an existing link hash and never
// creates a new one.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'clicks', 1)
redis.call('HSET', KEYS[1], 'lastClickedAt', ARGV[1])
return 1
`)

// RedisStore is a Redis implementation of links.Repository.
// Each link is a hash at prefix+code.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed link store. The client is owned
// by the caller.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) key(code links.Code) string {
	return r.prefix + string(code)
}

func (r *RedisStore) Create(ctx context.Context, link *links.Link) error {
	created, err := createScript.Run(ctx, r.client,
		[]string{r.key(link.Code)},
		string(link.Code), link.URL, formatTime(link.CreatedAt),
	).Int()
	if err != nil {
		return fmt.Errorf("redis create %s: %w", link.Code, err)
	}

	if created == 0 {
		return links.ErrConflict
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, code links.Code) (*links.Link, error) {
	fields, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", code, err)
	}

	if len(fields) == 0 {
		return nil, links.ErrNotFound
	}

	return decodeLink(code, fields)
}

func (r *RedisStore) List(ctx context.Context) ([]links.Link, error) {
	var keys []string

	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	result := make([]links.Link, 0, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))

	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		// Deleted between SCAN and HGETALL.
		if len(fields) == 0 {
			continue
		}

		link, err := decodeLink(links.Code(strings.TrimPrefix(keys[i], r.prefix)), fields)
		if err != nil {
			return nil, err
		}

		result = append(result, *link)
	}

	return result, nil
}

func (r *RedisStore) Delete(ctx context.Context, code links.Code) error {
	removed, err := r.client.Del(ctx, r.key(code)).Result()
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", code, err)
	}

	if removed == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (r *RedisStore) IncrementClick(ctx context.Context, code links.Code, at time.Time) error {
	updated, err := incrementScript.Run(ctx, r.client,
		[]string{r.key(code)},
		formatTime(at),
	).Int()
	if err != nil {
		return fmt.Errorf("redis increment %s: %w", code, err)
	}

	if updated == 0 {
		return links.ErrNotFound
	}

	return nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Shutdown is a no-op for RedisStore (client managed externally).
func (r *RedisStore) Shutdown() error {
	return nil
}

func decodeLink(code links.Code, fields map[string]string) (*links.Link, error) {
	link := &links.Link{
		Code: code,
		URL:  fields["url"],
	}

	if c, ok := fields["code"]; ok && c != "" {
		link.Code = links.Code(c)
	}

	if raw, ok := fields["clicks"]; ok {
		clicks, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode clicks of %s: %w", code, err)
		}

		link.Clicks = clicks
	}

	createdAt, err := parseTime(fields["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("decode createdAt of %s: %w", code, err)
	}

	link.CreatedAt = createdAt

	if raw, ok := fields["lastClickedAt"]; ok && raw != "" {
		at, err := parseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("decode lastClickedAt of %s: %w", code, err)
		}

		link.LastClickedAt = &at
	}

	return link, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, s)
}

var _ Backend = (*RedisStore)(nil)
