package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/tinylink/internal/links"
)

// MemoryStore is an in-memory implementation of links.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[links.Code]links.Link
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[links.Code]links.Link),
	}
}

func (m *MemoryStore) Create(_ context.Context, link *links.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return links.ErrConflict
	}

	m.links[link.Code] = links.Link{
		Code:      link.Code,
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
	}

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code links.Code) (*links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, links.ErrNotFound
	}

	return cloneLink(link), nil
}

func (m *MemoryStore) List(_ context.Context) ([]links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]links.Link, 0, len(m.links))
	for _, link := range m.links {
		result = append(result, *cloneLink(link))
	}

	return result, nil
}

func (m *MemoryStore) Delete(_ context.Context, code links.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[code]; !ok {
		return links.ErrNotFound
	}

	delete(m.links, code)

	return nil
}

func (m *MemoryStore) IncrementClick(_ context.Context, code links.Code, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[code]
	if !ok {
		return links.ErrNotFound
	}

	link.Clicks++
	link.LastClickedAt = &at
	m.links[code] = link

	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Shutdown is a no-op for MemoryStore.
func (m *MemoryStore) Shutdown() error {
	return nil
}

func cloneLink(link links.Link) *links.Link {
	if link.LastClickedAt != nil {
		at := *link.LastClickedAt
		link.LastClickedAt = &at
	}

	return &link
}

var _ Backend = (*MemoryStore)(nil)
