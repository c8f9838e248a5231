package handlers_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/tinylink/internal/links"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// mockStore is a links.Repository test double returning configured errors.
type mockStore struct {
	createErr error
	getErr    error
	listErr   error
	deleteErr error
	gets      int
}

func (m *mockStore) Create(_ context.Context, _ *links.Link) error {
	return m.createErr
}

func (m *mockStore) Get(_ context.Context, code links.Code) (*links.Link, error) {
	m.gets++

	if m.getErr != nil {
		return nil, m.getErr
	}

	return links.New(code, testURL, time.Now()), nil
}

func (m *mockStore) List(_ context.Context) ([]links.Link, error) {
	return nil, m.listErr
}

func (m *mockStore) Delete(_ context.Context, _ links.Code) error {
	return m.deleteErr
}

func (m *mockStore) IncrementClick(_ context.Context, _ links.Code, _ time.Time) error {
	return nil
}

// spyRecorder remembers which codes were recorded.
type spyRecorder struct {
	codes []links.Code
}

func (s *spyRecorder) Record(_ context.Context, code links.Code) {
	s.codes = append(s.codes, code)
}
