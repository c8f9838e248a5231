// Package clicks counts redirects without holding up the response.
package clicks

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/tinylink/internal/events"
	"github.com/serroba/tinylink/internal/links"
	"github.com/serroba/tinylink/internal/messaging"
	"go.uber.org/zap"
)

const DefaultTimeout = 5 * time.Second

// Incrementer is the part of links.Repository the recorder needs.
type Incrementer interface {
	IncrementClick(ctx context.Context, code links.Code, at time.Time) error
}

// Recorder increments click counters in the background. Failures are
// logged and never reach the caller.
type Recorder struct {
	store   Incrementer
	timeout time.Duration
	publish messaging.Publish[events.LinkClickedEvent]
	logger  *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewRecorder creates a click recorder. A non-positive timeout falls back to
// DefaultTimeout.
func NewRecorder(
	store Incrementer,
	timeout time.Duration,
	publish messaging.Publish[events.LinkClickedEvent],
	logger *zap.Logger,
) *Recorder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if publish == nil {
		publish = messaging.Discard[events.LinkClickedEvent]()
	}

	return &Recorder{
		store:   store,
		timeout: timeout,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// Record schedules an increment for code and returns immediately. The work
// outlives ctx's cancellation but keeps its values.
func (r *Recorder) Record(ctx context.Context, code links.Code) {
	at := r.now().UTC()
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		if err := r.store.IncrementClick(ctx, code, at); err != nil {
			r.logger.Warn("failed to record click",
				zap.String("code", string(code)),
				zap.Error(err),
			)

			return
		}

		event := &events.LinkClickedEvent{
			Code:      string(code),
			ClickedAt: at,
			Request:   events.RequestFromContext(ctx),
		}

		if err := r.publish(ctx, event); err != nil {
			r.logger.Warn("failed to publish click event",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every scheduled increment has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Shutdown waits for in-flight increments.
func (r *Recorder) Shutdown() error {
	r.Wait()

	return nil
}
