// Package feedsync keeps community feeds in step with the backend: it maps
// server records to view models, pages through listings, and applies
// optimistic like/bookmark toggles. It has no UI dependency; the TUI drives
// it from Bubble Tea commands, which run on their own goroutines, so every
// type here is safe for concurrent use.
package feedsync

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/domain"
)

type options struct {
	logger        *log.Logger
	now           func() time.Time
	filter        domain.Filter
	revertOnError bool
	pageSize      int
}

func defaultOptions() options {
	return options{
		logger: log.New(io.Discard),
		now:    time.Now,
	}
}

// Option configures loaders, screens and the interaction controller.
type Option func(*options)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFilter sets the filter a screen mounts with.
func WithFilter(f domain.Filter) Option {
	return func(o *options) { o.filter = f }
}

// WithPageSize overrides the page size of paged screens. Compact
// previews keep theirs.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithRevertOnError makes failed toggles undo their optimistic change.
// Without it a failed toggle keeps the local state until the next fetch.
func WithRevertOnError() Option {
	return func(o *options) { o.revertOnError = true }
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
