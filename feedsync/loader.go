package feedsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/domain"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page must be >= 1")

// PageSource fetches one page of posts.
type PageSource interface {
	FetchPosts(ctx context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error)
}

// LoadResult describes what a Load call did to the list.
type LoadResult struct {
	Posts   []domain.FeedPost // Whole list after the load
	Added   []domain.FeedPost // Posts this load contributed
	Page    int
	HasMore bool
	Dropped int // Malformed records skipped

	// Skipped is set when a load-more was ignored: another load was in
	// flight or there were no more pages. No request was made.
	Skipped bool
	// Stale is set when the response arrived after a newer replace load
	// or after Close. The list was not touched.
	Stale bool
}

// Loader pages through a post listing for one screen.
type Loader struct {
	src      PageSource
	pageSize int
	logger   *log.Logger
	now      func() time.Time

	mu       sync.Mutex
	posts    []domain.FeedPost
	cursor   domain.PageCursor
	filter   domain.Filter
	gen      uint64
	inFlight bool
	closed   bool
}

// NewLoader creates a loader fetching pageSize posts per page.
func NewLoader(src PageSource, pageSize int, opts ...Option) *Loader {
	o := applyOptions(opts)
	if pageSize < 1 {
		pageSize = 1
	}
	filter := o.filter
	if filter == "" {
		filter = domain.FilterAll
	}
	return &Loader{
		src:      src,
		pageSize: pageSize,
		logger:   o.logger.With("component", "loader"),
		now:      o.now,
		filter:   filter,
	}
}

// Load fetches page for filter. With append the page is added after the
// current list, otherwise it replaces it. A load that switches filters is
// always a replace of page 1.
func (l *Loader) Load(ctx context.Context, page int, filter domain.Filter, appendPage bool) (LoadResult, error) {
	if page < 1 {
		return LoadResult{}, ErrInvalidPage
	}
	if filter == "" {
		filter = domain.FilterAll
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return LoadResult{Stale: true}, nil
	}
	if filter != l.filter {
		page, appendPage = 1, false
	}
	if appendPage {
		if l.inFlight || !l.cursor.HasMore || page <= l.cursor.Page {
			busy := l.inFlight
			res := l.snapshotLocked()
			res.Skipped = true
			l.mu.Unlock()
			l.logger.Debug("load more ignored", "page", page, "inFlight", busy)
			return res, nil
		}
	} else {
		// Replace loads supersede whatever is in flight.
		l.gen++
	}
	l.inFlight = true
	gen := l.gen
	l.mu.Unlock()

	pg, err := l.src.FetchPosts(ctx, page, l.pageSize, filter)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen || l.closed {
		l.logger.Debug("dropping stale page", "page", page, "filter", filter)
		return LoadResult{Stale: true}, nil
	}
	l.inFlight = false

	if err != nil {
		lerr := &domain.LoadError{Page: page, Filter: filter, Err: err}
		l.logger.Warn("load failed", "page", page, "filter", filter, "err", err)
		return l.snapshotLocked(), lerr
	}

	added, dropped := MapPosts(pg.Posts, l.now())
	if dropped > 0 {
		l.logger.Warn("skipped malformed posts", "page", page, "count", dropped)
	}
	if appendPage {
		l.posts = append(l.posts, added...)
	} else {
		l.posts = added
	}
	l.filter = filter
	l.cursor = domain.PageCursor{
		Page:    page,
		HasMore: hasMorePages(page, pg.TotalPages, len(pg.Posts), l.pageSize),
	}

	res := l.snapshotLocked()
	res.Added = append([]domain.FeedPost(nil), added...)
	res.Dropped = dropped
	return res, nil
}

// hasMorePages trusts the server's page count. Servers that omit it get
// the full-page heuristic instead of an unconditional stop.
func hasMorePages(page, totalPages, returned, limit int) bool {
	if totalPages > 0 {
		return page < totalPages
	}
	return returned >= limit
}

// LoadMore appends the next page when one exists and nothing is in flight.
func (l *Loader) LoadMore(ctx context.Context) (LoadResult, error) {
	l.mu.Lock()
	page, filter := l.cursor.Page+1, l.filter
	l.mu.Unlock()
	return l.Load(ctx, page, filter, true)
}

// Refresh reloads page 1 of the current filter.
func (l *Loader) Refresh(ctx context.Context) (LoadResult, error) {
	return l.Load(ctx, 1, l.Filter(), false)
}

// SetFilter loads page 1 of f, replacing the list once the page arrives.
func (l *Loader) SetFilter(ctx context.Context, f domain.Filter) (LoadResult, error) {
	return l.Load(ctx, 1, f, false)
}

// Prepend inserts a post at the top of the list, e.g. after publishing.
func (l *Loader) Prepend(p domain.FeedPost) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = append([]domain.FeedPost{p}, l.posts...)
}

// Close detaches the loader. Responses still in flight are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.inFlight = false
}

// Posts returns a copy of the current list.
func (l *Loader) Posts() []domain.FeedPost {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.FeedPost(nil), l.posts...)
}

// Cursor returns the pagination state of the current list.
func (l *Loader) Cursor() domain.PageCursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Filter returns the filter of the current list.
func (l *Loader) Filter() domain.Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// InFlight reports whether a load is outstanding.
func (l *Loader) InFlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

func (l *Loader) snapshotLocked() LoadResult {
	return LoadResult{
		Posts:   append([]domain.FeedPost(nil), l.posts...),
		Page:    l.cursor.Page,
		HasMore: l.cursor.HasMore,
	}
}
