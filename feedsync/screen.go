package feedsync

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
)

// Variant selects a screen's behavior.
type Variant int

const (
	VariantFull    Variant = iota // Community list with paging
	VariantCompact                // Embedded preview, first page only
	VariantMUD                    // MUD feed, paged, fixed to the mud filter
)

const (
	fullPageSize    = 20
	compactPageSize = 3
	compactVisible  = 2
)

// PageSize returns the variant's default page size.
func (v Variant) PageSize() int {
	if v == VariantCompact {
		return compactPageSize
	}
	return fullPageSize
}

func (v Variant) String() string {
	switch v {
	case VariantCompact:
		return "compact"
	case VariantMUD:
		return "mud"
	default:
		return "full"
	}
}

// State is a screen's loading state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateRefreshing
	StateLoadingMore
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	case StateLoadingMore:
		return "loading-more"
	default:
		return "idle"
	}
}

// Screen drives one list screen: it owns the loader for the screen and
// shares the session's interaction controller.
type Screen struct {
	variant Variant
	svc     app.CommunityService
	loader  *Loader
	toggles *Interactions
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	state    State
	filter   domain.Filter // Selected filter; the list may still show the previous one
	seq      uint64
	lastErr  error
	mounted  bool
	detached bool
}

// NewScreen creates a screen of the given variant. A nil toggles gives the
// screen a controller of its own.
func NewScreen(variant Variant, svc app.CommunityService, toggles *Interactions, opts ...Option) *Screen {
	o := applyOptions(opts)
	filter := o.filter
	if variant == VariantMUD {
		filter = domain.FilterMUD
	}
	if filter == "" {
		filter = domain.FilterAll
	}
	pageSize := variant.PageSize()
	if o.pageSize > 0 && variant != VariantCompact {
		pageSize = o.pageSize
	}
	logger := o.logger.With("screen", variant.String())
	if toggles == nil {
		toggles = NewInteractions(svc, opts...)
	}
	loaderOpts := append(append([]Option(nil), opts...), WithFilter(filter), WithLogger(logger))
	return &Screen{
		variant: variant,
		svc:     svc,
		loader:  NewLoader(svc, pageSize, loaderOpts...),
		toggles: toggles,
		logger:  logger,
		now:     o.now,
		filter:  filter,
	}
}

type screenOp struct {
	seq   uint64
	epoch uint64 // interaction epoch when the fetch started
}

// begin moves the screen into st and returns the operation's ticket.
func (s *Screen) begin(st State) screenOp {
	s.seq++
	s.state = st
	return screenOp{seq: s.seq, epoch: s.toggles.Epoch()}
}

// finish settles an operation. Only the newest operation returns the screen
// to Ready; older ones finishing late leave the newer state in place.
func (s *Screen) finish(op screenOp, res LoadResult, err error) error {
	if err == nil && !res.Stale && !res.Skipped {
		for _, p := range res.Added {
			s.toggles.SeedAt(op.epoch, p.ID, nil, p.Likes)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil
	}
	if op.seq == s.seq {
		s.state = StateReady
	}
	if res.Stale {
		return nil
	}
	s.lastErr = err
	return err
}

// Mount performs the initial load.
func (s *Screen) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return nil
	}
	s.mounted = true
	op := s.begin(StateLoading)
	filter := s.filter
	s.mu.Unlock()

	res, err := s.loader.Load(ctx, 1, filter, false)
	return s.finish(op, res, err)
}

// ChangeFilter switches to f and reloads from page 1. The old list stays
// visible until the new page arrives; if it never does, the previous
// filter is selected again. The MUD variant ignores filters.
func (s *Screen) ChangeFilter(ctx context.Context, f domain.Filter) error {
	s.mu.Lock()
	if s.detached || s.variant == VariantMUD || f == "" || (f == s.filter && s.state != StateIdle) {
		s.mu.Unlock()
		return nil
	}
	prev := s.filter
	s.filter = f
	op := s.begin(StateLoading)
	s.mu.Unlock()

	res, err := s.loader.SetFilter(ctx, f)
	if err != nil && !res.Stale {
		// The list still shows prev; so must the selection.
		s.mu.Lock()
		if s.filter == f {
			s.filter = prev
		}
		s.mu.Unlock()
	}
	return s.finish(op, res, err)
}

// Refresh reloads page 1 of the selected filter.
func (s *Screen) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return nil
	}
	op := s.begin(StateRefreshing)
	filter := s.filter
	s.mu.Unlock()

	res, err := s.loader.Load(ctx, 1, filter, false)
	return s.finish(op, res, err)
}

// ScrollReached loads the next page when the screen is Ready and more pages
// exist. Otherwise it does nothing.
func (s *Screen) ScrollReached(ctx context.Context) error {
	s.mu.Lock()
	if s.detached || s.variant == VariantCompact || s.state != StateReady || !s.loader.Cursor().HasMore {
		s.mu.Unlock()
		return nil
	}
	op := s.begin(StateLoadingMore)
	s.mu.Unlock()

	res, err := s.loader.LoadMore(ctx)
	return s.finish(op, res, err)
}

// Unmount detaches the screen. Responses still in flight are dropped.
func (s *Screen) Unmount() {
	s.mu.Lock()
	s.detached = true
	s.mounted = false
	s.state = StateIdle
	s.mu.Unlock()
	s.loader.Close()
}

// Toggle flips a like or bookmark on a post and returns the updated post.
// The screen's list itself is not touched; Visible overlays the state.
func (s *Screen) Toggle(ctx context.Context, postID string, kind domain.InteractionKind) (domain.FeedPost, error) {
	out, err := s.toggles.Toggle(ctx, postID, kind)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
	}
	post, _ := s.Post(postID)
	if post.ID == "" {
		post = domain.FeedPost{
			ID:         postID,
			Likes:      out.State.Likes,
			Liked:      out.State.Status.Liked,
			Bookmarked: out.State.Status.Bookmarked,
		}
	}
	return post, err
}

// Submit publishes a top-level post. On success the post is placed at the
// top of the list when it belongs to the selected filter.
func (s *Screen) Submit(ctx context.Context, content string) (domain.FeedPost, error) {
	content, err := validateContent(content)
	if err != nil {
		return domain.FeedPost{}, err
	}
	raw, err := s.svc.CreatePost(ctx, content, "")
	if err != nil {
		s.logger.Warn("submit failed", "err", err)
		return domain.FeedPost{}, &domain.SubmitError{Err: err}
	}
	post, err := MapToFeedPost(raw, s.now())
	if err != nil {
		return domain.FeedPost{}, &domain.SubmitError{Err: err}
	}
	s.toggles.Seed(post.ID, &domain.InteractionStatus{}, post.Likes)
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()
	if filter == domain.FilterAll || strings.EqualFold(raw.Tag, string(filter)) {
		s.loader.Prepend(post)
	}
	return post, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return "", domain.ErrContentTooLong
	}
	return content, nil
}

// Visible returns the posts to render with interaction state applied.
// Compact screens show at most two posts.
func (s *Screen) Visible() []domain.FeedPost {
	posts := s.loader.Posts()
	if s.variant == VariantCompact && len(posts) > compactVisible {
		posts = posts[:compactVisible]
	}
	for i := range posts {
		posts[i] = s.toggles.Apply(posts[i])
	}
	return posts
}

// Post returns one post of the list with interaction state applied.
func (s *Screen) Post(id string) (domain.FeedPost, bool) {
	for _, p := range s.loader.Posts() {
		if p.ID == id {
			return s.toggles.Apply(p), true
		}
	}
	return domain.FeedPost{}, false
}

// State returns the screen's state.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Filter returns the selected filter.
func (s *Screen) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Cursor returns the pagination state of the visible list.
func (s *Screen) Cursor() domain.PageCursor {
	return s.loader.Cursor()
}

// HasMore reports whether a further page can be loaded.
func (s *Screen) HasMore() bool {
	return s.variant != VariantCompact && s.loader.Cursor().HasMore
}

// LastError returns the error of the most recent failed operation, or nil
// once a later operation succeeded.
func (s *Screen) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Mounted reports whether the screen is mounted.
func (s *Screen) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Variant returns the screen variant.
func (s *Screen) Variant() Variant {
	return s.variant
}
