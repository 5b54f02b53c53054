package feedsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
)

// ErrSubmitInFlight is returned when a reply is submitted while another one
// is still being sent.
var ErrSubmitInFlight = errors.New("a reply is already being sent")

// DetailScreen shows one post with its discussion thread.
type DetailScreen struct {
	svc     app.CommunityService
	toggles *Interactions
	logger  *log.Logger
	now     func() time.Time

	mu         sync.Mutex
	state      State
	postID     string
	post       *domain.FeedPost
	replies    []domain.ReplyItem
	gen        uint64
	lastErr    error
	submitting bool
	detached   bool
}

// NewDetailScreen creates a detail screen sharing the session's toggles.
func NewDetailScreen(svc app.CommunityService, toggles *Interactions, opts ...Option) *DetailScreen {
	o := applyOptions(opts)
	if toggles == nil {
		toggles = NewInteractions(svc, opts...)
	}
	return &DetailScreen{
		svc:     svc,
		toggles: toggles,
		logger:  o.logger.With("screen", "detail"),
		now:     o.now,
	}
}

type detailFetch struct {
	post    domain.RawPost
	thread  []domain.RawPost
	status  *domain.InteractionStatus
	postErr error
	thrErr  error
}

// fetch loads post, thread and viewer status in parallel.
func (d *DetailScreen) fetch(ctx context.Context, id string) detailFetch {
	var (
		f  detailFetch
		wg sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		f.post, f.postErr = d.svc.FetchPost(ctx, id)
	}()
	go func() {
		defer wg.Done()
		f.thread, f.thrErr = d.svc.FetchThread(ctx, id)
	}()
	go func() {
		defer wg.Done()
		st, err := d.svc.FetchInteraction(ctx, id)
		if err != nil {
			// Anonymous viewers have no status; that is not a load failure.
			d.logger.Debug("no interaction status", "post", id, "err", err)
			return
		}
		f.status = st
	}()
	wg.Wait()
	return f
}

// Open loads the post id and its thread. The previous content stays in
// place if the load fails.
func (d *DetailScreen) Open(ctx context.Context, id string) error {
	d.mu.Lock()
	if d.detached {
		d.mu.Unlock()
		return nil
	}
	d.gen++
	gen := d.gen
	if id != d.postID {
		d.state = StateLoading
	} else {
		d.state = StateRefreshing
	}
	d.postID = id
	d.mu.Unlock()

	return d.load(ctx, gen, id)
}

// Refresh reloads the open post.
func (d *DetailScreen) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if d.detached || d.postID == "" {
		d.mu.Unlock()
		return nil
	}
	d.gen++
	gen, id := d.gen, d.postID
	d.state = StateRefreshing
	d.mu.Unlock()

	return d.load(ctx, gen, id)
}

func (d *DetailScreen) load(ctx context.Context, gen uint64, id string) error {
	epoch := d.toggles.Epoch()
	f := d.fetch(ctx, id)
	now := d.now()

	var err error
	switch {
	case f.postErr != nil:
		err = &domain.LoadError{Resource: "post " + id, Err: f.postErr}
	case f.thrErr != nil:
		err = &domain.LoadError{Resource: "thread " + id, Err: f.thrErr}
	}

	var (
		post    domain.FeedPost
		replies []domain.ReplyItem
	)
	if err == nil {
		post, err = MapToFeedPost(f.post, now)
	}
	if err == nil {
		var dropped int
		replies, dropped = MapReplies(f.thread, now)
		if dropped > 0 {
			d.logger.Warn("skipped malformed replies", "post", id, "count", dropped)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.detached || gen != d.gen {
		return nil
	}
	d.state = StateReady
	d.lastErr = err
	if err != nil {
		d.logger.Warn("detail load failed", "post", id, "err", err)
		return err
	}

	d.toggles.SeedAt(epoch, post.ID, f.status, f.post.LikeCount)
	for _, r := range replies {
		d.toggles.SeedAt(epoch, r.ID, nil, r.Likes)
	}
	if d.submitting && d.postID == post.ID {
		for _, r := range d.replies {
			if r.Pending {
				replies = append(replies, r)
			}
		}
	}
	d.post = &post
	d.replies = replies
	return nil
}

// Submit sends draft as a reply to the open post. The reply shows up at
// once as pending and is swapped for the server's copy on success. On
// failure it is removed again and the caller keeps the draft for a retry.
func (d *DetailScreen) Submit(ctx context.Context, draft string) (domain.ReplyItem, error) {
	content, err := validateContent(draft)
	if err != nil {
		return domain.ReplyItem{}, err
	}

	d.mu.Lock()
	if d.post == nil || d.detached {
		d.mu.Unlock()
		return domain.ReplyItem{}, &domain.SubmitError{Err: errors.New("no post open")}
	}
	if d.submitting {
		d.mu.Unlock()
		return domain.ReplyItem{}, ErrSubmitInFlight
	}
	d.submitting = true
	parentID := d.post.ID
	localID := "local-" + uuid.NewString()
	d.replies = append(d.replies, domain.ReplyItem{
		ID:       localID,
		ParentID: parentID,
		Author:   "我",
		Avatar:   defaultAvatar,
		Level:    1,
		Content:  content,
		Time:     FormatRelativeTime(d.now(), d.now()),
		Pending:  true,
	})
	d.mu.Unlock()

	raw, err := d.svc.CreatePost(ctx, content, parentID)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	if err == nil {
		var reply domain.ReplyItem
		reply, err = MapToReplyItem(raw, d.now())
		if err == nil {
			d.placeReplyLocked(parentID, localID, reply)
			return reply, nil
		}
	}

	d.removeReplyLocked(localID)
	d.logger.Warn("reply failed", "post", parentID, "err", err)
	return domain.ReplyItem{}, &domain.SubmitError{ParentID: parentID, Err: err}
}

// placeReplyLocked swaps the pending copy for the server's reply. A thread
// reloaded during the send may already hold the reply; the pending copy is
// then just dropped.
func (d *DetailScreen) placeReplyLocked(parentID, localID string, reply domain.ReplyItem) {
	if d.post == nil || d.post.ID != parentID {
		return
	}
	for _, r := range d.replies {
		if r.ID == reply.ID {
			d.removeReplyLocked(localID)
			return
		}
	}
	if !d.replaceReplyLocked(localID, reply) {
		d.replies = append(d.replies, reply)
	}
	d.post.Replies++
}

func (d *DetailScreen) replaceReplyLocked(localID string, reply domain.ReplyItem) bool {
	for i, r := range d.replies {
		if r.ID == localID {
			d.replies[i] = reply
			return true
		}
	}
	return false
}

func (d *DetailScreen) removeReplyLocked(localID string) {
	for i, r := range d.replies {
		if r.ID == localID {
			d.replies = append(d.replies[:i], d.replies[i+1:]...)
			return
		}
	}
}

// Toggle flips a flag on the open post or one of its replies.
func (d *DetailScreen) Toggle(ctx context.Context, postID string, kind domain.InteractionKind) (InteractionState, error) {
	out, err := d.toggles.Toggle(ctx, postID, kind)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err
		d.mu.Unlock()
	}
	return out.State, err
}

// Post returns the open post with interaction state applied.
func (d *DetailScreen) Post() (domain.FeedPost, bool) {
	d.mu.Lock()
	if d.post == nil {
		d.mu.Unlock()
		return domain.FeedPost{}, false
	}
	p := *d.post
	d.mu.Unlock()
	return d.toggles.Apply(p), true
}

// Replies returns the thread with like counts applied.
func (d *DetailScreen) Replies() []domain.ReplyItem {
	d.mu.Lock()
	out := append([]domain.ReplyItem(nil), d.replies...)
	d.mu.Unlock()
	for i := range out {
		if st, ok := d.toggles.State(out[i].ID); ok {
			out[i].Likes = st.Likes
		}
	}
	return out
}

// Close detaches the screen. Responses still in flight are dropped.
func (d *DetailScreen) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detached = true
	d.state = StateIdle
}

// State returns the screen's state.
func (d *DetailScreen) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// PostID returns the id of the post last requested by Open.
func (d *DetailScreen) PostID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.postID
}

// Submitting reports whether a reply is being sent.
func (d *DetailScreen) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// LastError returns the error of the most recent failed operation.
func (d *DetailScreen) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}
