package feedsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CrestNiraj12/roadmud/domain"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func frozenClock() time.Time { return testNow }

type fetchCall struct {
	Page   int
	Limit  int
	Filter domain.Filter
}

// stubService is a CommunityService whose behavior each test sets through
// its function fields. Unset fields return empty successes.
type stubService struct {
	mu          sync.Mutex
	calls       []fetchCall
	toggleCalls int
	created     []string

	posts       func(ctx context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error)
	post        func(ctx context.Context, id string) (domain.RawPost, error)
	thread      func(ctx context.Context, id string) ([]domain.RawPost, error)
	interaction func(ctx context.Context, id string) (*domain.InteractionStatus, error)
	toggle      func(ctx context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error)
	create      func(ctx context.Context, content, parentID string) (domain.RawPost, error)
}

func (s *stubService) FetchPosts(ctx context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error) {
	s.mu.Lock()
	s.calls = append(s.calls, fetchCall{Page: page, Limit: limit, Filter: filter})
	s.mu.Unlock()
	if s.posts == nil {
		return domain.PostPage{}, nil
	}
	return s.posts(ctx, page, limit, filter)
}

func (s *stubService) FetchPost(ctx context.Context, id string) (domain.RawPost, error) {
	if s.post == nil {
		return domain.RawPost{ID: id}, nil
	}
	return s.post(ctx, id)
}

func (s *stubService) FetchThread(ctx context.Context, id string) ([]domain.RawPost, error) {
	if s.thread == nil {
		return nil, nil
	}
	return s.thread(ctx, id)
}

func (s *stubService) FetchInteraction(ctx context.Context, id string) (*domain.InteractionStatus, error) {
	if s.interaction == nil {
		return nil, nil
	}
	return s.interaction(ctx, id)
}

func (s *stubService) ToggleInteraction(ctx context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error) {
	s.mu.Lock()
	s.toggleCalls++
	s.mu.Unlock()
	if s.toggle == nil {
		return domain.ActionCreated, nil
	}
	return s.toggle(ctx, id, kind)
}

func (s *stubService) CreatePost(ctx context.Context, content, parentID string) (domain.RawPost, error) {
	s.mu.Lock()
	s.created = append(s.created, parentID)
	s.mu.Unlock()
	if s.create == nil {
		return domain.RawPost{ID: "new", ParentID: parentID, Content: content, CreatedAt: testNow}, nil
	}
	return s.create(ctx, content, parentID)
}

func (s *stubService) Calls() []fetchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fetchCall(nil), s.calls...)
}

func (s *stubService) ToggleCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleCalls
}

// rawPage builds n posts whose ids encode filter and page.
func rawPage(filter domain.Filter, page, n int) []domain.RawPost {
	out := make([]domain.RawPost, n)
	for i := range out {
		out[i] = domain.RawPost{
			ID:         fmt.Sprintf("%s-%d-%d", filter, page, i),
			AuthorName: "user",
			Content:    "content",
			CreatedAt:  testNow.Add(-time.Duration(i+1) * time.Minute),
			LikeCount:  i,
			Tag:        string(filter),
		}
	}
	return out
}

// pagedSource serves totalPages full pages for every filter.
func pagedSource(totalPages int) func(context.Context, int, int, domain.Filter) (domain.PostPage, error) {
	return func(_ context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error) {
		if page > totalPages {
			return domain.PostPage{TotalPages: totalPages}, nil
		}
		return domain.PostPage{Posts: rawPage(filter, page, limit), TotalPages: totalPages}, nil
	}
}

func ids(posts []domain.FeedPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
