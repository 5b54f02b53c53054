package feedsync

import (
	"context"
	"errors"
	"testing"

	"github.com/CrestNiraj12/roadmud/domain"
)

func newTestLoader(svc *stubService, pageSize int) *Loader {
	return NewLoader(svc, pageSize, WithClock(frozenClock))
}

func TestLoader_InitialLoadAndPaging(t *testing.T) {
	svc := &stubService{posts: pagedSource(3)}
	l := newTestLoader(svc, 20)
	ctx := context.Background()

	res, err := l.Load(ctx, 1, domain.FilterAll, false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(res.Posts) != 20 || res.Page != 1 || !res.HasMore {
		t.Fatalf("unexpected first page: len=%d page=%d more=%v", len(res.Posts), res.Page, res.HasMore)
	}
	if len(res.Added) != 20 {
		t.Fatalf("expected 20 added, got %d", len(res.Added))
	}

	for page := 2; page <= 3; page++ {
		res, err = l.LoadMore(ctx)
		if err != nil {
			t.Fatalf("load more %d failed: %v", page, err)
		}
		if res.Skipped || res.Page != page || len(res.Posts) != 20*page {
			t.Fatalf("page %d: skipped=%v page=%d len=%d", page, res.Skipped, res.Page, len(res.Posts))
		}
	}
	if res.HasMore {
		t.Fatalf("last page must clear hasMore")
	}

	before := len(svc.Calls())
	res, err = l.LoadMore(ctx)
	if err != nil || !res.Skipped {
		t.Fatalf("load more past the end must be skipped: %+v %v", res.Skipped, err)
	}
	if len(svc.Calls()) != before {
		t.Fatalf("skipped load must not hit the backend")
	}
	if len(res.Posts) != 60 {
		t.Fatalf("skip must keep the list: %d", len(res.Posts))
	}

	for i, c := range svc.Calls() {
		if c.Limit != 20 || c.Page != i+1 || c.Filter != domain.FilterAll {
			t.Fatalf("unexpected call %d: %+v", i, c)
		}
	}
}

func TestLoader_FilterSwitchReplaces(t *testing.T) {
	svc := &stubService{posts: pagedSource(5)}
	l := newTestLoader(svc, 3)
	ctx := context.Background()

	if _, err := l.Load(ctx, 1, domain.FilterAll, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := l.LoadMore(ctx); err != nil {
		t.Fatalf("load more failed: %v", err)
	}

	// An append for another filter is still a replace of page 1.
	res, err := l.Load(ctx, 3, domain.FilterHelp, true)
	if err != nil {
		t.Fatalf("filter load failed: %v", err)
	}
	if res.Page != 1 || len(res.Posts) != 3 || res.Posts[0].ID != "help-1-0" {
		t.Fatalf("unexpected filter result: page=%d ids=%v", res.Page, ids(res.Posts))
	}
	if l.Filter() != domain.FilterHelp {
		t.Fatalf("filter not updated: %q", l.Filter())
	}
	last := svc.Calls()[len(svc.Calls())-1]
	if last.Page != 1 || last.Filter != domain.FilterHelp {
		t.Fatalf("unexpected request: %+v", last)
	}
}

func TestLoader_FailureKeepsList(t *testing.T) {
	boom := errors.New("boom")
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if page == 2 {
			return domain.PostPage{}, boom
		}
		return pagedSource(4)(ctx, page, limit, f)
	}
	l := newTestLoader(svc, 5)
	ctx := context.Background()

	if _, err := l.Load(ctx, 1, domain.FilterAll, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	res, err := l.LoadMore(ctx)
	var lerr *domain.LoadError
	if !errors.As(err, &lerr) || lerr.Page != 2 || lerr.Filter != domain.FilterAll {
		t.Fatalf("expected load error for page 2, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("load error must wrap the cause")
	}
	if len(res.Posts) != 5 || res.Page != 1 || !res.HasMore {
		t.Fatalf("list must be unchanged: len=%d page=%d more=%v", len(res.Posts), res.Page, res.HasMore)
	}
	if l.InFlight() {
		t.Fatalf("failed load must clear in-flight")
	}

	// Retrying the same page works once the backend recovers.
	svc.posts = pagedSource(4)
	res, err = l.LoadMore(ctx)
	if err != nil || res.Page != 2 || len(res.Posts) != 10 {
		t.Fatalf("retry failed: page=%d len=%d err=%v", res.Page, len(res.Posts), err)
	}
}

func TestLoader_InvalidPage(t *testing.T) {
	l := newTestLoader(&stubService{}, 5)
	if _, err := l.Load(context.Background(), 0, domain.FilterAll, false); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestLoader_SkipsAppendWhileInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if page == 2 {
			started <- struct{}{}
			<-release
		}
		return pagedSource(3)(ctx, page, limit, f)
	}
	l := newTestLoader(svc, 2)
	ctx := context.Background()
	if _, err := l.Load(ctx, 1, domain.FilterAll, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	done := make(chan LoadResult)
	go func() {
		res, _ := l.LoadMore(ctx)
		done <- res
	}()
	<-started

	if !l.InFlight() {
		t.Fatalf("expected load in flight")
	}
	res, err := l.LoadMore(ctx)
	if err != nil || !res.Skipped {
		t.Fatalf("second load more must be skipped: %+v %v", res, err)
	}
	close(release)

	first := <-done
	if first.Skipped || first.Page != 2 || len(first.Posts) != 4 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if n := len(svc.Calls()); n != 2 {
		t.Fatalf("expected 2 requests, got %d", n)
	}
}

func TestLoader_ReplaceSupersedesInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if f == domain.FilterHelp {
			started <- struct{}{}
			<-release
		}
		return pagedSource(2)(ctx, page, limit, f)
	}
	l := newTestLoader(svc, 2)
	ctx := context.Background()

	slow := make(chan LoadResult)
	go func() {
		res, _ := l.SetFilter(ctx, domain.FilterHelp)
		slow <- res
	}()
	<-started

	res, err := l.SetFilter(ctx, domain.FilterShare)
	if err != nil || res.Stale {
		t.Fatalf("newer load must apply: %+v %v", res, err)
	}
	close(release)

	late := <-slow
	if !late.Stale {
		t.Fatalf("superseded load must report stale")
	}
	if l.Filter() != domain.FilterShare || l.Posts()[0].ID != "share-1-0" {
		t.Fatalf("stale response overwrote list: %v", ids(l.Posts()))
	}
}

func TestLoader_CloseDropsResponses(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		started <- struct{}{}
		<-release
		return pagedSource(1)(ctx, page, limit, f)
	}
	l := newTestLoader(svc, 2)

	done := make(chan LoadResult)
	go func() {
		res, _ := l.Load(context.Background(), 1, domain.FilterAll, false)
		done <- res
	}()
	<-started
	l.Close()
	close(release)

	if res := <-done; !res.Stale {
		t.Fatalf("response after close must be stale")
	}
	if len(l.Posts()) != 0 {
		t.Fatalf("closed loader must not change")
	}
	if res, _ := l.Load(context.Background(), 1, domain.FilterAll, false); !res.Stale {
		t.Fatalf("load after close must be stale")
	}
}

func TestLoader_PrependAndDropped(t *testing.T) {
	svc := &stubService{posts: func(context.Context, int, int, domain.Filter) (domain.PostPage, error) {
		return domain.PostPage{Posts: []domain.RawPost{{ID: "a"}, {ID: ""}, {ID: "b"}}, TotalPages: 1}, nil
	}}
	l := newTestLoader(svc, 3)
	res, err := l.Load(context.Background(), 1, domain.FilterAll, false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if res.Dropped != 1 || len(res.Posts) != 2 {
		t.Fatalf("unexpected result: dropped=%d ids=%v", res.Dropped, ids(res.Posts))
	}

	l.Prepend(domain.FeedPost{ID: "top"})
	if got := ids(l.Posts()); len(got) != 3 || got[0] != "top" {
		t.Fatalf("unexpected list after prepend: %v", got)
	}
}

func TestHasMorePages(t *testing.T) {
	cases := []struct {
		page, total, returned, limit int
		want                         bool
	}{
		{1, 3, 20, 20, true},
		{3, 3, 20, 20, false},
		{1, 1, 5, 20, false},
		{2, 0, 20, 20, true},
		{2, 0, 7, 20, false},
		{1, 0, 0, 20, false},
	}
	for _, tc := range cases {
		if got := hasMorePages(tc.page, tc.total, tc.returned, tc.limit); got != tc.want {
			t.Fatalf("hasMorePages(%d,%d,%d,%d)=%v want %v", tc.page, tc.total, tc.returned, tc.limit, got, tc.want)
		}
	}
}
