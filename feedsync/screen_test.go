package feedsync

import (
	"context"
	"errors"
	"testing"

	"github.com/CrestNiraj12/roadmud/domain"
)

func TestScreen_MountLoadsAndSeeds(t *testing.T) {
	svc := &stubService{posts: pagedSource(2)}
	s := NewScreen(VariantFull, svc, nil, WithClock(frozenClock))
	if s.State() != StateIdle {
		t.Fatalf("new screen must be idle")
	}

	if err := s.Mount(context.Background()); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if s.State() != StateReady || !s.Mounted() {
		t.Fatalf("unexpected state: %v mounted=%v", s.State(), s.Mounted())
	}
	visible := s.Visible()
	if len(visible) != 20 || !s.HasMore() {
		t.Fatalf("unexpected list: len=%d more=%v", len(visible), s.HasMore())
	}
	if visible[3].Likes != 3 {
		t.Fatalf("likes not seeded: %+v", visible[3])
	}
	if c := svc.Calls()[0]; c.Limit != 20 || c.Filter != domain.FilterAll {
		t.Fatalf("unexpected request: %+v", c)
	}
}

func TestScreen_CompactShowsTwoAndNeverPages(t *testing.T) {
	svc := &stubService{posts: pagedSource(5)}
	s := NewScreen(VariantCompact, svc, nil)
	if err := s.Mount(context.Background()); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if got := len(s.Visible()); got != 2 {
		t.Fatalf("compact must show 2 posts, got %d", got)
	}
	if c := svc.Calls()[0]; c.Limit != 3 {
		t.Fatalf("compact must request 3, got %d", c.Limit)
	}
	if s.HasMore() {
		t.Fatalf("compact never reports more")
	}
	if err := s.ScrollReached(context.Background()); err != nil {
		t.Fatalf("scroll failed: %v", err)
	}
	if len(svc.Calls()) != 1 {
		t.Fatalf("compact must not load more")
	}
}

func TestScreen_ScrollReachedPagesOnlyWhenReady(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if page == 2 {
			started <- struct{}{}
			<-release
		}
		return pagedSource(2)(ctx, page, limit, f)
	}
	s := NewScreen(VariantFull, svc, nil, WithPageSize(4))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	done := make(chan error)
	go func() { done <- s.ScrollReached(ctx) }()
	<-started
	if s.State() != StateLoadingMore {
		t.Fatalf("expected loading-more, got %v", s.State())
	}
	if err := s.ScrollReached(ctx); err != nil {
		t.Fatalf("second scroll failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("scroll failed: %v", err)
	}

	if s.State() != StateReady || len(s.Visible()) != 8 || s.HasMore() {
		t.Fatalf("unexpected final: state=%v len=%d more=%v", s.State(), len(s.Visible()), s.HasMore())
	}
	if n := len(svc.Calls()); n != 2 {
		t.Fatalf("expected 2 requests, got %d", n)
	}

	// No more pages: scrolling is a no-op.
	if err := s.ScrollReached(ctx); err != nil || len(svc.Calls()) != 2 {
		t.Fatalf("scroll past end must not request")
	}
}

func TestScreen_ChangeFilterKeepsOldListUntilLoaded(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if f == domain.FilterRoad {
			started <- struct{}{}
			<-release
		}
		return pagedSource(1)(ctx, page, limit, f)
	}
	s := NewScreen(VariantFull, svc, nil, WithPageSize(2))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	done := make(chan error)
	go func() { done <- s.ChangeFilter(ctx, domain.FilterRoad) }()
	<-started
	if s.State() != StateLoading || s.Filter() != domain.FilterRoad {
		t.Fatalf("unexpected state while switching: %v %q", s.State(), s.Filter())
	}
	if got := ids(s.Visible()); got[0] != "all-1-0" {
		t.Fatalf("old list must stay visible: %v", got)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("change filter failed: %v", err)
	}
	if got := ids(s.Visible()); got[0] != "road-1-0" {
		t.Fatalf("new list not applied: %v", got)
	}
	if s.Cursor().Page != 1 {
		t.Fatalf("filter change must reset to page 1")
	}

	// Reselecting the active filter does nothing.
	before := len(svc.Calls())
	if err := s.ChangeFilter(ctx, domain.FilterRoad); err != nil || len(svc.Calls()) != before {
		t.Fatalf("same filter must not reload")
	}
}

func TestScreen_FailedFilterChangeCanBeRetried(t *testing.T) {
	fail := true
	svc := &stubService{}
	svc.posts = func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		if f == domain.FilterHelp && fail {
			return domain.PostPage{}, errors.New("503")
		}
		return pagedSource(1)(ctx, page, limit, f)
	}
	s := NewScreen(VariantFull, svc, nil, WithPageSize(1))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	if err := s.ChangeFilter(ctx, domain.FilterHelp); err == nil {
		t.Fatalf("expected filter change to fail")
	}
	if s.Filter() != domain.FilterAll || ids(s.Visible())[0] != "all-1-0" {
		t.Fatalf("failed switch must leave the previous filter selected: %q %v", s.Filter(), ids(s.Visible()))
	}

	fail = false
	before := len(svc.Calls())
	if err := s.ChangeFilter(ctx, domain.FilterHelp); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(svc.Calls()) != before+1 {
		t.Fatalf("retrying the same filter must fetch again")
	}
	if s.Filter() != domain.FilterHelp || ids(s.Visible())[0] != "help-1-0" {
		t.Fatalf("retry not applied: %q %v", s.Filter(), ids(s.Visible()))
	}
}

func TestScreen_MUDVariantIgnoresFilters(t *testing.T) {
	svc := &stubService{posts: pagedSource(1)}
	s := NewScreen(VariantMUD, svc, nil, WithFilter(domain.FilterHelp))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if err := s.ChangeFilter(ctx, domain.FilterShare); err != nil {
		t.Fatalf("change filter failed: %v", err)
	}
	calls := svc.Calls()
	if len(calls) != 1 || calls[0].Filter != domain.FilterMUD {
		t.Fatalf("mud screen must only request the mud feed: %+v", calls)
	}
}

func TestScreen_LoadErrorSurfaces(t *testing.T) {
	svc := &stubService{posts: func(context.Context, int, int, domain.Filter) (domain.PostPage, error) {
		return domain.PostPage{}, domain.ErrUnauthorized
	}}
	s := NewScreen(VariantFull, svc, nil)
	err := s.Mount(context.Background())
	var lerr *domain.LoadError
	if !errors.As(err, &lerr) || !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if s.State() != StateReady || s.LastError() == nil {
		t.Fatalf("error must settle the screen and be recorded")
	}

	svc.posts = pagedSource(1)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if s.LastError() != nil {
		t.Fatalf("successful refresh must clear the error")
	}
}

func TestScreen_UnmountDropsInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	svc := &stubService{posts: func(ctx context.Context, page, limit int, f domain.Filter) (domain.PostPage, error) {
		started <- struct{}{}
		<-release
		return pagedSource(1)(ctx, page, limit, f)
	}}
	s := NewScreen(VariantFull, svc, nil)

	done := make(chan error)
	go func() { done <- s.Mount(context.Background()) }()
	<-started
	s.Unmount()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("dropped load must not error: %v", err)
	}
	if len(s.Visible()) != 0 || s.State() != StateIdle || s.Mounted() {
		t.Fatalf("unmounted screen must not change: state=%v len=%d", s.State(), len(s.Visible()))
	}
}

func TestScreen_ToggleSharedAcrossScreens(t *testing.T) {
	svc := &stubService{posts: pagedSource(1)}
	toggles := NewInteractions(svc)
	full := NewScreen(VariantFull, svc, toggles, WithPageSize(3))
	compact := NewScreen(VariantCompact, svc, toggles)
	ctx := context.Background()
	if err := full.Mount(ctx); err != nil {
		t.Fatalf("mount full failed: %v", err)
	}
	if err := compact.Mount(ctx); err != nil {
		t.Fatalf("mount compact failed: %v", err)
	}

	post, err := full.Toggle(ctx, "all-1-1", domain.KindLike)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !post.Liked || post.Likes != 2 {
		t.Fatalf("unexpected toggled post: %+v", post)
	}
	other, ok := compact.Post("all-1-1")
	if !ok || !other.Liked || other.Likes != 2 {
		t.Fatalf("other screen must see the toggle: %+v", other)
	}
}

func TestScreen_Submit(t *testing.T) {
	svc := &stubService{posts: pagedSource(1)}
	svc.create = func(_ context.Context, content, parentID string) (domain.RawPost, error) {
		return domain.RawPost{ID: "mine", Content: content, Tag: "road", CreatedAt: testNow}, nil
	}
	s := NewScreen(VariantFull, svc, nil, WithPageSize(2), WithClock(frozenClock))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	if _, err := s.Submit(ctx, "   "); !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}

	post, err := s.Submit(ctx, " 前方施工 ")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if post.Content != "前方施工" || post.Time != "刚刚" || post.Tag != "路况" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if got := ids(s.Visible()); got[0] != "mine" || len(got) != 3 {
		t.Fatalf("post must be prepended: %v", got)
	}

	svc.create = func(context.Context, string, string) (domain.RawPost, error) {
		return domain.RawPost{}, errors.New("down")
	}
	_, err = s.Submit(ctx, "again")
	var serr *domain.SubmitError
	if !errors.As(err, &serr) || serr.ParentID != "" {
		t.Fatalf("expected submit error, got %v", err)
	}
	if len(s.Visible()) != 3 {
		t.Fatalf("failed submit must not change the list")
	}
}

func TestScreen_SubmitOutsideFilterNotPrepended(t *testing.T) {
	svc := &stubService{posts: pagedSource(1)}
	svc.create = func(_ context.Context, content, _ string) (domain.RawPost, error) {
		return domain.RawPost{ID: "mine", Content: content, Tag: "share"}, nil
	}
	s := NewScreen(VariantFull, svc, nil, WithPageSize(2), WithFilter(domain.FilterHelp))
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if _, err := s.Submit(ctx, "hi"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got := ids(s.Visible()); got[0] == "mine" {
		t.Fatalf("post for another filter must not be prepended: %v", got)
	}
}
