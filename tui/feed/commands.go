package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
)

const requestTimeout = 20 * time.Second

func mountCmd(s *feedsync.Screen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadedMsg{op: opMount, err: s.Mount(ctx)}
	}
}

func refreshCmd(s *feedsync.Screen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadedMsg{op: opRefresh, err: s.Refresh(ctx)}
	}
}

func filterCmd(s *feedsync.Screen, f domain.Filter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadedMsg{op: opFilter, err: s.ChangeFilter(ctx, f)}
	}
}

func loadMoreCmd(s *feedsync.Screen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadedMsg{op: opMore, err: s.ScrollReached(ctx)}
	}
}

func toggleCmd(s *feedsync.Screen, postID string, kind domain.InteractionKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := s.Toggle(ctx, postID, kind)
		return toggledMsg{postID: postID, kind: kind, err: err}
	}
}

func detailToggleCmd(d *feedsync.DetailScreen, postID string, kind domain.InteractionKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := d.Toggle(ctx, postID, kind)
		return toggledMsg{postID: postID, kind: kind, err: err}
	}
}

func openDetailCmd(d *feedsync.DetailScreen, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return detailLoadedMsg{id: id, err: d.Open(ctx, id)}
	}
}

func refreshDetailCmd(d *feedsync.DetailScreen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return detailLoadedMsg{id: d.PostID(), err: d.Refresh(ctx)}
	}
}

func submitPostCmd(s *feedsync.Screen, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := s.Submit(ctx, content)
		return SubmitResultMsg{Content: content, Err: err}
	}
}

func submitReplyCmd(d *feedsync.DetailScreen, parentID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := d.Submit(ctx, content)
		return SubmitResultMsg{ParentID: parentID, Content: content, Err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
