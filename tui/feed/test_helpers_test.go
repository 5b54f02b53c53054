package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
)

type stubCommunity struct {
	mu      sync.Mutex
	pages   int
	toggles []string
	fail    error
	replies []domain.RawPost
}

func (s *stubCommunity) FetchPosts(_ context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return domain.PostPage{}, s.fail
	}
	total := s.pages
	if total == 0 {
		total = 1
	}
	posts := make([]domain.RawPost, limit)
	for i := range posts {
		posts[i] = domain.RawPost{
			ID:         fmt.Sprintf("%s-%d-%d", filter, page, i),
			AuthorName: "车友",
			Title:      fmt.Sprintf("帖子 %d", i),
			Tag:        string(filter),
			LikeCount:  i,
		}
	}
	return domain.PostPage{Posts: posts, TotalPages: total}, nil
}

func (s *stubCommunity) FetchPost(_ context.Context, id string) (domain.RawPost, error) {
	return domain.RawPost{ID: id, AuthorName: "楼主", Content: "正文", ReplyCount: len(s.replies)}, nil
}

func (s *stubCommunity) FetchThread(context.Context, string) ([]domain.RawPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RawPost(nil), s.replies...), nil
}

func (s *stubCommunity) FetchInteraction(context.Context, string) (*domain.InteractionStatus, error) {
	return nil, nil
}

func (s *stubCommunity) ToggleInteraction(_ context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles = append(s.toggles, id+":"+string(kind))
	return domain.ActionCreated, nil
}

func (s *stubCommunity) CreatePost(_ context.Context, content, parentID string) (domain.RawPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return domain.RawPost{}, s.fail
	}
	return domain.RawPost{ID: "created", ParentID: parentID, Content: content, AuthorName: "我"}, nil
}

// drain runs cmd and every command it produces, feeding messages back
// into m. Spinner ticks are skipped so the loop ends. Messages for the root
// model are collected and returned.
func drain(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case ComposeMsg, FilterChangedMsg:
			out = append(out, msg)
			continue
		case spinner.TickMsg, nil:
			continue
		}
		if _, ok := msg.(SubmitResultMsg); ok {
			out = append(out, msg)
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m, out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
