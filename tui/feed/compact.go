package feed

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	"github.com/CrestNiraj12/roadmud/tui/common"
)

type compactLoadedMsg struct {
	filter domain.Filter
	err    error
}

// Compact is a two-post preview of a community filter, embedded in other
// screens. It never pages.
type Compact struct {
	screen *feedsync.Screen
	filter domain.Filter
	err    error
}

// NewCompact creates a preview of filter.
func NewCompact(svc app.CommunityService, toggles *feedsync.Interactions, filter domain.Filter, opts ...feedsync.Option) Compact {
	opts = append(append([]feedsync.Option(nil), opts...), feedsync.WithFilter(filter))
	return Compact{
		screen: feedsync.NewScreen(feedsync.VariantCompact, svc, toggles, opts...),
		filter: filter,
	}
}

// Init loads the preview.
func (c Compact) Init() tea.Cmd {
	s, f := c.screen, c.filter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return compactLoadedMsg{filter: f, err: s.Mount(ctx)}
	}
}

// Update records load results addressed to this preview.
func (c Compact) Update(msg tea.Msg) Compact {
	if m, ok := msg.(compactLoadedMsg); ok && m.filter == c.filter {
		c.err = m.err
	}
	return c
}

// Close detaches the preview.
func (c Compact) Close() { c.screen.Unmount() }

// View renders the preview in one line per post.
func (c Compact) View(width int) string {
	title := common.TitleStyle.Render("社区速览 · " + FilterLabel(c.filter))
	posts := c.screen.Visible()
	switch {
	case c.err != nil:
		return title + "\n" + common.ErrorStyle.Render(errorStatus(c.err))
	case len(posts) == 0 && c.screen.State() != feedsync.StateReady:
		return title + "\n" + common.TimestampStyle.Render("加载中…")
	case len(posts) == 0:
		return title + "\n" + common.TimestampStyle.Render("暂无内容")
	}
	lines := []string{title}
	for _, p := range posts {
		text := p.Title
		if text == "" {
			text = common.FirstLine(p.Content)
		}
		prefix := fmt.Sprintf("%s %s: ", p.Tag, p.Author)
		lines = append(lines, common.Truncate(prefix+text, max(width-8, 10))+" "+common.TimestampStyle.Render("♡ "+common.CompactCount(p.Likes)))
	}
	return strings.Join(lines, "\n")
}
