package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/tui/common"
)

var filterLabels = map[domain.Filter]string{
	domain.FilterAll:     "全部",
	domain.FilterHelp:    "求助",
	domain.FilterShare:   "分享",
	domain.FilterDiscuss: "讨论",
	domain.FilterRoad:    "路况",
	domain.FilterMUD:     "江湖",
}

// FilterLabel returns the tab label for f.
func FilterLabel(f domain.Filter) string {
	if l, ok := filterLabels[f]; ok {
		return l
	}
	return string(f)
}

// View renders the feed.
func (m Model) View() string {
	if m.mode == detailMode {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("🚗 路上江湖"))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	posts := m.screen.Visible()
	switch {
	case len(posts) == 0 && m.loading():
		b.WriteString(m.spinner.View() + " 加载中…\n")
	case len(posts) == 0:
		b.WriteString(common.TimestampStyle.Render("这里还没有帖子") + "\n")
	default:
		start, end := m.window(len(posts))
		for i := start; i < end; i++ {
			b.WriteString(RenderPostCard(posts[i], i == m.cursor, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewTabs() string {
	cur := m.filter
	tabs := make([]string, 0, len(domain.Filters))
	for _, f := range domain.Filters {
		style := common.TabInactiveStyle
		if f == cur {
			style = common.TabActiveStyle
		}
		tabs = append(tabs, style.Render(FilterLabel(f)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// window returns the slice of posts that fits the terminal around the cursor.
func (m Model) window(n int) (int, int) {
	perScreen := max((m.height-8)/5, 1)
	start := 0
	if m.cursor >= perScreen {
		start = m.cursor - perScreen + 1
	}
	return start, min(start+perScreen, n)
}

func (m Model) viewFooter() string {
	var parts []string
	switch {
	case m.loading() && len(m.screen.Visible()) > 0:
		parts = append(parts, m.spinner.View()+" 加载中")
	case m.screen.HasMore():
		parts = append(parts, "↓ 继续浏览加载更多")
	case len(m.screen.Visible()) > 0:
		parts = append(parts, "已经到底了")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.showHints {
		k := m.keys
		parts = append(parts, common.HelpLine(k.Up, k.Down, k.Open, k.Like, k.Bookmark, k.NextFilter, k.Refresh, k.NewEditor, k.NewInline, k.MUD, k.Quit))
	} else {
		parts = append(parts, common.HelpLine(m.keys.ToggleHints))
	}
	return common.StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

// RenderPostCard renders one post as a bordered card.
func RenderPostCard(p domain.FeedPost, selected bool, width int) string {
	inner := max(width-6, 20)

	header := common.AuthorStyle.Render(p.Avatar+" "+p.Author) + " " +
		common.LevelStyle.Render(fmt.Sprintf("Lv.%d", p.Level)) + " " +
		common.TagStyle(p.TagColor, p.TagBg).Render(p.Tag) + " " +
		common.TimestampStyle.Render(p.Time)
	if p.Reward > 0 {
		header += " " + common.RewardStyle.Render(fmt.Sprintf("💰%d", p.Reward))
	}

	lines := []string{header}
	if p.Title != "" {
		lines = append(lines, common.TitleStyle.Render(common.Truncate(p.Title, inner)))
	}
	if body := common.FirstLine(p.Content); body != "" {
		lines = append(lines, common.ContentStyle.Render(common.Truncate(body, inner)))
	}
	lines = append(lines, renderCounters(p.Likes, p.Replies, p.Liked, p.Bookmarked))

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func renderCounters(likes, replies int, liked, bookmarked bool) string {
	like := fmt.Sprintf("♡ %s", common.CompactCount(likes))
	if liked {
		like = common.LikedStyle.Render(fmt.Sprintf("♥ %s", common.CompactCount(likes)))
	}
	mark := "☆"
	if bookmarked {
		mark = common.LikedStyle.Render("★")
	}
	return common.TimestampStyle.Render(fmt.Sprintf("💬 %s  ", common.CompactCount(replies))) + like + "  " + mark
}
