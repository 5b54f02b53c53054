package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/tui/common"
)

func (m Model) viewDetail() string {
	post, ok := m.detail.Post()
	if !ok {
		if m.status != "" {
			return common.ErrorStyle.Render(m.status) + "\n" + common.StatusBarStyle.Render(common.HelpLine(m.keys.Back, m.keys.Refresh))
		}
		return m.spinner.View() + " 加载中…\n"
	}

	inner := max(m.width-6, 20)
	var b strings.Builder

	head := common.AuthorStyle.Render(post.Avatar+" "+post.Author) + " " +
		common.LevelStyle.Render(fmt.Sprintf("Lv.%d", post.Level)) + " " +
		common.TagStyle(post.TagColor, post.TagBg).Render(post.Tag) + " " +
		common.TimestampStyle.Render(post.Time)
	body := []string{head}
	if post.Title != "" {
		body = append(body, common.TitleStyle.Render(post.Title))
	}
	body = append(body, lipgloss.NewStyle().Width(inner).Render(common.ContentStyle.Render(post.Content)))
	if post.Reward > 0 {
		body = append(body, common.RewardStyle.Render(fmt.Sprintf("悬赏 %d 金币", post.Reward)))
	}
	body = append(body, renderCounters(post.Likes, post.Replies, post.Liked, post.Bookmarked))

	style := common.UnselectedStyle
	if m.replyCursor == 0 {
		style = common.SelectedStyle
	}
	b.WriteString(style.Width(inner + 2).Render(strings.Join(body, "\n")))
	b.WriteString("\n\n")

	replies := m.detail.Replies()
	if len(replies) == 0 {
		b.WriteString(common.TimestampStyle.Render("还没有回复，按 c 抢沙发") + "\n")
	}
	for i, r := range replies {
		b.WriteString(renderReply(r, i+1 == m.replyCursor, inner))
		b.WriteString("\n")
	}

	var footer []string
	if m.status != "" {
		footer = append(footer, m.status)
	}
	k := m.keys
	footer = append(footer, common.HelpLine(k.Back, k.Like, k.Bookmark, k.Reply, k.ReplyInline, k.Refresh))
	b.WriteString(common.StatusBarStyle.Render(strings.Join(footer, "  ·  ")))
	return b.String()
}

func renderReply(r domain.ReplyItem, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = common.LikedStyle.Render("▌ ")
	}
	head := common.AuthorStyle.Render(r.Avatar+" "+r.Author) + " " +
		common.LevelStyle.Render(fmt.Sprintf("Lv.%d", r.Level)) + " " +
		common.TimestampStyle.Render(r.Time)
	if r.IsAccepted {
		head += " " + common.AcceptedStyle.Render("✔ 已采纳")
	}

	content := common.ContentStyle.Render(r.Content)
	if r.Pending {
		head += " " + common.PendingStyle.Render("发送中…")
		content = common.PendingStyle.Render(r.Content)
	} else {
		head += " " + common.TimestampStyle.Render(fmt.Sprintf("♡ %s", common.CompactCount(r.Likes)))
	}
	body := lipgloss.NewStyle().Width(width - 2).Render(content)
	return marker + head + "\n" + indent(body, "  ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
