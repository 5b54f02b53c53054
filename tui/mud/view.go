package mud

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/CrestNiraj12/roadmud/feedsync"
	gamemud "github.com/CrestNiraj12/roadmud/mud"
	"github.com/CrestNiraj12/roadmud/tui/common"
	"github.com/CrestNiraj12/roadmud/tui/feed"
)

// View renders the MUD screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("⚔ 路上江湖 · 江湖"))
	b.WriteString("\n")
	b.WriteString(m.preview.View(m.width))
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.active {
	case tabFeed:
		b.WriteString(m.viewFeed())
	case tabProfile:
		b.WriteString(m.viewProfile())
	case tabArena:
		b.WriteString(m.viewArena())
	case tabBounties:
		b.WriteString(m.viewBounties())
	case tabShop:
		b.WriteString(m.viewShop())
	case tabGuild:
		b.WriteString(m.viewGuild())
	case tabVoice:
		b.WriteString(m.viewVoice())
	}
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		style := common.TabInactiveStyle
		if t == m.active {
			style = common.TabActiveStyle
		}
		tabs = append(tabs, style.Render(tabLabels[t]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewFeed() string {
	posts := m.screen.Visible()
	switch {
	case len(posts) == 0 && m.screen.State() != feedsync.StateReady:
		return m.spinner.View() + " 加载中…"
	case len(posts) == 0:
		return common.TimestampStyle.Render("江湖里还没有动静")
	}
	start := max(m.cursor-2, 0)
	end := min(start+3, len(posts))
	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, feed.RenderPostCard(posts[i], i == m.cursor, m.width))
	}
	return strings.Join(cards, "\n")
}

// loading renders the shared placeholder for a panel without data.
func (m Model) loading(state gamemud.State, err error) string {
	if err != nil {
		return common.ErrorStyle.Render(errorStatus(err))
	}
	if state == gamemud.StateLoading || state == gamemud.StateIdle {
		return m.spinner.View() + " 加载中…"
	}
	return common.TimestampStyle.Render("暂无数据")
}

func (m Model) viewProfile() string {
	if m.nickname.Focused() {
		return "给你的角色起个名号:\n" + m.nickname.View()
	}
	if m.profile.Missing() {
		return common.TimestampStyle.Render("你还没有江湖角色，按 enter 创建")
	}
	p, ok := m.profile.Data()
	if !ok {
		return m.loading(m.profile.State(), m.profile.LastError())
	}
	lines := []string{
		common.AuthorStyle.Render(p.Nickname) + " " + common.LevelStyle.Render(fmt.Sprintf("Lv.%d", p.Level)),
		fmt.Sprintf("经验 %s  战力 %s", humanize.Comma(int64(p.Exp)), humanize.Comma(int64(p.Power))),
		common.RewardStyle.Render("铜钱 " + humanize.Comma(int64(p.Coins))),
	}
	if p.GuildID != "" {
		lines = append(lines, "帮会 "+p.GuildID)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewArena() string {
	st, ok := m.arena.Data()
	if !ok {
		return m.loading(m.arena.State(), m.arena.LastError())
	}
	var lines []string
	if n := st.Opponent; n != nil {
		lines = append(lines,
			"对手: "+common.AuthorStyle.Render(n.Name)+" "+common.LevelStyle.Render(fmt.Sprintf("Lv.%d", n.Level))+fmt.Sprintf(" 战力 %d", n.Power),
		)
		if n.Intro != "" {
			lines = append(lines, common.ContentStyle.Render(n.Intro))
		}
	} else {
		lines = append(lines, common.TimestampStyle.Render("暂无对手，按 g 寻找"))
	}
	if r := st.Last; r != nil {
		verdict := common.ErrorStyle.Render("惜败")
		if r.Won {
			verdict = common.SuccessStyle.Render("胜利")
		}
		lines = append(lines, "", "上一战: "+verdict)
		for _, l := range r.Log {
			lines = append(lines, "  "+common.Truncate(l, max(m.width-4, 10)))
		}
	}
	if m.arena.State() == gamemud.StateActing {
		lines = append(lines, m.spinner.View()+" 交手中…")
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewBounties() string {
	list, ok := m.bounties.Data()
	if !ok {
		return m.loading(m.bounties.State(), m.bounties.LastError())
	}
	if len(list) == 0 {
		return common.TimestampStyle.Render("暂无悬赏")
	}
	now := time.Now()
	lines := make([]string, 0, len(list))
	for i, bt := range list {
		line := fmt.Sprintf("%s %s", common.RewardStyle.Render(fmt.Sprintf("💰%d", bt.Reward)), bt.Title)
		if !bt.Deadline.IsZero() {
			line += " " + common.TimestampStyle.Render("截止 "+humanize.RelTime(bt.Deadline, now, "前", "后"))
		}
		if bt.Accepted {
			line += " " + common.AcceptedStyle.Render("已接取")
		}
		lines = append(lines, cursorMark(i == m.cursor)+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewShop() string {
	st, ok := m.shop.Data()
	if !ok {
		return m.loading(m.shop.State(), m.shop.LastError())
	}
	if len(st.Items) == 0 {
		return common.TimestampStyle.Render("商店还没进货")
	}
	lines := make([]string, 0, len(st.Items)+2)
	for i, it := range st.Items {
		lines = append(lines, cursorMark(i == m.cursor)+fmt.Sprintf("%s  %s  库存 %d",
			it.Name, common.RewardStyle.Render(humanize.Comma(int64(it.Price))+" 铜钱"), it.Stock))
	}
	if st.Last != nil {
		lines = append(lines, "", common.SuccessStyle.Render("余额 "+humanize.Comma(int64(st.Last.Coins))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewGuild() string {
	g, ok := m.guild.Data()
	if !ok {
		return m.loading(m.guild.State(), m.guild.LastError())
	}
	if g.ID == "" {
		return common.TimestampStyle.Render("暂无帮会")
	}
	line := common.AuthorStyle.Render(g.Name) + " " + common.LevelStyle.Render(fmt.Sprintf("Lv.%d", g.Level)) +
		fmt.Sprintf("  %d 人", g.Members)
	if g.Joined {
		return line + "\n" + common.AcceptedStyle.Render("已加入")
	}
	return line + "\n" + common.TimestampStyle.Render("按 enter 加入")
}

func (m Model) viewVoice() string {
	q, ok := m.voice.Data()
	if !ok {
		return m.loading(m.voice.State(), m.voice.LastError())
	}
	line := fmt.Sprintf("语音输入剩余 %d / %d", q.Remaining(), q.Limit)
	if !q.ResetAt.IsZero() {
		line += "\n" + common.TimestampStyle.Render(humanize.RelTime(q.ResetAt, time.Now(), "前", "后")+"重置")
	}
	return line
}

func cursorMark(selected bool) string {
	if selected {
		return "▸ "
	}
	return "  "
}

func (m Model) viewFooter() string {
	var parts []string
	if m.status != "" {
		parts = append(parts, m.status)
	}
	k, t := m.keys, m.tabKeys
	switch m.active {
	case tabFeed:
		parts = append(parts, common.HelpLine(t.Prev, t.Next, k.Up, k.Down, k.Like, k.Refresh, k.Community))
	case tabArena:
		parts = append(parts, common.HelpLine(t.Prev, t.Next, t.Reroll, t.Act, k.Community))
	default:
		parts = append(parts, common.HelpLine(t.Prev, t.Next, t.Act, k.Refresh, k.Community))
	}
	return common.StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}
