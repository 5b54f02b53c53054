package mud

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	gamemud "github.com/CrestNiraj12/roadmud/mud"
)

// Update handles messages for the MUD screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case feedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
		}
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
		}
		return m, nil

	case panelMsg:
		switch {
		case msg.err != nil && msg.tab == tabProfile && errors.Is(msg.err, domain.ErrNoProfile):
			m.status = "还没有角色，按 enter 创建"
		case msg.err != nil:
			m.status = errorStatus(msg.err)
		case msg.status != "":
			m.status = msg.status
		}
		return m, nil

	case tea.KeyMsg:
		if m.nickname.Focused() {
			return m.updateNickname(msg)
		}
		return m.updateKey(msg)
	}

	m.preview = m.preview.Update(msg)
	if m.nickname.Focused() {
		var cmd tea.Cmd
		m.nickname, cmd = m.nickname.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateNickname(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.nickname.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.nickname.Value()
		m.nickname.Blur()
		m.nickname.Reset()
		p := m.profile
		return m, actCmd(tabProfile, "角色已创建", func(ctx context.Context) error {
			return p.Create(ctx, name)
		})
	}
	var cmd tea.Cmd
	m.nickname, cmd = m.nickname.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.tabKeys.Prev):
		return m.switchTab((m.active + tabCount - 1) % tabCount)
	case key.Matches(msg, m.tabKeys.Next):
		return m.switchTab((m.active + 1) % tabCount)
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.reload(m.active)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		return m.moveDown()
	}

	switch m.active {
	case tabFeed:
		if key.Matches(msg, m.keys.Like) {
			if p, ok := m.selectedPost(); ok {
				s := m.screen
				return m, func() tea.Msg {
					ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
					defer cancel()
					_, err := s.Toggle(ctx, p.ID, domain.KindLike)
					return toggledMsg{err: err}
				}
			}
		}
	case tabProfile:
		if key.Matches(msg, m.tabKeys.Act) && m.profile.Missing() {
			m.status = ""
			return m, m.nickname.Focus()
		}
	case tabArena:
		if key.Matches(msg, m.tabKeys.Reroll) {
			return m, loadCmd(tabArena, m.arena.Load)
		}
		if key.Matches(msg, m.tabKeys.Act) {
			return m, m.fightCmd()
		}
	case tabBounties:
		if key.Matches(msg, m.tabKeys.Act) {
			list, _ := m.bounties.Data()
			if m.cursor < len(list) && !list[m.cursor].Accepted {
				b, id := m.bounties, list[m.cursor].ID
				return m, actCmd(tabBounties, "已接取悬赏", func(ctx context.Context) error {
					return b.Accept(ctx, id)
				})
			}
		}
	case tabShop:
		if key.Matches(msg, m.tabKeys.Act) {
			st, _ := m.shop.Data()
			if m.cursor < len(st.Items) {
				return m, m.buyCmd(st.Items[m.cursor])
			}
		}
	case tabGuild:
		if key.Matches(msg, m.tabKeys.Act) {
			g, ok := m.guild.Data()
			if ok && !g.Joined && g.ID != "" {
				panel, id := m.guild, g.ID
				return m, actCmd(tabGuild, "已加入帮会", func(ctx context.Context) error {
					return panel.Join(ctx, id)
				})
			}
		}
	case tabVoice:
		if key.Matches(msg, m.tabKeys.Act) {
			return m, actCmd(tabVoice, "已使用一次语音", m.voice.Consume)
		}
	}
	return m, nil
}

func (m Model) switchTab(t tab) (Model, tea.Cmd) {
	m.active = t
	m.cursor = 0
	m.status = ""
	return m, m.loadTab(t)
}

func (m Model) moveDown() (Model, tea.Cmd) {
	n := m.rows()
	if m.cursor < n-1 {
		m.cursor++
		return m, nil
	}
	if m.active == tabFeed && m.screen.HasMore() {
		return m, feedCmd(m.screen.ScrollReached)
	}
	return m, nil
}

// rows is the number of selectable rows on the active tab.
func (m Model) rows() int {
	switch m.active {
	case tabFeed:
		return len(m.screen.Visible())
	case tabBounties:
		list, _ := m.bounties.Data()
		return len(list)
	case tabShop:
		st, _ := m.shop.Data()
		return len(st.Items)
	}
	return 0
}

func (m Model) selectedPost() (domain.FeedPost, bool) {
	posts := m.screen.Visible()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return domain.FeedPost{}, false
	}
	return posts[m.cursor], true
}

func (m Model) fightCmd() tea.Cmd {
	arena, profile := m.arena, m.profile
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := arena.Fight(ctx)
		if err != nil {
			return panelMsg{tab: tabArena, err: err}
		}
		profile.Set(res.Profile)
		verdict := "惜败"
		if res.Won {
			verdict = "胜利"
		}
		return panelMsg{tab: tabArena, status: fmt.Sprintf("%s！经验 %+d 铜钱 %+d", verdict, res.ExpDelta, res.CoinsDelta)}
	}
}

func (m Model) buyCmd(item domain.ShopItem) tea.Cmd {
	shop, profile := m.shop, m.profile
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		receipt, err := shop.Buy(ctx, item.ID)
		if err != nil {
			return panelMsg{tab: tabShop, err: err}
		}
		if receipt.Profile.ID != "" {
			profile.Set(receipt.Profile)
		}
		return panelMsg{tab: tabShop, status: fmt.Sprintf("购买了 %s，余额 %d", item.Name, receipt.Coins)}
	}
}

func errorStatus(err error) string {
	var (
		loadErr   *domain.LoadError
		toggleErr *domain.ToggleError
	)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "请先登录"
	case errors.Is(err, domain.ErrNoProfile):
		return "还没有角色"
	case errors.Is(err, gamemud.ErrEmptyNickname):
		return "名号不能为空"
	case errors.Is(err, gamemud.ErrNoOpponent):
		return "先按 g 找个对手"
	case errors.Is(err, gamemud.ErrBusy):
		return "稍等，上一个操作还没完成"
	case errors.Is(err, feedsync.ErrUnknownKind):
		return "不支持的操作"
	case errors.As(err, &loadErr):
		return "加载失败: " + loadErr.Err.Error()
	case errors.As(err, &toggleErr):
		return "操作失败: " + toggleErr.Err.Error()
	}
	return "出错了: " + err.Error()
}
