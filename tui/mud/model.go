// Package mud is the MUD side of the TUI: the MUD feed plus one tab per
// game panel.
package mud

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	gamemud "github.com/CrestNiraj12/roadmud/mud"
	"github.com/CrestNiraj12/roadmud/tui/common"
	"github.com/CrestNiraj12/roadmud/tui/feed"
)

const requestTimeout = 20 * time.Second

type tab int

const (
	tabFeed tab = iota
	tabProfile
	tabArena
	tabBounties
	tabShop
	tabGuild
	tabVoice
	tabCount
)

var tabLabels = [tabCount]string{"动态", "角色", "擂台", "悬赏", "商店", "帮会", "语音"}

// panelMsg reports a finished panel request.
type panelMsg struct {
	tab    tab
	status string
	err    error
}

type feedMsg struct {
	err error
}

type toggledMsg struct {
	err error
}

type tabKeys struct {
	Prev   key.Binding
	Next   key.Binding
	Act    key.Binding
	Reroll key.Binding
}

func defaultTabKeys() tabKeys {
	return tabKeys{
		Prev:   key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "上一页")),
		Next:   key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "下一页")),
		Act:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "执行")),
		Reroll: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "换个对手")),
	}
}

// Model is the MUD screen.
type Model struct {
	screen  *feedsync.Screen
	preview feed.Compact

	profile  *gamemud.Profile
	arena    *gamemud.Arena
	bounties *gamemud.Bounties
	shop     *gamemud.Shop
	guild    *gamemud.Guild
	voice    *gamemud.VoiceQuota

	keys     common.KeyMap
	tabKeys  tabKeys
	spinner  spinner.Model
	nickname textinput.Model

	active tab
	cursor int
	width  int
	status string
	loaded [tabCount]bool
}

// New creates the MUD screen. toggles is shared with the community feed.
func New(community app.CommunityService, game app.MUDService, toggles *feedsync.Interactions, logger *log.Logger, opts ...feedsync.Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = common.SpinnerStyle

	ti := textinput.New()
	ti.Placeholder = "江湖名号"
	ti.CharLimit = 16

	m := Model{
		screen:   feedsync.NewScreen(feedsync.VariantMUD, community, toggles, opts...),
		preview:  feed.NewCompact(community, toggles, domain.FilterRoad, opts...),
		profile:  gamemud.NewProfile(game, logger),
		arena:    gamemud.NewArena(game, logger),
		bounties: gamemud.NewBounties(game, logger),
		shop:     gamemud.NewShop(game, logger),
		guild:    gamemud.NewGuild(game, logger),
		voice:    gamemud.NewVoiceQuota(game, logger),
		keys:     common.DefaultKeyMap(),
		tabKeys:  defaultTabKeys(),
		spinner:  s,
		nickname: ti,
		width:    80,
	}
	m.loaded[tabFeed] = true
	m.loaded[tabProfile] = true
	return m
}

// Init loads the MUD feed, the preview and the profile.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		feedCmd(m.screen.Mount),
		m.preview.Init(),
		loadCmd(tabProfile, m.profile.Load),
		m.spinner.Tick,
	)
}

// Close detaches every screen and panel.
func (m Model) Close() {
	m.screen.Unmount()
	m.preview.Close()
	m.profile.Close()
	m.arena.Close()
	m.bounties.Close()
	m.shop.Close()
	m.guild.Close()
	m.voice.Close()
}

// Editing reports whether the nickname input has focus, so global keys
// should not fire.
func (m Model) Editing() bool {
	return m.nickname.Focused()
}

func feedCmd(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return feedMsg{err: fn(ctx)}
	}
}

func loadCmd(t tab, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return panelMsg{tab: t, err: fn(ctx)}
	}
}

func actCmd(t tab, ok string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return panelMsg{tab: t, err: err}
		}
		return panelMsg{tab: t, status: ok}
	}
}

// loadTab loads a panel the first time its tab is shown.
func (m *Model) loadTab(t tab) tea.Cmd {
	if m.loaded[t] {
		return nil
	}
	m.loaded[t] = true
	switch t {
	case tabProfile:
		return loadCmd(t, m.profile.Load)
	case tabArena:
		return loadCmd(t, m.arena.Load)
	case tabBounties:
		return loadCmd(t, m.bounties.Load)
	case tabShop:
		return loadCmd(t, m.shop.Load)
	case tabGuild:
		return loadCmd(t, m.guild.Load)
	case tabVoice:
		return loadCmd(t, m.voice.Load)
	}
	return nil
}

func (m Model) reload(t tab) tea.Cmd {
	switch t {
	case tabFeed:
		return feedCmd(m.screen.Refresh)
	case tabProfile:
		return loadCmd(t, m.profile.Load)
	case tabArena:
		return loadCmd(t, m.arena.Load)
	case tabBounties:
		return loadCmd(t, m.bounties.Load)
	case tabShop:
		return loadCmd(t, m.shop.Load)
	case tabGuild:
		return loadCmd(t, m.guild.Load)
	case tabVoice:
		return loadCmd(t, m.voice.Load)
	}
	return nil
}
