package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	"github.com/CrestNiraj12/roadmud/infra/config"
	"github.com/CrestNiraj12/roadmud/infra/editor"
	"github.com/CrestNiraj12/roadmud/infra/logging"
	"github.com/CrestNiraj12/roadmud/tui/common"
	"github.com/CrestNiraj12/roadmud/tui/compose"
	"github.com/CrestNiraj12/roadmud/tui/feed"
	"github.com/CrestNiraj12/roadmud/tui/mud"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Community app.CommunityService
	MUD       app.MUDService
	Toggles   *feedsync.Interactions // Shared by every screen; nil creates one
	Editor    *editor.EnvEditor
	Logger    *log.Logger
	StatePath string        // Where the selected filter is remembered; empty disables it
	Filter    domain.Filter // Filter to open the feed with
	Options   []feedsync.Option
}

type activeView int

const (
	feedView activeView = iota
	composeView
	mudView
)

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps       Deps
	logger     *log.Logger
	active     activeView
	feed       feed.Model
	mud        mud.Model
	mudStarted bool
	compose    compose.Model
	target     compose.Target // What the open composer writes
	keys       common.KeyMap
	size       tea.WindowSizeMsg // Last known terminal size, for views started later
	status     string            // Transient status message
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	opts := append([]feedsync.Option{feedsync.WithLogger(logger)}, deps.Options...)
	if deps.Toggles == nil {
		deps.Toggles = feedsync.NewInteractions(deps.Community, opts...)
	}
	deps.Options = opts

	feedOpts := opts
	if deps.Filter != "" {
		feedOpts = append(append([]feedsync.Option(nil), opts...), feedsync.WithFilter(deps.Filter))
	}
	return App{
		deps:   deps,
		logger: logger,
		active: feedView,
		feed:   feed.New(deps.Community, deps.Toggles, feedOpts...),
		keys:   common.DefaultKeyMap(),
	}
}

// Init starts the community feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.updateKey(msg)

	case feed.ComposeMsg:
		return a.openCompose(compose.Target{
			ParentID: msg.ParentID,
			ReplyTo:  msg.ReplyTo,
			Draft:    msg.Draft,
		}, msg.Inline)

	case compose.DoneMsg:
		a.active = feedView
		if msg.Err != nil {
			a.status = "出错了: " + msg.Err.Error()
			return a, nil
		}
		if strings.TrimSpace(msg.Content) == "" {
			a.status = "已取消"
			return a, nil
		}
		a.status = ""
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(feed.SubmitMsg{Content: msg.Content, ParentID: msg.ParentID})
		return a, cmd

	case feed.SubmitResultMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		if msg.Err == nil || strings.TrimSpace(msg.Content) == "" {
			return a, cmd
		}
		// Offer the draft again so nothing typed is lost.
		t := a.target
		t.ParentID, t.Draft = msg.ParentID, msg.Content
		a.logger.Debug("reopening composer after failed send", "parent", msg.ParentID, "err", msg.Err)
		next, open := a.openCompose(t, true)
		next.status = "发送失败，内容已保留，可以重试"
		return next, tea.Batch(cmd, open)

	case feed.FilterChangedMsg:
		return a, a.saveFilter(msg.Filter)

	case tea.WindowSizeMsg:
		a.size = msg
	}

	return a.broadcast(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}

	switch a.active {
	case composeView:
		var cmd tea.Cmd
		a.compose, cmd = a.compose.Update(msg)
		return a, cmd

	case feedView:
		if !a.feed.IsInDetailView() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a.quit()
			case key.Matches(msg, a.keys.MUD):
				return a.openMUD()
			}
		}
		a.status = ""
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case mudView:
		if !a.mud.Editing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a.quit()
			case key.Matches(msg, a.keys.Community), key.Matches(msg, a.keys.Back):
				a.active = feedView
				return a, nil
			}
		}
		var cmd tea.Cmd
		a.mud, cmd = a.mud.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) openCompose(t compose.Target, inline bool) (App, tea.Cmd) {
	a.active = composeView
	a.status = ""
	a.target = t
	if inline || a.deps.Editor == nil {
		a.compose = compose.NewInline(t)
	} else {
		a.compose = compose.NewEditor(a.deps.Editor, t)
	}
	return a, a.compose.Init()
}

// openMUD switches to the MUD screen, starting it on first use.
func (a App) openMUD() (App, tea.Cmd) {
	a.active = mudView
	a.status = ""
	if a.mudStarted {
		return a, nil
	}
	a.mud = mud.New(a.deps.Community, a.deps.MUD, a.deps.Toggles, a.logger, a.deps.Options...)
	a.mudStarted = true
	if a.size.Width > 0 {
		a.mud, _ = a.mud.Update(a.size)
	}
	return a, a.mud.Init()
}

func (a App) quit() (App, tea.Cmd) {
	a.feed.Close()
	if a.mudStarted {
		a.mud.Close()
	}
	return a, tea.Quit
}

// broadcast hands msg to every live sub-model. Results of background
// commands may arrive after the user switched views, and each model
// ignores messages that are not its own.
func (a App) broadcast(msg tea.Msg) (App, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	cmds = append(cmds, cmd)
	if a.mudStarted {
		a.mud, cmd = a.mud.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.active == composeView {
		a.compose, cmd = a.compose.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) saveFilter(f domain.Filter) tea.Cmd {
	path, logger := a.deps.StatePath, a.logger
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := config.SaveUIState(path, config.UIState{Filter: string(f)}); err != nil {
			logger.Warn("saving ui state failed", "path", path, "err", err)
		}
		return nil
	}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	case mudView:
		s = a.mud.View()
	}

	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
