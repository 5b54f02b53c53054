package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
	"github.com/CrestNiraj12/roadmud/tui/common"
)

// --- Messages ---

// ComposeMsg asks the root model to open the composer. ParentID is set for
// replies.
type ComposeMsg struct {
	ParentID string
	ReplyTo  string
	Inline   bool
	Draft    string
}

// SubmitMsg carries composed content back into the feed.
type SubmitMsg struct {
	Content  string
	ParentID string
}

// SubmitResultMsg reports the outcome of a SubmitMsg. On failure Content
// holds the draft so it can be offered again.
type SubmitResultMsg struct {
	ParentID string
	Content  string
	Err      error
}

// FilterChangedMsg is emitted when the viewer picks another tab.
type FilterChangedMsg struct {
	Filter domain.Filter
}

type loadOp int

const (
	opMount loadOp = iota
	opRefresh
	opFilter
	opMore
)

type loadedMsg struct {
	op  loadOp
	err error
}

type toggledMsg struct {
	postID string
	kind   domain.InteractionKind
	err    error
}

type detailLoadedMsg struct {
	id  string
	err error
}

// --- Model ---

type mode int

const (
	listMode mode = iota
	detailMode
)

// Model is the community feed with its post detail view.
type Model struct {
	screen *feedsync.Screen
	detail *feedsync.DetailScreen
	filter domain.Filter // selected tab, ahead of the screen while a load runs

	keys    common.KeyMap
	spinner spinner.Model

	mode        mode
	cursor      int
	replyCursor int // 0 selects the post itself
	width       int
	height      int
	status      string
	showHints   bool
}

// New creates the feed over svc. toggles is shared with the other screens
// of the session.
func New(svc app.CommunityService, toggles *feedsync.Interactions, opts ...feedsync.Option) Model {
	if toggles == nil {
		toggles = feedsync.NewInteractions(svc, opts...)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = common.SpinnerStyle

	screen := feedsync.NewScreen(feedsync.VariantFull, svc, toggles, opts...)
	return Model{
		screen:  screen,
		detail:  feedsync.NewDetailScreen(svc, toggles, opts...),
		filter:  screen.Filter(),
		keys:    common.DefaultKeyMap(),
		spinner: s,
		width:   80,
		height:  24,
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(mountCmd(m.screen), m.spinner.Tick)
}

// IsInDetailView reports whether a post detail is open.
func (m Model) IsInDetailView() bool {
	return m.mode == detailMode
}

// Filter returns the selected filter.
func (m Model) Filter() domain.Filter {
	return m.filter
}

// Close detaches the feed's screens.
func (m Model) Close() {
	m.screen.Unmount()
	m.detail.Close()
}

func (m Model) loading() bool {
	switch m.screen.State() {
	case feedsync.StateLoading, feedsync.StateRefreshing, feedsync.StateLoadingMore:
		return true
	}
	return false
}

func (m Model) selected() (domain.FeedPost, bool) {
	posts := m.screen.Visible()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return domain.FeedPost{}, false
	}
	return posts[m.cursor], true
}
