package compose

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Content  string // Empty if cancelled
	ParentID string // Set when replying
	Err      error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Target describes what is being written: a new post, or a reply to
// ParentID whose author is ReplyTo.
type Target struct {
	ParentID string
	ReplyTo  string
	Draft    string // Prefilled text, e.g. after a failed send
}

// Model holds the state for the compose view.
type Model struct {
	mode     mode
	editor   *editor.EnvEditor
	target   Target
	status   string
	textarea textarea.Model // Only used in inline mode
}

// NewEditor creates a compose model that opens $EDITOR via tea.ExecProcess.
func NewEditor(ed *editor.EnvEditor, target Target) Model {
	return Model{
		mode:   editorMode,
		editor: ed,
		target: target,
		status: "正在打开编辑器…",
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(target Target) Model {
	ta := textarea.New()
	if target.ParentID != "" {
		ta.Placeholder = "写下你的回复…"
	} else {
		ta.Placeholder = "路上遇到了什么？"
	}
	ta.CharLimit = domain.MaxContentLength
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.SetValue(target.Draft)
	ta.Focus()

	return Model{
		mode:     inlineMode,
		target:   target,
		textarea: ta,
	}
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.ExecProcess to
// suspend Bubble Tea's raw terminal mode while the editor runs.
func (m Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.target.Draft, m.target.ReplyTo)
	if err != nil {
		return done(DoneMsg{ParentID: m.target.ParentID, Err: fmt.Errorf("preparing editor: %w", err)})
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{ParentID: m.target.ParentID, Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{ParentID: m.target.ParentID, Err: err})
		}
		return m, m.finish(content)

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{ParentID: m.target.ParentID})
		case "ctrl+d":
			return m, m.finish(m.textarea.Value())
		}
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// finish reports the content. Blank content reads as a cancel upstream.
func (m Model) finish(content string) tea.Cmd {
	return done(DoneMsg{Content: content, ParentID: m.target.ParentID})
}

// Count returns the number of characters typed inline.
func (m Model) Count() int {
	return utf8.RuneCountInString(m.textarea.Value())
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
