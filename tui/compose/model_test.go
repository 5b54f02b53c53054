package compose

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/infra/editor"
)

func TestInline_SubmitAndCancel(t *testing.T) {
	m := NewInline(Target{ParentID: "p1", ReplyTo: "@老王"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("前方有雾")})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	msg, ok := cmd().(DoneMsg)
	if !ok || msg.Content != "前方有雾" || msg.ParentID != "p1" {
		t.Fatalf("unexpected done message: %#v", msg)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msg = cmd().(DoneMsg)
	if msg.Content != "" || msg.ParentID != "p1" {
		t.Fatalf("esc must cancel: %#v", msg)
	}
}

func TestInline_PrefillsDraft(t *testing.T) {
	m := NewInline(Target{Draft: "没发出去的内容"})
	if m.Count() != 7 {
		t.Fatalf("unexpected count: %d", m.Count())
	}
	view := m.View()
	if !strings.Contains(view, "发新帖") || !strings.Contains(view, "7/2000") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestEditor_FinishedReadsContent(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "true")
	ed := editor.NewEnvEditor()
	m := NewEditor(ed, Target{Draft: "草稿"})
	if m.Init() == nil {
		t.Fatalf("expected exec command")
	}

	_, path, err := ed.Cmd("改好的内容", "")
	if err != nil {
		t.Fatalf("prepare temp file failed: %v", err)
	}
	_, cmd := m.Update(editorFinishedMsg{tmpPath: path})
	msg := cmd().(DoneMsg)
	if msg.Content != "改好的内容" || msg.Err != nil {
		t.Fatalf("unexpected done message: %#v", msg)
	}
}
