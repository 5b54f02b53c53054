package compose

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("🚗 路上江湖"))
		if m.target.ParentID != "" {
			b.WriteString("  回复 " + m.target.ReplyTo + "\n\n")
		} else {
			b.WriteString("  发新帖\n\n")
		}
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n")

		count := m.Count()
		counter := fmt.Sprintf("%d/%d", count, domain.MaxContentLength)
		if count > domain.MaxContentLength {
			counter = common.ErrorStyle.Render(counter)
		}
		b.WriteString(common.StatusBarStyle.Render("  ctrl+d: 发送 • esc: 取消 • " + counter))
		return b.String()
	}
	return ""
}
