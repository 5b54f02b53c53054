package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $VISUAL or $EDITOR
// (fallback: "vi"). The editor is not run here; callers hand the *exec.Cmd
// to tea.ExecProcess so Bubble Tea releases the terminal first.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const commentEnd = "-->"

func header(replyTo string) string {
	var b strings.Builder
	b.WriteString("<!--\nroadmud: 在下方编辑内容。\n\n")
	if replyTo != "" {
		fmt.Fprintf(&b, "回复 %s\n\n", replyTo)
	}
	b.WriteString("- 保存并退出即发送 (vi 中 :wq)。\n")
	b.WriteString("- 清空内容或不做修改则取消。\n")
	b.WriteString(commentEnd + "\n\n")
	return b.String()
}

// Cmd writes content under an instruction header to a temp file and returns
// the editor command for it. replyTo names the author being answered, or is
// empty for a new post.
func (e *EnvEditor) Cmd(content, replyTo string) (*exec.Cmd, string, error) {
	args := editorArgs()

	tmpFile, err := os.CreateTemp("", "roadmud-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(header(replyTo) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	args = append(args, tmpPath)
	return exec.Command(args[0], args[1:]...), tmpPath, nil
}

// editorArgs splits $VISUAL or $EDITOR on whitespace so values like
// "code --wait" work. Quoted paths are not supported.
func editorArgs() []string {
	raw := os.Getenv("VISUAL")
	if raw == "" {
		raw = os.Getenv("EDITOR")
	}
	if args := strings.Fields(raw); len(args) > 0 {
		return args
	}
	return []string{"vi"}
}

// ReadContent reads the temp file, strips the header, trims whitespace and
// removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, commentEnd); idx != -1 {
		content = content[idx+len(commentEnd):]
	}
	return strings.TrimSpace(content), nil
}
