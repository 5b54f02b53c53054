package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Back        key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding // enter, open post detail
	Like        key.Binding
	Bookmark    key.Binding
	NextFilter  key.Binding
	PrevFilter  key.Binding
	LoadMore    key.Binding // Also triggered by scrolling past the last post
	NewEditor   key.Binding // p, compose via $EDITOR
	NewInline   key.Binding // P, compose via inline textarea
	Reply       key.Binding // c, reply via $EDITOR
	ReplyInline key.Binding // C, reply inline
	MUD         key.Binding
	Community   key.Binding
	ToggleHints key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "退出"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "强制退出"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "返回"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "刷新"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "上"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "下"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "详情"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "点赞"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "收藏"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "下一分类"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "上一分类"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "加载更多"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "发帖 ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "发帖"),
		),
		Reply: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "回复 ($EDITOR)"),
		),
		ReplyInline: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "回复"),
		),
		MUD: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "江湖"),
		),
		Community: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "社区"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "帮助"),
		),
	}
}

// HelpLine renders the help text of bindings joined by separators.
func HelpLine(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if out != "" {
			out += " • "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
