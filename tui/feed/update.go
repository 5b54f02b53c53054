package feed

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		m.status = errorStatus(msg.err)
		if msg.op == opFilter || msg.op == opRefresh {
			m.cursor = 0
		}
		if msg.op == opFilter && msg.err != nil {
			m.filter = m.screen.Filter()
		}
		m.clampCursor()
		return m, nil

	case toggledMsg:
		m.status = errorStatus(msg.err)
		return m, nil

	case detailLoadedMsg:
		if msg.id != m.detail.PostID() {
			return m, nil
		}
		m.status = errorStatus(msg.err)
		m.clampReplyCursor()
		return m, nil

	case SubmitMsg:
		m.status = "发送中…"
		if msg.ParentID != "" {
			return m, submitReplyCmd(m.detail, msg.ParentID, msg.Content)
		}
		return m, submitPostCmd(m.screen, msg.Content)

	case SubmitResultMsg:
		switch {
		case msg.Err != nil:
			m.status = errorStatus(msg.Err)
		case msg.ParentID != "":
			m.status = "回复成功"
			m.replyCursor = len(m.detail.Replies())
		default:
			m.status = "发布成功"
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ToggleHints) {
			m.showHints = !m.showHints
			return m, nil
		}
		if m.mode == detailMode {
			return m.updateDetailKey(msg)
		}
		return m.updateListKey(msg)
	}

	return m, nil
}

func (m Model) updateListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		n := len(m.screen.Visible())
		if m.cursor < n-1 {
			m.cursor++
			return m, nil
		}
		// Past the last post: treat as reaching the end of the list.
		if m.screen.HasMore() {
			return m, loadMoreCmd(m.screen)
		}

	case key.Matches(msg, m.keys.LoadMore):
		return m, loadMoreCmd(m.screen)

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.screen)

	case key.Matches(msg, m.keys.NextFilter):
		return m.switchFilter(1)

	case key.Matches(msg, m.keys.PrevFilter):
		return m.switchFilter(-1)

	case key.Matches(msg, m.keys.Like):
		if p, ok := m.selected(); ok {
			return m, toggleCmd(m.screen, p.ID, domain.KindLike)
		}

	case key.Matches(msg, m.keys.Bookmark):
		if p, ok := m.selected(); ok {
			return m, toggleCmd(m.screen, p.ID, domain.KindBookmark)
		}

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			m.mode = detailMode
			m.replyCursor = 0
			m.status = ""
			return m, openDetailCmd(m.detail, p.ID)
		}

	case key.Matches(msg, m.keys.NewEditor):
		return m, emit(ComposeMsg{})

	case key.Matches(msg, m.keys.NewInline):
		return m, emit(ComposeMsg{Inline: true})
	}
	return m, nil
}

func (m Model) updateDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	replies := m.detail.Replies()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = listMode
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.replyCursor > 0 {
			m.replyCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.replyCursor < len(replies) {
			m.replyCursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshDetailCmd(m.detail)

	case key.Matches(msg, m.keys.Like):
		if id := m.detailSelectedID(replies); id != "" {
			return m, detailToggleCmd(m.detail, id, domain.KindLike)
		}

	case key.Matches(msg, m.keys.Bookmark):
		if post, ok := m.detail.Post(); ok && m.replyCursor == 0 {
			return m, detailToggleCmd(m.detail, post.ID, domain.KindBookmark)
		}

	case key.Matches(msg, m.keys.Reply), key.Matches(msg, m.keys.ReplyInline):
		post, ok := m.detail.Post()
		if !ok {
			return m, nil
		}
		if m.detail.Submitting() {
			m.status = "上一条回复还在发送"
			return m, nil
		}
		return m, emit(ComposeMsg{
			ParentID: post.ID,
			ReplyTo:  "@" + post.Author,
			Inline:   key.Matches(msg, m.keys.ReplyInline),
		})
	}
	return m, nil
}

// detailSelectedID returns the post or reply under the cursor. Replies that
// are still being sent have no server id yet and cannot be liked.
func (m Model) detailSelectedID(replies []domain.ReplyItem) string {
	if m.replyCursor == 0 {
		post, _ := m.detail.Post()
		return post.ID
	}
	if m.replyCursor > len(replies) {
		return ""
	}
	r := replies[m.replyCursor-1]
	if r.Pending {
		return ""
	}
	return r.ID
}

func (m Model) switchFilter(step int) (Model, tea.Cmd) {
	filters := domain.Filters
	cur := m.filter
	idx := 0
	for i, f := range filters {
		if f == cur {
			idx = i
			break
		}
	}
	next := filters[(idx+step+len(filters))%len(filters)]
	m.filter = next
	m.cursor = 0
	return m, tea.Batch(filterCmd(m.screen, next), emit(FilterChangedMsg{Filter: next}))
}

func (m *Model) clampCursor() {
	n := len(m.screen.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) clampReplyCursor() {
	if n := len(m.detail.Replies()); m.replyCursor > n {
		m.replyCursor = n
	}
}

// errorStatus renders an error for the status bar.
func errorStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthorized):
		return "请先登录"
	case errors.Is(err, domain.ErrEmptyContent):
		return "内容不能为空"
	case errors.Is(err, domain.ErrContentTooLong):
		return "内容太长"
	case errors.Is(err, feedsync.ErrSubmitInFlight):
		return "上一条回复还在发送"
	}
	var (
		lerr *domain.LoadError
		terr *domain.ToggleError
		serr *domain.SubmitError
	)
	switch {
	case errors.As(err, &lerr):
		return "加载失败: " + lerr.Err.Error()
	case errors.As(err, &terr):
		return "操作失败: " + terr.Err.Error()
	case errors.As(err, &serr):
		return "发送失败: " + serr.Err.Error()
	}
	return "出错了: " + err.Error()
}
