package common

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent  = lipgloss.Color("#FF6600")
	colorAuthor  = lipgloss.Color("#7DC4E4")
	colorMuted   = lipgloss.Color("#6E738D")
	colorText    = lipgloss.Color("#CAD3F5")
	colorError   = lipgloss.Color("#ED8796")
	colorSuccess = lipgloss.Color("#A6DA95")
	colorBorder  = lipgloss.Color("#45475A")
	colorGold    = lipgloss.Color("#EED49F")
)

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(1, 2, 0, 1)

	// TabActiveStyle styles the selected filter tab.
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// TabInactiveStyle styles the other filter tabs.
	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAuthor)

	LevelStyle = lipgloss.NewStyle().
			Foreground(colorGold)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	ContentStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// RewardStyle marks bounty rewards on help posts.
	RewardStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	// LikedStyle marks active like/bookmark flags.
	LikedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// PendingStyle dims content that the server has not confirmed yet.
	PendingStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	AcceptedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	// SelectedStyle highlights the currently selected post.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// UnselectedStyle gives other posts a subtle border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0, 0, 0)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	// SpinnerStyle colors loading spinners.
	SpinnerStyle = lipgloss.NewStyle().Foreground(colorAccent)
)

// TagStyle renders a post tag as a colored badge.
func TagStyle(fg, bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}
