package domain

import "time"

// RawPost is a community post exactly as the backend returns it.
type RawPost struct {
	ID           string
	ParentID     string
	AuthorName   string
	AuthorLevel  int
	AuthorAvatar string
	Title        string
	Content      string
	CreatedAt    time.Time
	LikeCount    int
	ReplyCount   int
	Tag          string
	Reward       int
	IsAccepted   bool
}

// FeedPost is the display projection of a RawPost.
type FeedPost struct {
	ID       string
	Author   string
	Level    int
	Avatar   string
	Title    string
	Content  string
	Time     string // Relative to the mapping clock
	Tag      string
	TagColor string
	TagBg    string
	Likes    int
	Replies  int
	Reward   int

	// Filled from the interaction controller, never from the feed payload.
	Liked      bool
	Bookmarked bool
}

// ReplyItem is a post rendered inside a discussion thread.
type ReplyItem struct {
	ID         string
	ParentID   string
	Author     string
	Level      int
	Avatar     string
	Content    string
	Time       string
	Likes      int
	IsAccepted bool
	Pending    bool // Local optimistic reply awaiting the server
}

// InteractionKind selects which per-viewer flag a toggle flips.
type InteractionKind string

const (
	KindLike     InteractionKind = "like"
	KindBookmark InteractionKind = "bookmark"
)

// Valid reports whether k is a known kind.
func (k InteractionKind) Valid() bool {
	return k == KindLike || k == KindBookmark
}

// InteractionAction is the server's verdict on a toggle.
type InteractionAction string

const (
	ActionCreated InteractionAction = "created"
	ActionRemoved InteractionAction = "removed"
)

// InteractionStatus holds the viewer's flags for one post.
type InteractionStatus struct {
	Liked      bool
	Bookmarked bool
}

// Filter selects a server-side subset of posts.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterHelp    Filter = "help"
	FilterShare   Filter = "share"
	FilterDiscuss Filter = "discuss"
	FilterRoad    Filter = "road"
	FilterMUD     Filter = "mud"
)

// Filters lists the filters in tab order.
var Filters = []Filter{FilterAll, FilterHelp, FilterShare, FilterDiscuss, FilterRoad}

// QueryType returns the `type` query value; "all" sends none.
func (f Filter) QueryType() string {
	if f == "" || f == FilterAll {
		return ""
	}
	return string(f)
}

// PageCursor tracks pagination for one screen and filter.
type PageCursor struct {
	Page    int
	HasMore bool
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []RawPost
	TotalPages int
}
