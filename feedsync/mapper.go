package feedsync

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"

	"github.com/CrestNiraj12/roadmud/domain"
)

const (
	anonymousAuthor = "匿名"
	defaultAvatar   = "🚗"
	unknownTime     = "未知"
	relativeWindow  = 30 * 24 * time.Hour
)

var relativeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "刚刚", DivBy: 1},
	{D: time.Hour, Format: "%d分钟%s", DivBy: time.Minute},
	{D: 24 * time.Hour, Format: "%d小时%s", DivBy: time.Hour},
	{D: relativeWindow, Format: "%d天%s", DivBy: 24 * time.Hour},
}

type tagStyle struct {
	label string
	fg    string
	bg    string
}

var (
	tagStyles = map[string]tagStyle{
		"help":    {label: "求助", fg: "#ED8796", bg: "#3B2A30"},
		"share":   {label: "分享", fg: "#A6DA95", bg: "#2A3B2E"},
		"discuss": {label: "讨论", fg: "#8AADF4", bg: "#2A3040"},
		"news":    {label: "资讯", fg: "#EED49F", bg: "#3B372A"},
		"road":    {label: "路况", fg: "#F5A97F", bg: "#3B302A"},
		"mud":     {label: "江湖", fg: "#C6A0F6", bg: "#352A40"},
	}
	defaultTag = tagStyle{label: "综合", fg: "#CAD3F5", bg: "#363A4F"}
	customTag  = tagStyle{fg: "#B8C0E0", bg: "#363A4F"}
)

// FormatRelativeTime renders createdAt relative to now. Timestamps in the
// future (server clock ahead of ours) read as "刚刚".
func FormatRelativeTime(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return unknownTime
	}
	if createdAt.After(now) {
		createdAt = now
	}
	if now.Sub(createdAt) >= relativeWindow {
		local := createdAt.In(now.Location())
		if local.Year() == now.Year() {
			return local.Format("01-02")
		}
		return local.Format("2006-01-02")
	}
	return humanize.CustomRelTime(createdAt, now, "前", "后", relativeMagnitudes)
}

// resolveTag maps a server tag to its label and colors. Keys are compared
// after NFKC folding so full-width input matches.
func resolveTag(raw string) tagStyle {
	key := strings.ToLower(strings.TrimSpace(norm.NFKC.String(raw)))
	if key == "" {
		return defaultTag
	}
	if st, ok := tagStyles[key]; ok {
		return st
	}
	st := customTag
	st.label = strings.TrimSpace(raw)
	return st
}

func authorOrAnonymous(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return anonymousAuthor
	}
	return name
}

func avatarOrDefault(avatar string) string {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return defaultAvatar
	}
	return avatar
}

func nonNegative(n int) int {
	return max(n, 0)
}

// MapToFeedPost projects a server post into its list view model.
func MapToFeedPost(raw domain.RawPost, now time.Time) (domain.FeedPost, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return domain.FeedPost{}, &domain.MappingError{Record: "post", Err: domain.ErrMissingID}
	}
	tag := resolveTag(raw.Tag)
	return domain.FeedPost{
		ID:       raw.ID,
		Author:   authorOrAnonymous(raw.AuthorName),
		Level:    max(raw.AuthorLevel, 1),
		Avatar:   avatarOrDefault(raw.AuthorAvatar),
		Title:    strings.TrimSpace(raw.Title),
		Content:  raw.Content,
		Time:     FormatRelativeTime(raw.CreatedAt, now),
		Tag:      tag.label,
		TagColor: tag.fg,
		TagBg:    tag.bg,
		Likes:    nonNegative(raw.LikeCount),
		Replies:  nonNegative(raw.ReplyCount),
		Reward:   nonNegative(raw.Reward),
	}, nil
}

// MapToReplyItem projects a server post into a thread reply.
func MapToReplyItem(raw domain.RawPost, now time.Time) (domain.ReplyItem, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return domain.ReplyItem{}, &domain.MappingError{Record: "reply", Err: domain.ErrMissingID}
	}
	return domain.ReplyItem{
		ID:         raw.ID,
		ParentID:   raw.ParentID,
		Author:     authorOrAnonymous(raw.AuthorName),
		Level:      max(raw.AuthorLevel, 1),
		Avatar:     avatarOrDefault(raw.AuthorAvatar),
		Content:    raw.Content,
		Time:       FormatRelativeTime(raw.CreatedAt, now),
		Likes:      nonNegative(raw.LikeCount),
		IsAccepted: raw.IsAccepted,
	}, nil
}

// MapPosts maps a page, skipping records that fail to map.
func MapPosts(raws []domain.RawPost, now time.Time) ([]domain.FeedPost, int) {
	out := make([]domain.FeedPost, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		p, err := MapToFeedPost(r, now)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, p)
	}
	return out, dropped
}

// MapReplies maps a thread, skipping records that fail to map.
func MapReplies(raws []domain.RawPost, now time.Time) ([]domain.ReplyItem, int) {
	out := make([]domain.ReplyItem, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		item, err := MapToReplyItem(r, now)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, item)
	}
	return out, dropped
}
