package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/roadmud/domain"
)

// communityService implements app.CommunityService over the backend API.
type communityService struct {
	client *Client
}

// NewCommunityService creates a CommunityService backed by the API.
func NewCommunityService(client *Client) *communityService {
	return &communityService{client: client}
}

// wirePost is the backend's post entity.
type wirePost struct {
	ID           flexString `json:"id"`
	ParentID     flexString `json:"parentId"`
	AuthorName   string     `json:"authorName"`
	AuthorLevel  int        `json:"authorLevel"`
	AuthorAvatar string     `json:"authorAvatar"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CreatedAt    string     `json:"createdAt"`
	LikeCount    int        `json:"likeCount"`
	ReplyCount   int        `json:"replyCount"`
	Tag          string     `json:"tag"`
	Reward       int        `json:"reward"`
	IsAccepted   bool       `json:"isAccepted"`
}

// flexString accepts ids sent either as JSON strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("invalid id %s: %w", s, err)
		}
		*f = flexString(str)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid id %s", s)
	}
	*f = flexString(s)
	return nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (w wirePost) toDomain() domain.RawPost {
	return domain.RawPost{
		ID:           strings.TrimSpace(string(w.ID)),
		ParentID:     strings.TrimSpace(string(w.ParentID)),
		AuthorName:   sanitizeForTerminal(w.AuthorName),
		AuthorLevel:  w.AuthorLevel,
		AuthorAvatar: sanitizeForTerminal(w.AuthorAvatar),
		Title:        sanitizeForTerminal(w.Title),
		Content:      sanitizeForTerminal(w.Content),
		CreatedAt:    parseTime(w.CreatedAt),
		LikeCount:    w.LikeCount,
		ReplyCount:   w.ReplyCount,
		Tag:          sanitizeForTerminal(w.Tag),
		Reward:       w.Reward,
		IsAccepted:   w.IsAccepted,
	}
}

func mapPosts(in []wirePost) []domain.RawPost {
	out := make([]domain.RawPost, 0, len(in))
	for _, w := range in {
		out = append(out, w.toDomain())
	}
	return out
}

func (s *communityService) FetchPosts(ctx context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if t := filter.QueryType(); t != "" {
		q.Set("type", t)
	}

	var resp struct {
		Posts      []wirePost `json:"posts"`
		Pagination struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := s.client.Get(ctx, "/api/community/posts?"+q.Encode(), &resp); err != nil {
		return domain.PostPage{}, fmt.Errorf("fetching posts: %w", err)
	}
	return domain.PostPage{
		Posts:      mapPosts(resp.Posts),
		TotalPages: resp.Pagination.TotalPages,
	}, nil
}

func (s *communityService) FetchPost(ctx context.Context, id string) (domain.RawPost, error) {
	var resp struct {
		Post wirePost `json:"post"`
	}
	if err := s.client.Get(ctx, "/api/community/posts/"+url.PathEscape(id), &resp); err != nil {
		return domain.RawPost{}, fmt.Errorf("fetching post: %w", err)
	}
	return resp.Post.toDomain(), nil
}

func (s *communityService) FetchThread(ctx context.Context, id string) ([]domain.RawPost, error) {
	var resp struct {
		Posts []wirePost `json:"posts"`
	}
	if err := s.client.Get(ctx, "/api/community/posts/"+url.PathEscape(id)+"/thread", &resp); err != nil {
		return nil, fmt.Errorf("fetching thread: %w", err)
	}
	return mapPosts(resp.Posts), nil
}

// FetchInteraction returns nil without error when the viewer has no status,
// which the backend signals with 401 or 404.
func (s *communityService) FetchInteraction(ctx context.Context, id string) (*domain.InteractionStatus, error) {
	var resp struct {
		Liked      bool `json:"liked"`
		Bookmarked bool `json:"bookmarked"`
	}
	err := s.client.Get(ctx, "/api/community/posts/"+url.PathEscape(id)+"/interaction", &resp)
	if IsStatus(err, http.StatusUnauthorized, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching interaction: %w", err)
	}
	return &domain.InteractionStatus{Liked: resp.Liked, Bookmarked: resp.Bookmarked}, nil
}

func (s *communityService) ToggleInteraction(ctx context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error) {
	req := struct {
		PostID string `json:"postId"`
		Kind   string `json:"kind"`
	}{PostID: id, Kind: string(kind)}
	var resp struct {
		Action string `json:"action"`
	}
	if err := s.client.Post(ctx, "/api/community/interactions", req, &resp); err != nil {
		return "", fmt.Errorf("toggling %s: %w", kind, err)
	}
	switch action := domain.InteractionAction(resp.Action); action {
	case domain.ActionCreated, domain.ActionRemoved:
		return action, nil
	default:
		return "", fmt.Errorf("toggling %s: unexpected action %q", kind, resp.Action)
	}
}

func (s *communityService) CreatePost(ctx context.Context, content, parentID string) (domain.RawPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.RawPost{}, domain.ErrEmptyContent
	}
	req := struct {
		Content  string `json:"content"`
		ParentID string `json:"parentId,omitempty"`
	}{Content: content, ParentID: parentID}

	var resp struct {
		Post wirePost `json:"post"`
	}
	if err := s.client.Post(ctx, "/api/community/posts", req, &resp); err != nil {
		if parentID != "" {
			return domain.RawPost{}, fmt.Errorf("replying to post: %w", err)
		}
		return domain.RawPost{}, fmt.Errorf("creating post: %w", err)
	}
	return resp.Post.toDomain(), nil
}

var controlRe = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f]`)

// sanitizeForTerminal removes escape sequences and control characters so
// server text cannot drive the terminal. Newlines and tabs are kept.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return controlRe.ReplaceAllString(s, "")
}
