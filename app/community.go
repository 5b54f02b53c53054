package app

import (
	"context"

	"github.com/CrestNiraj12/roadmud/domain"
)

// CommunityService talks to the community backend. Implementations must be
// safe for concurrent use.
type CommunityService interface {
	// FetchPosts returns one page of posts for the filter.
	FetchPosts(ctx context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error)

	// FetchPost returns a single post.
	FetchPost(ctx context.Context, id string) (domain.RawPost, error)

	// FetchThread returns the replies under a post, oldest first.
	FetchThread(ctx context.Context, id string) ([]domain.RawPost, error)

	// FetchInteraction returns the viewer's flags for a post. A nil status
	// with a nil error means the viewer has no status (e.g. anonymous).
	FetchInteraction(ctx context.Context, id string) (*domain.InteractionStatus, error)

	// ToggleInteraction flips a flag on the server and reports what happened.
	ToggleInteraction(ctx context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error)

	// CreatePost publishes a post, or a reply when parentID is set.
	CreatePost(ctx context.Context, content, parentID string) (domain.RawPost, error)
}
