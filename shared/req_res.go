package shared

import "time"

type ImageUpload struct {
	Name           string `json:"name"`
	Data           []byte `json:"data"`
	AltText        string `json:"altText,omitempty"`
	DisplayPercent int    `json:"displayPercent"`
}

type CreatePostRequest struct {
	AuthorId        string        `json:"authorId"`
	Body            string        `json:"body"`
	Kind            PostKind      `json:"kind"`
	Relationship    string        `json:"relationship,omitempty"`
	Platform        string        `json:"platform,omitempty"`
	Feelings        []string      `json:"feelings,omitempty"`
	Images          []ImageUpload `json:"images,omitempty"`
	CoverImageIndex int           `json:"coverImageIndex"`
}

type CreateCommentRequest struct {
	PostId   string  `json:"postId"`
	AuthorId string  `json:"authorId"`
	Body     string  `json:"body"`
	ParentId *string `json:"parentId,omitempty"`
}

type UpdateCommentRequest struct {
	Body string `json:"body"`
}

type FeedParams struct {
	ViewerId     string   `json:"viewerId,omitempty"`
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
	Relationship string   `json:"relationship,omitempty"`
	Platform     string   `json:"platform,omitempty"`
	Feelings     []string `json:"feelings,omitempty"`

	// FallbackToPublic returns all public posts when a personalized feed
	// comes up empty. Off by default; the HTTP surface opts in.
	FallbackToPublic bool `json:"-"`
}

type FeedResult struct {
	Posts   []*Post `json:"posts"`
	HasMore bool    `json:"hasMore"`
}

type FollowStatus struct {
	UserId    string `json:"userId"`
	Following bool   `json:"following"`
}

type CleanupOptions struct {
	MaxImageAge time.Duration `json:"maxImageAge"`
	MaxPosts    int           `json:"maxPosts"`
}

const (
	DefaultMaxImageAge = 30 * 24 * time.Hour
	DefaultMaxPosts    = 100
)

func (o CleanupOptions) WithDefaults() CleanupOptions {
	if o.MaxImageAge <= 0 {
		o.MaxImageAge = DefaultMaxImageAge
	}
	if o.MaxPosts <= 0 {
		o.MaxPosts = DefaultMaxPosts
	}
	return o
}
