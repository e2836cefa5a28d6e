package shared

import "time"

// Client-facing models for the storage API. The db package keeps its own row
// models with ToApi() converters so server-only columns never leak out.

type User struct {
	Id             string    `json:"id"`
	Handle         string    `json:"handle"`
	DisplayName    string    `json:"displayName"`
	Avatar         string    `json:"avatar,omitempty"`
	FollowersCount int       `json:"followersCount"`
	FollowingCount int       `json:"followingCount"`
	PostsCount     int       `json:"postsCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type PostKind string

const (
	PostKindPublicShare   PostKind = "public-share"
	PostKindProfilePost   PostKind = "profile-post"
	PostKindPrivateMemory PostKind = "private-memory"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// VisibilityForKind derives visibility from the post kind. Only private
// memories are private; everything else is public and feed rules decide
// who actually sees it.
func VisibilityForKind(kind PostKind) Visibility {
	if kind == PostKindPrivateMemory {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

type PostImage struct {
	Id                 string `json:"id"`
	Reference          string `json:"reference"`
	ThumbnailReference string `json:"thumbnailReference,omitempty"`
	AltText            string `json:"altText,omitempty"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	DisplayPercent     int    `json:"displayPercent"`
	Order              int    `json:"order"`

	// Resolved on read; never persisted.
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type Post struct {
	Id              string      `json:"id"`
	AuthorId        string      `json:"authorId"`
	Author          *User       `json:"author,omitempty"`
	Body            string      `json:"body"`
	Kind            PostKind    `json:"kind"`
	Visibility      Visibility  `json:"visibility"`
	Images          []PostImage `json:"images,omitempty"`
	CoverImageIndex int         `json:"coverImageIndex"`
	LikesCount      int         `json:"likesCount"`
	CommentsCount   int         `json:"commentsCount"`
	Relationship    string      `json:"relationship,omitempty"`
	Platform        string      `json:"platform,omitempty"`
	Feelings        []string    `json:"feelings,omitempty"`
	Edited          bool        `json:"edited"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type ImageMeta struct {
	OriginalName   string `json:"originalName"`
	ByteSize       int64  `json:"byteSize"`
	MimeType       string `json:"mimeType"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	DisplayPercent int    `json:"displayPercent"`
	Order          int    `json:"order"`
}

type ImageRecord struct {
	Id           string    `json:"id"`
	PostId       string    `json:"postId"`
	Data         []byte    `json:"data"`
	Meta         ImageMeta `json:"meta"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

const MaxCommentDepth = 3

type Comment struct {
	Id         string    `json:"id"`
	PostId     string    `json:"postId"`
	AuthorId   string    `json:"authorId"`
	Author     *User     `json:"author,omitempty"`
	Body       string    `json:"body"`
	ParentId   *string   `json:"parentId,omitempty"`
	Depth      int       `json:"depth"`
	LikesCount int       `json:"likesCount"`
	LikedBy    []string  `json:"likedBy,omitempty"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Follow struct {
	Id          string    `json:"id"`
	FollowerId  string    `json:"followerId"`
	FollowingId string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StorageQuota struct {
	Used      int64   `json:"used"`
	Available int64   `json:"available"`
	Total     int64   `json:"total"`
	Percent   float64 `json:"percent"`
}

type CleanupResult struct {
	DeletedImages int   `json:"deletedImages"`
	DeletedPosts  int   `json:"deletedPosts"`
	FreedBytes    int64 `json:"freedBytes"`
}

type StorageStats struct {
	Backend  string       `json:"backend"`
	Degraded bool         `json:"degraded"`
	Users    int          `json:"users"`
	Posts    int          `json:"posts"`
	Comments int          `json:"comments"`
	Follows  int          `json:"follows"`
	Images   int          `json:"images"`
	Quota    StorageQuota `json:"quota"`
}

type FollowStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
