package db

import (
	"time"

	"github.com/lib/pq"

	"fingnet-server/shared"
)

// Row models for the engine's collections. Client-facing models live in
// shared; each row model converts with ToApi so engine-only column types
// (pq arrays, nullable columns) stay out of the API surface.

type User struct {
	Id             string    `db:"id"`
	Handle         string    `db:"handle"`
	DisplayName    string    `db:"display_name"`
	Avatar         string    `db:"avatar"`
	FollowersCount int       `db:"followers_count"`
	FollowingCount int       `db:"following_count"`
	PostsCount     int       `db:"posts_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) ToApi() *shared.User {
	return &shared.User{
		Id:             u.Id,
		Handle:         u.Handle,
		DisplayName:    u.DisplayName,
		Avatar:         u.Avatar,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userFromApi(u *shared.User) *User {
	return &User{
		Id:             u.Id,
		Handle:         u.Handle,
		DisplayName:    u.DisplayName,
		Avatar:         u.Avatar,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type Post struct {
	Id              string         `db:"id"`
	AuthorId        string         `db:"author_id"`
	Body            string         `db:"body"`
	Kind            string         `db:"kind"`
	Visibility      string         `db:"visibility"`
	CoverImageIndex int            `db:"cover_image_index"`
	LikesCount      int            `db:"likes_count"`
	CommentsCount   int            `db:"comments_count"`
	Relationship    string         `db:"relationship"`
	Platform        string         `db:"platform"`
	Feelings        pq.StringArray `db:"feelings"`
	Edited          bool           `db:"edited"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (p *Post) ToApi(images []PostImage) *shared.Post {
	post := &shared.Post{
		Id:              p.Id,
		AuthorId:        p.AuthorId,
		Body:            p.Body,
		Kind:            shared.PostKind(p.Kind),
		Visibility:      shared.Visibility(p.Visibility),
		CoverImageIndex: p.CoverImageIndex,
		LikesCount:      p.LikesCount,
		CommentsCount:   p.CommentsCount,
		Relationship:    p.Relationship,
		Platform:        p.Platform,
		Feelings:        p.Feelings,
		Edited:          p.Edited,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, img := range images {
		post.Images = append(post.Images, *img.ToApi())
	}
	return post
}

func postFromApi(p *shared.Post) *Post {
	return &Post{
		Id:              p.Id,
		AuthorId:        p.AuthorId,
		Body:            p.Body,
		Kind:            string(p.Kind),
		Visibility:      string(p.Visibility),
		CoverImageIndex: p.CoverImageIndex,
		LikesCount:      p.LikesCount,
		CommentsCount:   p.CommentsCount,
		Relationship:    p.Relationship,
		Platform:        p.Platform,
		Feelings:        pq.StringArray(p.Feelings),
		Edited:          p.Edited,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type PostImage struct {
	Id                 string `db:"id"`
	PostId             string `db:"post_id"`
	Reference          string `db:"reference"`
	ThumbnailReference string `db:"thumbnail_reference"`
	AltText            string `db:"alt_text"`
	Width              int    `db:"width"`
	Height             int    `db:"height"`
	DisplayPercent     int    `db:"display_percent"`
	Ord                int    `db:"ord"`
}

func (pi *PostImage) ToApi() *shared.PostImage {
	return &shared.PostImage{
		Id:                 pi.Id,
		Reference:          pi.Reference,
		ThumbnailReference: pi.ThumbnailReference,
		AltText:            pi.AltText,
		Width:              pi.Width,
		Height:             pi.Height,
		DisplayPercent:     pi.DisplayPercent,
		Order:              pi.Ord,
	}
}

type Image struct {
	Id             string    `db:"id"`
	PostId         string    `db:"post_id"`
	Data           []byte    `db:"data"`
	OriginalName   string    `db:"original_name"`
	ByteSize       int64     `db:"byte_size"`
	MimeType       string    `db:"mime_type"`
	Width          int       `db:"width"`
	Height         int       `db:"height"`
	DisplayPercent int       `db:"display_percent"`
	Ord            int       `db:"ord"`
	CreatedAt      time.Time `db:"created_at"`
	LastAccessed   time.Time `db:"last_accessed"`
}

func (i *Image) ToApi() *shared.ImageRecord {
	return &shared.ImageRecord{
		Id:     i.Id,
		PostId: i.PostId,
		Data:   i.Data,
		Meta: shared.ImageMeta{
			OriginalName:   i.OriginalName,
			ByteSize:       i.ByteSize,
			MimeType:       i.MimeType,
			Width:          i.Width,
			Height:         i.Height,
			DisplayPercent: i.DisplayPercent,
			Order:          i.Ord,
		},
		CreatedAt:    i.CreatedAt,
		LastAccessed: i.LastAccessed,
	}
}

func imageFromApi(r *shared.ImageRecord) *Image {
	return &Image{
		Id:             r.Id,
		PostId:         r.PostId,
		Data:           r.Data,
		OriginalName:   r.Meta.OriginalName,
		ByteSize:       r.Meta.ByteSize,
		MimeType:       r.Meta.MimeType,
		Width:          r.Meta.Width,
		Height:         r.Meta.Height,
		DisplayPercent: r.Meta.DisplayPercent,
		Ord:            r.Meta.Order,
		CreatedAt:      r.CreatedAt,
		LastAccessed:   r.LastAccessed,
	}
}

type Comment struct {
	Id         string         `db:"id"`
	PostId     string         `db:"post_id"`
	AuthorId   string         `db:"author_id"`
	Body       string         `db:"body"`
	ParentId   *string        `db:"parent_id"`
	Depth      int            `db:"depth"`
	LikesCount int            `db:"likes_count"`
	LikedBy    pq.StringArray `db:"liked_by"`
	Deleted    bool           `db:"deleted"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (c *Comment) ToApi() *shared.Comment {
	return &shared.Comment{
		Id:         c.Id,
		PostId:     c.PostId,
		AuthorId:   c.AuthorId,
		Body:       c.Body,
		ParentId:   c.ParentId,
		Depth:      c.Depth,
		LikesCount: c.LikesCount,
		LikedBy:    c.LikedBy,
		Deleted:    c.Deleted,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func commentFromApi(c *shared.Comment) *Comment {
	return &Comment{
		Id:         c.Id,
		PostId:     c.PostId,
		AuthorId:   c.AuthorId,
		Body:       c.Body,
		ParentId:   c.ParentId,
		Depth:      c.Depth,
		LikesCount: c.LikesCount,
		LikedBy:    pq.StringArray(c.LikedBy),
		Deleted:    c.Deleted,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

type Follow struct {
	Id          string    `db:"id"`
	FollowerId  string    `db:"follower_id"`
	FollowingId string    `db:"following_id"`
	CreatedAt   time.Time `db:"created_at"`
}

func (f *Follow) ToApi() *shared.Follow {
	return &shared.Follow{
		Id:          f.Id,
		FollowerId:  f.FollowerId,
		FollowingId: f.FollowingId,
		CreatedAt:   f.CreatedAt,
	}
}
