package store

import (
	"context"
	"log"
	"sort"

	"fingnet-server/shared"
)

const DefaultFeedLimit = 10

// GetFeed is the plain public feed: public-share posts visible to anyone,
// newest first.
func (s *Storage) GetFeed(ctx context.Context, params shared.FeedParams) (*shared.FeedResult, error) {
	params.ViewerId = ""
	return s.GetEnhancedFeed(ctx, params)
}

// GetEnhancedFeed computes the personalized feed. With a viewer it unions
// followed-author content (public-share and profile posts) with globally
// public content; without one only public-share/public posts qualify.
// Private memories never appear for anyone.
func (s *Storage) GetEnhancedFeed(ctx context.Context, params shared.FeedParams) (*shared.FeedResult, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	posts, err := s.backend.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	userCache := map[string]*shared.User{}
	for _, post := range posts {
		s.resolvePost(ctx, post, userCache)
	}

	var candidates []*shared.Post

	if params.ViewerId != "" {
		following, err := s.backend.GetFollowing(ctx, params.ViewerId)
		if err != nil {
			return nil, err
		}
		followedSet := map[string]bool{}
		for _, f := range following {
			followedSet[f.FollowingId] = true
		}

		seen := map[string]bool{}
		for _, post := range posts {
			if !followedSet[post.AuthorId] {
				continue
			}
			if post.Kind != shared.PostKindPublicShare && post.Kind != shared.PostKindProfilePost {
				continue
			}
			if !seen[post.Id] {
				seen[post.Id] = true
				candidates = append(candidates, post)
			}
		}
		for _, post := range posts {
			if !isGloballyPublic(post) {
				continue
			}
			if !seen[post.Id] {
				seen[post.Id] = true
				candidates = append(candidates, post)
			}
		}

		if len(candidates) == 0 && params.FallbackToPublic {
			// widen past the personalized union to anything public at all
			for _, post := range posts {
				if post.Visibility == shared.VisibilityPublic {
					candidates = append(candidates, post)
				}
			}
			if len(candidates) > 0 {
				log.Printf("personalized feed empty for viewer %s, falling back to public posts", params.ViewerId)
			}
		}
	} else {
		for _, post := range posts {
			if isGloballyPublic(post) {
				candidates = append(candidates, post)
			}
		}
	}

	candidates = applyFilters(candidates, params)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	return paginate(candidates, params.Page, params.Limit), nil
}

func isGloballyPublic(post *shared.Post) bool {
	return post.Kind == shared.PostKindPublicShare && post.Visibility == shared.VisibilityPublic
}

// applyFilters intersects the candidate set with each requested tag
// predicate. The feelings filter matches any overlap.
func applyFilters(posts []*shared.Post, params shared.FeedParams) []*shared.Post {
	if params.Relationship == "" && params.Platform == "" && len(params.Feelings) == 0 {
		return posts
	}

	var res []*shared.Post
	for _, post := range posts {
		if params.Relationship != "" && post.Relationship != params.Relationship {
			continue
		}
		if params.Platform != "" && post.Platform != params.Platform {
			continue
		}
		if len(params.Feelings) > 0 && !anyOverlap(post.Feelings, params.Feelings) {
			continue
		}
		res = append(res, post)
	}
	return res
}

func anyOverlap(have, want []string) bool {
	set := map[string]bool{}
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

func paginate(posts []*shared.Post, page, limit int) *shared.FeedResult {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	start := (page - 1) * limit
	if start >= len(posts) {
		return &shared.FeedResult{Posts: []*shared.Post{}, HasMore: false}
	}

	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}

	return &shared.FeedResult{
		Posts:   posts[start:end],
		HasMore: end < len(posts),
	}
}

// resolvePost turns managed image references into servable URLs and
// hydrates the author. Resolution failures degrade: a thumbnail falls back
// to the primary URL, a missing author just stays unattached.
func (s *Storage) resolvePost(ctx context.Context, post *shared.Post, userCache map[string]*shared.User) {
	for i := range post.Images {
		img := &post.Images[i]

		img.URL = resolveReference(img.Reference)

		thumbURL := resolveReference(img.ThumbnailReference)
		if thumbURL == "" {
			thumbURL = img.URL
		}
		img.ThumbnailURL = thumbURL
	}

	if post.Author == nil {
		author, ok := userCache[post.AuthorId]
		if !ok {
			var err error
			author, err = s.backend.GetUser(ctx, post.AuthorId)
			if err != nil {
				log.Printf("error hydrating author %s for post %s: %v", post.AuthorId, post.Id, err)
			}
			userCache[post.AuthorId] = author
		}
		post.Author = author
	}
}

// resolveReference maps a managed reference onto the image-serving route and
// leaves any other string (a remote URL) untouched.
func resolveReference(ref string) string {
	if id, ok := shared.ParseImageRef(ref); ok {
		return "/images/" + id
	}
	return ref
}
