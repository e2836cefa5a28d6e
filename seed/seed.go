// Package seed holds the fixed built-in dataset used only when the store is
// found empty on first run.
package seed

import (
	"time"

	"fingnet-server/shared"
)

type Dataset struct {
	Users    []*shared.User
	Posts    []*shared.Post
	Comments []*shared.Comment
	Follows  []*shared.Follow
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return baseTime.Add(time.Duration(hours) * time.Hour)
}

// Data returns a fresh copy of the seed dataset so callers can't mutate the
// canonical one.
func Data() *Dataset {
	users := []*shared.User{
		{
			Id:             "user-aria",
			Handle:         "aria",
			DisplayName:    "Aria Lin",
			Avatar:         "https://i.pravatar.cc/150?u=aria",
			FollowingCount: 1,
			FollowersCount: 1,
			PostsCount:     1,
			CreatedAt:      at(0),
			UpdatedAt:      at(0),
		},
		{
			Id:             "user-ben",
			Handle:         "ben",
			DisplayName:    "Ben Okafor",
			Avatar:         "https://i.pravatar.cc/150?u=ben",
			FollowingCount: 1,
			FollowersCount: 1,
			PostsCount:     2,
			CreatedAt:      at(0),
			UpdatedAt:      at(0),
		},
		{
			Id:          "user-chloe",
			Handle:      "chloe",
			DisplayName: "Chloe Park",
			Avatar:      "https://i.pravatar.cc/150?u=chloe",
			PostsCount:  2,
			CreatedAt:   at(0),
			UpdatedAt:   at(0),
		},
	}

	posts := []*shared.Post{
		{
			Id:            "post-sunrise",
			AuthorId:      "user-aria",
			Body:          "First light over the bay. Worth the 5am alarm.",
			Kind:          shared.PostKindPublicShare,
			Visibility:    shared.VisibilityPublic,
			CommentsCount: 1,
			Relationship:  "single",
			Platform:      "ios",
			Feelings:      []string{"hopeful", "calm"},
			CreatedAt:     at(1),
			UpdatedAt:     at(1),
		},
		{
			Id:            "post-ramen",
			AuthorId:      "user-ben",
			Body:          "Found the best ramen spot in the city. Not telling where.",
			Kind:          shared.PostKindPublicShare,
			Visibility:    shared.VisibilityPublic,
			CommentsCount: 1,
			Platform:      "android",
			Feelings:      []string{"happy"},
			CreatedAt:     at(2),
			UpdatedAt:     at(2),
		},
		{
			Id:           "post-marathon",
			AuthorId:     "user-chloe",
			Body:         "Signed up for my first marathon. What have I done.",
			Kind:         shared.PostKindPublicShare,
			Visibility:   shared.VisibilityPublic,
			Relationship: "taken",
			Feelings:     []string{"nervous", "hopeful"},
			CreatedAt:    at(3),
			UpdatedAt:    at(3),
		},
		{
			Id:         "post-studio",
			AuthorId:   "user-ben",
			Body:       "New studio corner, finally set up.",
			Kind:       shared.PostKindProfilePost,
			Visibility: shared.VisibilityPublic,
			CreatedAt:  at(4),
			UpdatedAt:  at(4),
		},
		{
			Id:         "post-journal",
			AuthorId:   "user-chloe",
			Body:       "Note to self: call grandma more often.",
			Kind:       shared.PostKindPrivateMemory,
			Visibility: shared.VisibilityPrivate,
			CreatedAt:  at(5),
			UpdatedAt:  at(5),
		},
	}

	comments := []*shared.Comment{
		{
			Id:        "comment-sunrise-1",
			PostId:    "post-sunrise",
			AuthorId:  "user-ben",
			Body:      "Stunning. Which beach is this?",
			Depth:     1,
			CreatedAt: at(2),
			UpdatedAt: at(2),
		},
		{
			Id:        "comment-ramen-1",
			PostId:    "post-ramen",
			AuthorId:  "user-aria",
			Body:      "You can't just say that and not share.",
			Depth:     1,
			CreatedAt: at(3),
			UpdatedAt: at(3),
		},
	}

	follows := []*shared.Follow{
		{
			Id:          "follow-aria-ben",
			FollowerId:  "user-aria",
			FollowingId: "user-ben",
			CreatedAt:   at(0),
		},
		{
			Id:          "follow-ben-aria",
			FollowerId:  "user-ben",
			FollowingId: "user-aria",
			CreatedAt:   at(0),
		},
	}

	return &Dataset{Users: users, Posts: posts, Comments: comments, Follows: follows}
}
