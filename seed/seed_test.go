package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fingnet-server/shared"
)

func TestDataIsInternallyConsistent(t *testing.T) {
	data := Data()

	users := map[string]*shared.User{}
	for _, u := range data.Users {
		users[u.Id] = u
	}

	authored := map[string]int{}
	for _, p := range data.Posts {
		require.Contains(t, users, p.AuthorId, "post %s has an unknown author", p.Id)
		assert.Equal(t, shared.VisibilityForKind(p.Kind), p.Visibility, "post %s", p.Id)
		authored[p.AuthorId]++
	}
	for id, u := range users {
		assert.Equal(t, authored[id], u.PostsCount, "user %s posts count", id)
	}

	postIds := map[string]bool{}
	for _, p := range data.Posts {
		postIds[p.Id] = true
	}
	commented := map[string]int{}
	for _, c := range data.Comments {
		assert.True(t, postIds[c.PostId], "comment %s targets an unknown post", c.Id)
		require.Contains(t, users, c.AuthorId, "comment %s has an unknown author", c.Id)
		assert.GreaterOrEqual(t, c.Depth, 1)
		assert.LessOrEqual(t, c.Depth, shared.MaxCommentDepth)
		commented[c.PostId]++
	}
	for _, p := range data.Posts {
		assert.Equal(t, commented[p.Id], p.CommentsCount, "post %s comments count", p.Id)
	}

	followers := map[string]int{}
	following := map[string]int{}
	for _, f := range data.Follows {
		require.Contains(t, users, f.FollowerId)
		require.Contains(t, users, f.FollowingId)
		assert.NotEqual(t, f.FollowerId, f.FollowingId)
		followers[f.FollowingId]++
		following[f.FollowerId]++
	}
	for id, u := range users {
		assert.Equal(t, followers[id], u.FollowersCount, "user %s followers count", id)
		assert.Equal(t, following[id], u.FollowingCount, "user %s following count", id)
	}
}

func TestDataReturnsFreshCopies(t *testing.T) {
	first := Data()
	first.Users[0].Handle = "mutated"

	second := Data()
	assert.NotEqual(t, "mutated", second.Users[0].Handle)
}
