package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	saveUser(t, s, "user-aria", "aria")
	saveUser(t, s, "user-ben", "ben")

	follow, err := s.FollowUser(ctx, "user-aria", "user-ben")
	require.NoError(t, err)
	assert.Equal(t, "user-aria", follow.FollowerId)
	assert.Equal(t, "user-ben", follow.FollowingId)

	aria, err := s.GetUser(ctx, "user-aria")
	require.NoError(t, err)
	assert.Equal(t, 1, aria.FollowingCount)

	ben, err := s.GetUser(ctx, "user-ben")
	require.NoError(t, err)
	assert.Equal(t, 1, ben.FollowersCount)

	// idempotent: a second follow returns the same edge without moving counters
	again, err := s.FollowUser(ctx, "user-aria", "user-ben")
	require.NoError(t, err)
	assert.Equal(t, follow.Id, again.Id)

	aria, err = s.GetUser(ctx, "user-aria")
	require.NoError(t, err)
	assert.Equal(t, 1, aria.FollowingCount)
}

func TestFollowUserRejectsSelfFollow(t *testing.T) {
	s := newTestStorage(t)
	saveUser(t, s, "user-aria", "aria")

	_, err := s.FollowUser(context.Background(), "user-aria", "user-aria")
	require.Error(t, err)
}

func TestFollowUserRejectsUnknownTarget(t *testing.T) {
	s := newTestStorage(t)
	saveUser(t, s, "user-aria", "aria")

	_, err := s.FollowUser(context.Background(), "user-aria", "ghost")
	require.Error(t, err)
}

func TestUnfollowUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	saveUser(t, s, "user-aria", "aria")
	saveUser(t, s, "user-ben", "ben")

	_, err := s.FollowUser(ctx, "user-aria", "user-ben")
	require.NoError(t, err)
	require.NoError(t, s.UnfollowUser(ctx, "user-aria", "user-ben"))

	status, err := s.GetFollowStatus(ctx, "user-aria", "user-ben")
	require.NoError(t, err)
	assert.False(t, status.Following)

	aria, err := s.GetUser(ctx, "user-aria")
	require.NoError(t, err)
	assert.Equal(t, 0, aria.FollowingCount)

	// unfollowing again is a no-op and counters stay at zero
	require.NoError(t, s.UnfollowUser(ctx, "user-aria", "user-ben"))
	aria, err = s.GetUser(ctx, "user-aria")
	require.NoError(t, err)
	assert.Equal(t, 0, aria.FollowingCount)
}

func TestFollowersAndFollowing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	saveUser(t, s, "user-aria", "aria")
	saveUser(t, s, "user-ben", "ben")
	saveUser(t, s, "user-chloe", "chloe")

	_, err := s.FollowUser(ctx, "user-aria", "user-ben")
	require.NoError(t, err)
	_, err = s.FollowUser(ctx, "user-chloe", "user-ben")
	require.NoError(t, err)

	followers, err := s.GetFollowers(ctx, "user-ben")
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := s.GetFollowing(ctx, "user-aria")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "user-ben", following[0].Id)

	stats, err := s.GetFollowStats(ctx, "user-ben")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Followers)
	assert.Equal(t, 0, stats.Following)
}

func TestBatchGetFollowStatus(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	saveUser(t, s, "user-aria", "aria")
	saveUser(t, s, "user-ben", "ben")
	saveUser(t, s, "user-chloe", "chloe")

	_, err := s.FollowUser(ctx, "user-aria", "user-ben")
	require.NoError(t, err)

	statuses, err := s.BatchGetFollowStatus(ctx, "user-aria", []string{"user-ben", "user-chloe"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Following)
	assert.False(t, statuses[1].Following)
}
