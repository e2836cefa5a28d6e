package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fingnet-server/shared"
)

// FollowUser is idempotent. Following an already-followed user returns the
// existing edge and leaves counters untouched.
func (s *Storage) FollowUser(ctx context.Context, followerId, followingId string) (*shared.Follow, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	if followerId == followingId {
		return nil, shared.ApiErr(shared.ApiErrorTypeInvalidInput, 422, "a user cannot follow themselves")
	}

	follower, err := s.backend.GetUser(ctx, followerId)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, shared.InvalidRefErr(fmt.Sprintf("follower not found: %v", followerId))
	}

	following, err := s.backend.GetUser(ctx, followingId)
	if err != nil {
		return nil, err
	}
	if following == nil {
		return nil, shared.InvalidRefErr(fmt.Sprintf("user not found: %v", followingId))
	}

	existing, err := s.backend.GetFollow(ctx, followerId, followingId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	follow := &shared.Follow{
		Id:          uuid.New().String(),
		FollowerId:  followerId,
		FollowingId: followingId,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.backend.SaveFollow(ctx, follow); err != nil {
		return nil, err
	}

	follower.FollowingCount++
	following.FollowersCount++
	if err := s.backend.SaveUser(ctx, follower); err != nil {
		return nil, err
	}
	if err := s.backend.SaveUser(ctx, following); err != nil {
		return nil, err
	}

	return follow, nil
}

// UnfollowUser is idempotent. Removing an edge that doesn't exist is a no-op.
func (s *Storage) UnfollowUser(ctx context.Context, followerId, followingId string) error {
	if err := s.init(ctx); err != nil {
		return err
	}

	existing, err := s.backend.GetFollow(ctx, followerId, followingId)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.backend.DeleteFollow(ctx, followerId, followingId); err != nil {
		return err
	}

	follower, err := s.backend.GetUser(ctx, followerId)
	if err != nil {
		return err
	}
	if follower != nil && follower.FollowingCount > 0 {
		follower.FollowingCount--
		if err := s.backend.SaveUser(ctx, follower); err != nil {
			return err
		}
	}

	following, err := s.backend.GetUser(ctx, followingId)
	if err != nil {
		return err
	}
	if following != nil && following.FollowersCount > 0 {
		following.FollowersCount--
		if err := s.backend.SaveUser(ctx, following); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) GetFollowStatus(ctx context.Context, followerId, followingId string) (*shared.FollowStatus, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	follow, err := s.backend.GetFollow(ctx, followerId, followingId)
	if err != nil {
		return nil, err
	}
	return &shared.FollowStatus{UserId: followingId, Following: follow != nil}, nil
}

// BatchGetFollowStatus resolves follow status for many targets in one call.
func (s *Storage) BatchGetFollowStatus(ctx context.Context, followerId string, userIds []string) ([]*shared.FollowStatus, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	follows, err := s.backend.GetFollowing(ctx, followerId)
	if err != nil {
		return nil, err
	}

	followed := map[string]bool{}
	for _, f := range follows {
		followed[f.FollowingId] = true
	}

	res := make([]*shared.FollowStatus, len(userIds))
	for i, id := range userIds {
		res[i] = &shared.FollowStatus{UserId: id, Following: followed[id]}
	}
	return res, nil
}

func (s *Storage) GetFollowers(ctx context.Context, userId string) ([]*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	follows, err := s.backend.GetFollowers(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollowUsers(ctx, follows, func(f *shared.Follow) string { return f.FollowerId })
}

func (s *Storage) GetFollowing(ctx context.Context, userId string) ([]*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	follows, err := s.backend.GetFollowing(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollowUsers(ctx, follows, func(f *shared.Follow) string { return f.FollowingId })
}

func (s *Storage) GetFollowStats(ctx context.Context, userId string) (*shared.FollowStats, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	followers, err := s.backend.GetFollowers(ctx, userId)
	if err != nil {
		return nil, err
	}
	following, err := s.backend.GetFollowing(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &shared.FollowStats{Followers: len(followers), Following: len(following)}, nil
}

func (s *Storage) hydrateFollowUsers(ctx context.Context, follows []*shared.Follow, pick func(*shared.Follow) string) ([]*shared.User, error) {
	var users []*shared.User
	for _, f := range follows {
		user, err := s.backend.GetUser(ctx, pick(f))
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}
