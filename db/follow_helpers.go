package db

import (
	"context"
	"database/sql"
	"fmt"

	"fingnet-server/shared"
)

// SaveFollow upserts on the (follower, following) pair so there is at most
// one edge per ordered pair no matter how many times it is saved.
func (s *Store) SaveFollow(ctx context.Context, follow *shared.Follow) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if follow.FollowerId == follow.FollowingId {
		return fmt.Errorf("user cannot follow themselves: %v", follow.FollowerId)
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING`,
		follow.Id, follow.FollowerId, follow.FollowingId, follow.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving follow: %v", err)
	}
	return nil
}

func (s *Store) DeleteFollow(ctx context.Context, followerId, followingId string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND following_id = $2", followerId, followingId)
	if err != nil {
		return fmt.Errorf("error deleting follow: %v", err)
	}
	return nil
}

func (s *Store) GetFollow(ctx context.Context, followerId, followingId string) (*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var follow Follow
	err := s.conn.GetContext(ctx, &follow,
		"SELECT * FROM follows WHERE follower_id = $1 AND following_id = $2", followerId, followingId)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting follow: %v", err)
	}
	return follow.ToApi(), nil
}

func (s *Store) GetFollowers(ctx context.Context, userId string) ([]*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var follows []Follow
	err := s.conn.SelectContext(ctx, &follows,
		"SELECT * FROM follows WHERE following_id = $1 ORDER BY created_at DESC", userId)
	if err != nil {
		return nil, fmt.Errorf("error listing followers: %v", err)
	}
	return followsToApi(follows), nil
}

func (s *Store) GetFollowing(ctx context.Context, userId string) ([]*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var follows []Follow
	err := s.conn.SelectContext(ctx, &follows,
		"SELECT * FROM follows WHERE follower_id = $1 ORDER BY created_at DESC", userId)
	if err != nil {
		return nil, fmt.Errorf("error listing following: %v", err)
	}
	return followsToApi(follows), nil
}

func followsToApi(follows []Follow) []*shared.Follow {
	res := make([]*shared.Follow, len(follows))
	for i := range follows {
		res[i] = follows[i].ToApi()
	}
	return res
}
