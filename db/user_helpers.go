package db

import (
	"context"
	"database/sql"
	"fmt"

	"fingnet-server/shared"
)

const upsertUserQuery = `
INSERT INTO users (id, handle, display_name, avatar, followers_count, following_count, posts_count, created_at, updated_at)
VALUES (:id, :handle, :display_name, :avatar, :followers_count, :following_count, :posts_count, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
	handle = EXCLUDED.handle,
	display_name = EXCLUDED.display_name,
	avatar = EXCLUDED.avatar,
	followers_count = EXCLUDED.followers_count,
	following_count = EXCLUDED.following_count,
	posts_count = EXCLUDED.posts_count,
	updated_at = EXCLUDED.updated_at`

// SaveUser is an idempotent upsert keyed by id.
func (s *Store) SaveUser(ctx context.Context, user *shared.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.conn.NamedExecContext(ctx, upsertUserQuery, userFromApi(user))
	if err != nil {
		if IsNonUniqueErr(err) {
			return fmt.Errorf("handle already taken: %v", user.Handle)
		}
		return fmt.Errorf("error saving user: %v", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var user User
	err := s.conn.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user: %v", err)
	}
	return user.ToApi(), nil
}

func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var user User
	err := s.conn.GetContext(ctx, &user, "SELECT * FROM users WHERE handle = $1", handle)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user by handle: %v", err)
	}
	return user.ToApi(), nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var users []User
	err := s.conn.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing users: %v", err)
	}

	res := make([]*shared.User, len(users))
	for i := range users {
		res[i] = users[i].ToApi()
	}
	return res, nil
}
