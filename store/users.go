package store

import (
	"context"
	"fmt"

	"fingnet-server/shared"
)

func (s *Storage) GetUser(ctx context.Context, id string) (*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	user, err := s.backend.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NotFoundErr(fmt.Sprintf("user not found: %v", id))
	}
	return user, nil
}

func (s *Storage) GetUserByHandle(ctx context.Context, handle string) (*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	user, err := s.backend.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NotFoundErr(fmt.Sprintf("user not found: %v", handle))
	}
	return user, nil
}

func (s *Storage) GetAllUsers(ctx context.Context) ([]*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s.backend.GetAllUsers(ctx)
}

func (s *Storage) SaveUser(ctx context.Context, user *shared.User) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	return s.backend.SaveUser(ctx, user)
}
