package store

import (
	"context"

	"fingnet-server/shared"
)

// TokenProvider abstracts session token handling. The storage layer treats
// tokens as opaque; a provider is injected by the host application.
type TokenProvider interface {
	Issue(ctx context.Context, userId string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Refresh(ctx context.Context, token string) (string, error)
}

// Login resolves the handle and issues a session token for it.
func (s *Storage) Login(ctx context.Context, handle string) (*shared.User, string, error) {
	if err := s.init(ctx); err != nil {
		return nil, "", err
	}
	if s.tokens == nil {
		return nil, "", shared.ApiErr(shared.ApiErrorTypeInit, 503, "no token provider configured")
	}

	user, err := s.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, user.Id)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken maps a session token back to its user.
func (s *Storage) ValidateToken(ctx context.Context, token string) (*shared.User, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, shared.ApiErr(shared.ApiErrorTypeInit, 503, "no token provider configured")
	}

	userId, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userId)
}

func (s *Storage) RefreshToken(ctx context.Context, token string) (string, error) {
	if err := s.init(ctx); err != nil {
		return "", err
	}
	if s.tokens == nil {
		return "", shared.ApiErr(shared.ApiErrorTypeInit, 503, "no token provider configured")
	}
	return s.tokens.Refresh(ctx, token)
}
