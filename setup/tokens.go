package setup

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fingnet-server/shared"
)

// memoryTokenProvider keeps session tokens in process memory. Tokens are
// opaque random ids; restarting the server invalidates all sessions.
type memoryTokenProvider struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryTokenProvider() *memoryTokenProvider {
	return &memoryTokenProvider{tokens: map[string]string{}}
}

func (p *memoryTokenProvider) Issue(ctx context.Context, userId string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token := uuid.New().String()
	p.tokens[token] = userId
	return token, nil
}

func (p *memoryTokenProvider) Validate(ctx context.Context, token string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userId, ok := p.tokens[token]
	if !ok {
		return "", shared.ApiErr(shared.ApiErrorTypeInvalidInput, 401, "invalid session token")
	}
	return userId, nil
}

func (p *memoryTokenProvider) Refresh(ctx context.Context, token string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userId, ok := p.tokens[token]
	if !ok {
		return "", shared.ApiErr(shared.ApiErrorTypeInvalidInput, 401, "invalid session token")
	}
	delete(p.tokens, token)

	refreshed := uuid.New().String()
	p.tokens[refreshed] = userId
	return refreshed, nil
}
