package ai

import (
	"context"
	"sync"
	"time"
)

// TokenSource supplies the credential presented to the embedding provider.
// Implementations must be safe for concurrent use.
type TokenSource interface {
	// Token returns a currently valid credential.
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same credential.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// CachedTokenSource caches a credential obtained from a refresh function
// and renews it ahead of expiry. Renewal failures surface to the caller;
// a still-valid cached credential is served without refreshing.
type CachedTokenSource struct {
	refresh      func(ctx context.Context) (token string, expiry time.Time, err error)
	refreshAhead time.Duration

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewCachedTokenSource creates a caching token source around refresh.
// refreshAhead controls how long before expiry the credential is renewed.
func NewCachedTokenSource(refresh func(ctx context.Context) (string, time.Time, error), refreshAhead time.Duration) *CachedTokenSource {
	if refreshAhead < 0 {
		refreshAhead = 0
	}
	return &CachedTokenSource{
		refresh:      refresh,
		refreshAhead: refreshAhead,
	}
}

// Token returns the cached credential, refreshing it when it is within
// the refresh-ahead window of its expiry.
func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiry.Add(-s.refreshAhead)) {
		return s.token, nil
	}

	token, expiry, err := s.refresh(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiry = expiry
	return token, nil
}
