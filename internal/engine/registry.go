package engine

import (
	"fmt"
	"path-route-service/internal/domain"
)

// Registry maps correlation tokens to entry identities.
type Registry struct {
	byToken map[domain.Token]domain.EntryID
}

func NewRegistry() *Registry {
	return &Registry{byToken: make(map[domain.Token]domain.EntryID)}
}

// Register records token -> id. A duplicate token means the token source is broken.
func (r *Registry) Register(token domain.Token, id domain.EntryID) error {
	if prev, ok := r.byToken[token]; ok {
		return fmt.Errorf("register token %q for entry %d (held by entry %d): %w", token, id, prev, ErrDuplicateToken)
	}
	r.byToken[token] = id
	return nil
}

// Resolve returns the entry a token was issued for. Tokens of removed or
// superseded submissions resolve to ErrTokenNotFound.
func (r *Registry) Resolve(token domain.Token) (domain.EntryID, error) {
	id, ok := r.byToken[token]
	if !ok {
		return 0, ErrTokenNotFound
	}
	return id, nil
}

// Release forgets token. Releasing an unknown token is a no-op.
func (r *Registry) Release(token domain.Token) {
	delete(r.byToken, token)
}

func (r *Registry) Len() int { return len(r.byToken) }
