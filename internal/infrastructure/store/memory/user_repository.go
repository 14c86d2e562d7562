// Package memory provides the default, process-local implementations of
// the repository ports. State lives in mutex-guarded maps; this is the
// backend the storefront runs with unless STORE_BACKEND selects mongo.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/minimarket/storefront/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.UserAccount
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.UserAccount)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.UserAccount) (*domain.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.users[user.Username] = &clone

	out := clone
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.UserAccount, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
