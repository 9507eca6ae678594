// Package memory provides the in-process account directory backend.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]user.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]user.User),
		nextID: 1,
	}
}

func (r *UserRepository) Create(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return internal.ErrEmailAlreadyRegistered
		}
	}

	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := u
			return &copied, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (r *UserRepository) GetByName(name string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Name, name) {
			copied := u
			return &copied, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (r *UserRepository) List() ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		copied := u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
