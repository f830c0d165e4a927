// Package userstest provides an in-memory users.UserRepository for tests of
// packages that resolve authors.
package userstest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"Socialite/internal/core/users"
)

// MemoryRepo is a goroutine-safe in-memory users.UserRepository.
type MemoryRepo struct {
	users   map[string]*users.User
	follows map[[2]string]time.Time
	mu      sync.Mutex
}

// NewMemoryRepo returns an empty repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:   make(map[string]*users.User),
		follows: make(map[[2]string]time.Time),
	}
}

// Add stores a user with a fresh ID and returns it.
func (r *MemoryRepo) Add(username string) *users.User {
	u, _ := r.Create(context.Background(), &users.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
	})
	return u
}

func (r *MemoryRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, users.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, users.ErrEmailTaken
		}
	}

	c := *user
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *MemoryRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[string]*users.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out := *u
			result[id] = &out
		}
	}
	return result, nil
}

func (r *MemoryRepo) Update(ctx context.Context, user *users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, users.ErrUserNotFound
	}
	c := *user
	c.UpdatedAt = time.Now()
	r.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return users.ErrUserNotFound
	}
	delete(r.users, id)
	for k := range r.follows {
		if k[0] == id || k[1] == id {
			delete(r.follows, k)
		}
	}
	return nil
}

func (r *MemoryRepo) GetProfileStats(ctx context.Context, id string) (*users.ProfileStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &users.ProfileStats{}
	for k := range r.follows {
		if k[0] == id {
			stats.FollowingCount++
		}
		if k[1] == id {
			stats.FollowerCount++
		}
	}
	return stats, nil
}

func (r *MemoryRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{followerID, followeeID}
	if _, ok := r.follows[key]; ok {
		return users.ErrAlreadyFollowing
	}
	r.follows[key] = time.Now()
	return nil
}

func (r *MemoryRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{followerID, followeeID}
	if _, ok := r.follows[key]; !ok {
		return users.ErrNotFollowing
	}
	delete(r.follows, key)
	return nil
}

func (r *MemoryRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.follows[[2]string{followerID, followeeID}]
	return ok, nil
}

func (r *MemoryRepo) ListFollowers(ctx context.Context, id string, limit, offset int) ([]*users.User, error) {
	return r.listEdges(func(k [2]string) (string, bool) { return k[0], k[1] == id }, limit, offset), nil
}

func (r *MemoryRepo) ListFollowing(ctx context.Context, id string, limit, offset int) ([]*users.User, error) {
	return r.listEdges(func(k [2]string) (string, bool) { return k[1], k[0] == id }, limit, offset), nil
}

func (r *MemoryRepo) listEdges(match func([2]string) (string, bool), limit, offset int) []*users.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	type edge struct {
		at time.Time
		id string
	}
	var edges []edge
	for k, at := range r.follows {
		if other, ok := match(k); ok {
			edges = append(edges, edge{at: at, id: other})
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].at.After(edges[j].at) })

	var out []*users.User
	for i := offset; i < len(edges) && len(out) < limit; i++ {
		if u, ok := r.users[edges[i].id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out
}

func (r *MemoryRepo) Search(ctx context.Context, term string, limit, offset int) ([]*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term = strings.ToLower(term)
	var matched []*users.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), term) || strings.Contains(strings.ToLower(u.FullName), term) {
			c := *u
			matched = append(matched, &c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

var _ users.UserRepository = (*MemoryRepo)(nil)
