// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]User{}}
}

func (f *fakeRepo) seed(name, email, role string) User {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	u := User{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: "$argon2id$seed",
		Role:         role,
		CreatedAt:    time.Now().Add(time.Duration(f.nextID) * time.Second),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) List(_ context.Context, params ListUsersParams) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []User{}
	for _, u := range f.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	u.TokenVersion++
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) ExistsByEmailExcept(_ context.Context, email string, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountByRole(_ context.Context) ([]RoleCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byRole := map[string]int64{}
	for _, u := range f.users {
		byRole[u.Role]++
	}
	out := []RoleCount{}
	for role, n := range byRole {
		out = append(out, RoleCount{Role: role, Count: n})
	}
	return out, nil
}
