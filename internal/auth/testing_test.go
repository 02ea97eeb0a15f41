// AngelaMos | 2026
// testing_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/job-board/internal/config"
	"github.com/carterperez-dev/templates/job-board/internal/core"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*UserInfo{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	name, email, passwordHash, role string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range f.byID {
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	f.nextID++
	u := &UserInfo{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u

	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) bumpVersion(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TokenVersion++
}

func (f *fakeUsers) setRole(id int64, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].Role = role
}

func (f *fakeUsers) delete(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: map[string]time.Time{}}
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = exp
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()
	dir := t.TempDir()
	return config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "keys", "public.pem"),
		GenerateKeys:      true,
		AccessTokenExpire: time.Hour,
		Issuer:            "job-board",
		Audience:          "job-board-api",
	}
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)
	return m
}

func newTestHasher(t *testing.T) *core.PasswordHasher {
	t.Helper()
	h, err := core.NewPasswordHasher(core.Argon2Params{
		Time:    1,
		Memory:  1024,
		Threads: 1,
		KeyLen:  32,
	})
	require.NoError(t, err)
	return h
}
