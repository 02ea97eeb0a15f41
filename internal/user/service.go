// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/job-board/internal/auth"
	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/events"
)

var ErrEmailInUse = errors.New("email already in use by another user")

type Service struct {
	repo      Repository
	hasher    *core.PasswordHasher
	publisher events.Publisher
}

func NewService(
	repo Repository,
	hasher *core.PasswordHasher,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash, role string,
) (*auth.UserInfo, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"create user: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user := &User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, error) {
	params.Search = strings.TrimSpace(params.Search)
	return s.repo.List(ctx, params)
}

// UpdateUser replaces name, email, password and role. An email owned by a
// different account is rejected before anything is written.
func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	taken, err := s.repo.ExistsByEmailExcept(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("update user %d: %w", id, ErrEmailInUse)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.PasswordHash = passwordHash
	user.Role = req.Role

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("update user %d: %w", id, ErrEmailInUse)
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	events.Emit(ctx, s.publisher, events.New(events.TypeUserDeleted, map[string]int64{
		"user_id": id,
	}))

	return nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with the
// email already exists. It reports whether an account was created.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	name, email, password string,
) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.Create(ctx, name, email, passwordHash, RoleAdmin); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return false, nil
		}
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}

	return true, nil
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	byRole := map[string]int64{
		RoleAdmin:     0,
		RoleEmployer:  0,
		RoleJobSeeker: 0,
	}
	for _, c := range counts {
		byRole[c.Role] = c.Count
	}

	return byRole, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
