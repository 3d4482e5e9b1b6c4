package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/password"
	"github.com/agentbase/agentbase/internal/repo"
)

type UserService struct {
	users *repo.UserRepo
}

func NewUserService(users *repo.UserRepo) *UserService {
	return &UserService{users: users}
}

type UserCreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (s *UserService) Create(ctx context.Context, orgID string, input UserCreateInput) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: email is required", appErr.ErrInvalid)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", appErr.ErrInvalid)
	}
	if input.Role == "" {
		input.Role = model.UserRoleMember
	}
	if input.Role != model.UserRoleAdmin && input.Role != model.UserRoleMember {
		return nil, fmt.Errorf("%w: unknown role: %s", appErr.ErrInvalid, input.Role)
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	user := &model.User{
		ID:             newID(),
		OrganizationID: orgID,
		Email:          input.Email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(input.FullName),
		Role:           input.Role,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if dbutil.IsConflict(err) {
			return nil, appErr.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, orgID, id string) (*model.User, error) {
	return s.users.Get(ctx, orgID, id)
}

func (s *UserService) List(ctx context.Context, orgID string, offset, limit int) ([]model.User, error) {
	return s.users.ListByOrg(ctx, orgID, offset, normalizeLimit(limit))
}

type UserUpdateInput struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (s *UserService) Update(ctx context.Context, orgID, id string, input UserUpdateInput) (*model.User, error) {
	user, err := s.users.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if input.Role != "" {
		if input.Role != model.UserRoleAdmin && input.Role != model.UserRoleMember {
			return nil, fmt.Errorf("%w: unknown role: %s", appErr.ErrInvalid, input.Role)
		}
		user.Role = input.Role
	}
	if input.FullName != "" {
		user.FullName = strings.TrimSpace(input.FullName)
	}
	user.Mtime = time.Now().Unix()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Deactivate(ctx context.Context, orgID, id string) error {
	return s.users.Deactivate(ctx, orgID, id, time.Now().Unix())
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
