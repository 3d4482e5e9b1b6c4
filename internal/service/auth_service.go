package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/jwt"
	"github.com/agentbase/agentbase/internal/pkg/password"
	"github.com/agentbase/agentbase/internal/repo"
)

type AuthService struct {
	orgs      *repo.OrganizationRepo
	users     *repo.UserRepo
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(orgs *repo.OrganizationRepo, users *repo.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{orgs: orgs, users: users, jwtSecret: secret, jwtTTL: ttl}
}

type RegisterInput struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"full_name"`
}

// Register creates a fresh organization with the caller as its admin.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, "", fmt.Errorf("%w: email is required", appErr.ErrInvalid)
	}
	if len(input.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", appErr.ErrInvalid)
	}
	if strings.TrimSpace(input.OrganizationName) == "" {
		return nil, "", fmt.Errorf("%w: organization name is required", appErr.ErrInvalid)
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().Unix()
	org := &model.Organization{
		ID:       newID(),
		Name:     strings.TrimSpace(input.OrganizationName),
		Plan:     "free",
		IsActive: true,
		Ctime:    now,
		Mtime:    now,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		if dbutil.IsConflict(err) {
			return nil, "", appErr.ErrConflict
		}
		return nil, "", err
	}
	user := &model.User{
		ID:             newID(),
		OrganizationID: org.ID,
		Email:          input.Email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(input.FullName),
		Role:           model.UserRoleAdmin,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if dbutil.IsConflict(err) {
			return nil, "", appErr.ErrConflict
		}
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, user.OrganizationID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.ID, user.OrganizationID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
