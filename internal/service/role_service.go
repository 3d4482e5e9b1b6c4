package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/repo"
)

type RoleService struct {
	roles *repo.RoleRepo
}

func NewRoleService(roles *repo.RoleRepo) *RoleService {
	return &RoleService{roles: roles}
}

type RoleInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (s *RoleService) Create(ctx context.Context, orgID string, input RoleInput) (*model.Role, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	now := time.Now().Unix()
	role := &model.Role{
		ID:             newID(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Permissions:    input.Permissions,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if dbutil.IsConflict(err) {
			return nil, appErr.ErrConflict
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, orgID, id string) (*model.Role, error) {
	return s.roles.Get(ctx, orgID, id)
}

func (s *RoleService) List(ctx context.Context, orgID string) ([]model.Role, error) {
	return s.roles.ListByOrg(ctx, orgID)
}

func (s *RoleService) Update(ctx context.Context, orgID, id string, input RoleInput) (*model.Role, error) {
	role, err := s.roles.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	role.Name = strings.TrimSpace(input.Name)
	role.Description = input.Description
	role.Permissions = input.Permissions
	role.Mtime = time.Now().Unix()
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, orgID, id string) error {
	return s.roles.Delete(ctx, orgID, id, time.Now().Unix())
}
