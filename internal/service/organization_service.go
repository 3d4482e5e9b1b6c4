package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/repo"
)

type OrganizationService struct {
	orgs *repo.OrganizationRepo
}

func NewOrganizationService(orgs *repo.OrganizationRepo) *OrganizationService {
	return &OrganizationService{orgs: orgs}
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*model.Organization, error) {
	return s.orgs.Get(ctx, id)
}

type OrganizationUpdateInput struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	Plan        string `json:"plan"`
}

func (s *OrganizationService) Update(ctx context.Context, id string, input OrganizationUpdateInput) (*model.Organization, error) {
	org, err := s.orgs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	org.Name = strings.TrimSpace(input.Name)
	org.Domain = strings.TrimSpace(input.Domain)
	org.Description = input.Description
	if input.Plan != "" {
		org.Plan = input.Plan
	}
	org.Mtime = time.Now().Unix()
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Deactivate(ctx context.Context, id string) error {
	return s.orgs.Deactivate(ctx, id, time.Now().Unix())
}
