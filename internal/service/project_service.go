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

type ProjectService struct {
	projects *repo.ProjectRepo
}

func NewProjectService(projects *repo.ProjectRepo) *ProjectService {
	return &ProjectService{projects: projects}
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *ProjectService) Create(ctx context.Context, orgID, userID string, input ProjectInput) (*model.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	now := time.Now().Unix()
	project := &model.Project{
		ID:             newID(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		CreatedBy:      userID,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, orgID, id string) (*model.Project, error) {
	return s.projects.Get(ctx, orgID, id)
}

func (s *ProjectService) List(ctx context.Context, orgID string, offset, limit int) ([]model.Project, error) {
	return s.projects.ListByOrg(ctx, orgID, offset, normalizeLimit(limit))
}

func (s *ProjectService) Update(ctx context.Context, orgID, id string, input ProjectInput) (*model.Project, error) {
	project, err := s.projects.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	project.Name = strings.TrimSpace(input.Name)
	project.Description = input.Description
	project.Mtime = time.Now().Unix()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, orgID, id string) error {
	return s.projects.Delete(ctx, orgID, id, time.Now().Unix())
}
