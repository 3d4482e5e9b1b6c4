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

type AgentConfigService struct {
	configs *repo.AgentConfigRepo
}

func NewAgentConfigService(configs *repo.AgentConfigRepo) *AgentConfigService {
	return &AgentConfigService{configs: configs}
}

type AgentConfigInput struct {
	ProjectID    string  `json:"project_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

func (i *AgentConfigInput) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", appErr.ErrInvalid)
	}
	if strings.TrimSpace(i.Model) == "" {
		return fmt.Errorf("%w: model is required", appErr.ErrInvalid)
	}
	if i.Temperature < 0 || i.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be within [0, 2]", appErr.ErrInvalid)
	}
	if i.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must not be negative", appErr.ErrInvalid)
	}
	return nil
}

func (s *AgentConfigService) Create(ctx context.Context, orgID string, input AgentConfigInput) (*model.AgentConfig, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	cfg := &model.AgentConfig{
		ID:             newID(),
		OrganizationID: orgID,
		ProjectID:      input.ProjectID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Model:          strings.TrimSpace(input.Model),
		SystemPrompt:   input.SystemPrompt,
		Temperature:    input.Temperature,
		MaxTokens:      input.MaxTokens,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *AgentConfigService) Get(ctx context.Context, orgID, id string) (*model.AgentConfig, error) {
	return s.configs.Get(ctx, orgID, id)
}

func (s *AgentConfigService) List(ctx context.Context, orgID string, offset, limit int) ([]model.AgentConfig, error) {
	return s.configs.ListByOrg(ctx, orgID, offset, normalizeLimit(limit))
}

func (s *AgentConfigService) Update(ctx context.Context, orgID, id string, input AgentConfigInput) (*model.AgentConfig, error) {
	cfg, err := s.configs.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	cfg.ProjectID = input.ProjectID
	cfg.Name = strings.TrimSpace(input.Name)
	cfg.Description = input.Description
	cfg.Model = strings.TrimSpace(input.Model)
	cfg.SystemPrompt = input.SystemPrompt
	cfg.Temperature = input.Temperature
	cfg.MaxTokens = input.MaxTokens
	cfg.Mtime = time.Now().Unix()
	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *AgentConfigService) Delete(ctx context.Context, orgID, id string) error {
	return s.configs.Delete(ctx, orgID, id, time.Now().Unix())
}
