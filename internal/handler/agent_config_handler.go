package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/pkg/errcode"
	"github.com/agentbase/agentbase/internal/pkg/response"
	"github.com/agentbase/agentbase/internal/service"
)

type AgentConfigHandler struct {
	configs *service.AgentConfigService
}

func NewAgentConfigHandler(configs *service.AgentConfigService) *AgentConfigHandler {
	return &AgentConfigHandler{configs: configs}
}

func (h *AgentConfigHandler) Create(c *gin.Context) {
	var req service.AgentConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	cfg, err := h.configs.Create(c.Request.Context(), getOrgID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *AgentConfigHandler) List(c *gin.Context) {
	configs, err := h.configs.List(c.Request.Context(), getOrgID(c), queryInt(c, "offset", 0), queryInt(c, "limit", 20))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, configs)
}

func (h *AgentConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context(), getOrgID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *AgentConfigHandler) Update(c *gin.Context) {
	var req service.AgentConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	cfg, err := h.configs.Update(c.Request.Context(), getOrgID(c), c.Param("id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *AgentConfigHandler) Delete(c *gin.Context) {
	if err := h.configs.Delete(c.Request.Context(), getOrgID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}
