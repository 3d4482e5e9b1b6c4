package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/errcode"
	"github.com/agentbase/agentbase/internal/pkg/response"
	"github.com/agentbase/agentbase/internal/service"
)

type ConversationHandler struct {
	conversations *service.ConversationService
}

func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req service.ConversationCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	conv, err := h.conversations.Create(c.Request.Context(), getOrgID(c), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, conv)
}

func (h *ConversationHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	convs, err := h.conversations.List(c.Request.Context(), getOrgID(c), getUserID(c), includeArchived, queryInt(c, "offset", 0), queryInt(c, "limit", 20))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, convs)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.conversations.Get(c.Request.Context(), getOrgID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, conv)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (h *ConversationHandler) SetArchived(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	conv, err := h.conversations.SetArchived(c.Request.Context(), getOrgID(c), c.Param("id"), req.Archived)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, conv)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.conversations.Delete(c.Request.Context(), getOrgID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *ConversationHandler) AddMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Role == "" {
		req.Role = model.MessageRoleUser
	}
	msg, err := h.conversations.AddMessage(c.Request.Context(), getOrgID(c), c.Param("id"), req.Role, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, msg)
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
	msgs, err := h.conversations.ListMessages(c.Request.Context(), getOrgID(c), c.Param("id"), queryInt(c, "offset", 0), queryInt(c, "limit", 50))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, msgs)
}

func (h *ConversationHandler) DeleteMessage(c *gin.Context) {
	if err := h.conversations.DeleteMessage(c.Request.Context(), getOrgID(c), c.Param("id"), c.Param("mid")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}
