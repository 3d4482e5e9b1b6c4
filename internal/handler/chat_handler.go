package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/pkg/errcode"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/response"
	"github.com/agentbase/agentbase/internal/rag"
	"github.com/agentbase/agentbase/internal/service"
)

type ChatHandler struct {
	rag *service.RAGService
}

func NewChatHandler(ragService *service.RAGService) *ChatHandler {
	return &ChatHandler{rag: ragService}
}

type chatResponse struct {
	Answer      string           `json:"answer"`
	Documents   interface{}      `json:"documents"`
	Messages    interface{}      `json:"messages"`
	ContextUsed bool             `json:"context_used"`
	ElapsedMs   int64            `json:"elapsed_ms"`
	Timings     map[string]int64 `json:"timings"`
}

func toChatResponse(result *rag.Result) chatResponse {
	return chatResponse{
		Answer:      result.Answer,
		Documents:   result.Context.Documents,
		Messages:    result.Context.Messages,
		ContextUsed: result.ContextUsed,
		ElapsedMs:   result.Timings.Total.Milliseconds(),
		Timings: map[string]int64{
			"retrieve_docs_ms": result.Timings.RetrieveDocs.Milliseconds(),
			"retrieve_msgs_ms": result.Timings.RetrieveMsgs.Milliseconds(),
			"assemble_ms":      result.Timings.Assemble.Milliseconds(),
			"generate_ms":      result.Timings.Generate.Milliseconds(),
		},
	}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req service.ChatInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.rag.Chat(c.Request.Context(), getOrgID(c), req)
	if err != nil {
		// A generation failure still returns what was retrieved, so the
		// caller can retry with the same context.
		if result != nil && !appErr.IsInvalid(err) {
			response.ErrorWithData(c, errcode.ErrGenerationFailed, "generation failed", toChatResponse(result))
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, toChatResponse(result))
}
