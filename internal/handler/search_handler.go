package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/pkg/errcode"
	"github.com/agentbase/agentbase/internal/pkg/response"
	"github.com/agentbase/agentbase/internal/service"
)

type SearchHandler struct {
	documents *service.DocumentService
	rag       *service.RAGService
}

func NewSearchHandler(documents *service.DocumentService, rag *service.RAGService) *SearchHandler {
	return &SearchHandler{documents: documents, rag: rag}
}

type semanticSearchRequest struct {
	Query          string  `json:"query"`
	Limit          int     `json:"limit"`
	ScoreThreshold float64 `json:"score_threshold"`
}

func (h *SearchHandler) SemanticSearch(c *gin.Context) {
	req := semanticSearchRequest{Limit: 10, ScoreThreshold: 0.7}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	results, err := h.documents.SemanticSearch(c.Request.Context(), getOrgID(c), req.Query, req.Limit, req.ScoreThreshold)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"query": req.Query, "results": results, "total": len(results)})
}

func (h *SearchHandler) HybridSearch(c *gin.Context) {
	req := service.HybridSearchInput{Limit: 10, ScoreThreshold: 0.7}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	results, err := h.documents.HybridSearch(c.Request.Context(), getOrgID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"query": req.Query, "results": results, "total": len(results)})
}

func (h *SearchHandler) SearchMessages(c *gin.Context) {
	req := semanticSearchRequest{Limit: 10, ScoreThreshold: 0.7}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	results, err := h.rag.SearchMessages(c.Request.Context(), getOrgID(c), req.Query, req.Limit, req.ScoreThreshold)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"query": req.Query, "results": results, "total": len(results)})
}
