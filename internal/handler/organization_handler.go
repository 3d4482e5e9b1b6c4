package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/pkg/errcode"
	"github.com/agentbase/agentbase/internal/pkg/response"
	"github.com/agentbase/agentbase/internal/service"
)

type OrganizationHandler struct {
	orgs *service.OrganizationService
}

func NewOrganizationHandler(orgs *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context(), getOrgID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, org)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	var req service.OrganizationUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	org, err := h.orgs.Update(c.Request.Context(), getOrgID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, org)
}

func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	if err := h.orgs.Deactivate(c.Request.Context(), getOrgID(c)); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}
