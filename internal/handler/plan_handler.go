package handler

import (
	"github.com/Lumina-Wellness/service-billing/internal/domain/plan"
	"github.com/Lumina-Wellness/service-billing/internal/response"
	"github.com/gin-gonic/gin"
)

// PlanHandler serves the static subscription plan catalog.
type PlanHandler struct{}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// RegisterRoutes registers the plan routes. Plans are public.
func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/plans", h.ListPlans)
}

// ListPlans handles GET /api/v1/plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	response.Success(c, plan.AvailablePlans())
}
