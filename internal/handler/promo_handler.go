package handler

import (
	"github.com/Lumina-Wellness/service-billing/internal/application"
	"github.com/Lumina-Wellness/service-billing/internal/auth"
	"github.com/Lumina-Wellness/service-billing/internal/middleware"
	"github.com/Lumina-Wellness/service-billing/internal/response"
	"github.com/gin-gonic/gin"
)

// PromoHandler handles HTTP requests for promo code operations.
type PromoHandler struct {
	service *application.PromoService
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(service *application.PromoService) *PromoHandler {
	return &PromoHandler{service: service}
}

// RegisterRoutes registers all promo routes.
func (h *PromoHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, resolver middleware.TempIdentityResolver) {
	promos := r.Group("/promos")
	promos.Use(middleware.IdentityMiddleware(jwtManager, resolver))
	{
		promos.POST("/apply", h.ApplyPromo)
		promos.DELETE("/active", h.RemovePromo)
		promos.GET("/price", h.QuotePrice)
	}
}

// ApplyPromo handles POST /api/v1/promos/apply. Validation failures are 200s
// with valid=false; the client decides how to surface the message.
func (h *PromoHandler) ApplyPromo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.ApplyPromo(c.Request.Context(), userID, req))
}

// RemovePromo handles DELETE /api/v1/promos/active.
func (h *PromoHandler) RemovePromo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	h.service.RemovePromo(c.Request.Context(), userID)
	response.Success(c, gin.H{"removed": true})
}

// QuotePrice handles GET /api/v1/promos/price?plan=<name>.
func (h *PromoHandler) QuotePrice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	planName := c.Query("plan")
	if planName == "" {
		response.BadRequest(c, "plan query parameter is required")
		return
	}

	quote, err := h.service.QuotePrice(c.Request.Context(), userID, planName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}
