package handler

import (
	"github.com/Lumina-Wellness/service-billing/internal/application"
	"github.com/Lumina-Wellness/service-billing/internal/auth"
	"github.com/Lumina-Wellness/service-billing/internal/middleware"
	"github.com/Lumina-Wellness/service-billing/internal/response"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes catalog management and wallet statistics.
type AdminHandler struct {
	promoService  *application.PromoService
	walletService *application.WalletService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(promoService *application.PromoService, walletService *application.WalletService) *AdminHandler {
	return &AdminHandler{promoService: promoService, walletService: walletService}
}

// RegisterRoutes registers all admin routes behind the admin role gate.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/promos", h.CreatePromo)
		admin.GET("/promos", h.ListPromos)
		admin.POST("/promos/:code/disable", h.DisablePromo)
		admin.GET("/wallets/stats", h.WalletStats)
	}
}

// CreatePromo handles POST /api/v1/admin/promos.
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req application.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.promoService.CreatePromo(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// ListPromos handles GET /api/v1/admin/promos.
func (h *AdminHandler) ListPromos(c *gin.Context) {
	response.Success(c, h.promoService.ListPromos(c.Request.Context()))
}

// DisablePromo handles POST /api/v1/admin/promos/:code/disable.
func (h *AdminHandler) DisablePromo(c *gin.Context) {
	if err := h.promoService.DisablePromo(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"disabled": true})
}

// WalletStats handles GET /api/v1/admin/wallets/stats.
func (h *AdminHandler) WalletStats(c *gin.Context) {
	stats, err := h.walletService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
