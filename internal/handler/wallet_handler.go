package handler

import (
	"strconv"

	"github.com/Lumina-Wellness/service-billing/internal/application"
	"github.com/Lumina-Wellness/service-billing/internal/auth"
	"github.com/Lumina-Wellness/service-billing/internal/middleware"
	"github.com/Lumina-Wellness/service-billing/internal/money"
	"github.com/Lumina-Wellness/service-billing/internal/response"
	"github.com/Lumina-Wellness/service-billing/internal/saga"
	"github.com/gin-gonic/gin"
)

// TopupRequest holds data to top up a wallet.
type TopupRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// WalletHandler handles HTTP requests for wallet operations.
type WalletHandler struct {
	service  *application.WalletService
	topupSvc *saga.TopupSagaService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(service *application.WalletService, topupSvc *saga.TopupSagaService) *WalletHandler {
	return &WalletHandler{service: service, topupSvc: topupSvc}
}

// RegisterRoutes registers all wallet routes. Identity middleware accepts
// either a bearer token or a device header resolved to a temporary user.
func (h *WalletHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, resolver middleware.TempIdentityResolver) {
	wallet := r.Group("/wallet")
	wallet.Use(middleware.IdentityMiddleware(jwtManager, resolver))
	{
		wallet.GET("/balance", h.GetBalance)
		wallet.POST("/topup", h.Topup)
		wallet.GET("/transactions", h.GetTransactions)
	}
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	response.Success(c, h.service.GetBalance(c.Request.Context(), userID))
}

// Topup handles POST /api/v1/wallet/topup. The top-up runs as a saga: charge
// the payment provider, then credit the wallet.
func (h *WalletHandler) Topup(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	description := req.Description
	if description == "" {
		description = "Wallet top up"
	}

	w, err := h.topupSvc.Topup(c.Request.Context(), userID, req.Amount, req.Currency, description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, application.BalanceDTO{
		UserID:    w.UserID(),
		Balance:   w.Balance(),
		Currency:  w.Currency(),
		Formatted: money.Format(w.Balance(), w.Currency()),
	})
}

// GetTransactions handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txns, err := h.service.GetTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, txns)
}
