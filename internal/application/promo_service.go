package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	"github.com/Lumina-Wellness/service-billing/internal/domain/plan"
	promoDomain "github.com/Lumina-Wellness/service-billing/internal/domain/promo"
	"go.uber.org/zap"
)

// ApplyPromoRequest holds data to apply a promo code.
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
	Plan string `json:"plan" binding:"required"`
}

// CreatePromoRequest holds data to create a catalog entry (admin).
type CreatePromoRequest struct {
	Code          string   `json:"code" binding:"required"`
	DiscountType  string   `json:"discount_type" binding:"required"`
	DiscountValue float64  `json:"discount_value"`
	Tiers         []string `json:"tiers" binding:"required"`
	Duration      string   `json:"duration" binding:"required"`
	DurationValue int      `json:"duration_value"`
	Rules         string   `json:"rules"`
}

// PromoDTO is the API representation of a catalog entry.
type PromoDTO struct {
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	Tiers         []string  `json:"tiers"`
	Duration      string    `json:"duration"`
	DurationValue int       `json:"duration_value,omitempty"`
	IsValid       bool      `json:"is_valid"`
	Rules         string    `json:"rules,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApplyResultDTO is the outcome of applying a promo code.
type ApplyResultDTO struct {
	Valid            bool      `json:"valid"`
	Message          string    `json:"message"`
	Discount         float64   `json:"discount,omitempty"`
	DiscountDuration string    `json:"discount_duration,omitempty"`
	PromoDetails     *PromoDTO `json:"promo_details,omitempty"`
}

// PriceQuoteDTO prices a plan through the caller's active promo.
type PriceQuoteDTO struct {
	Plan            string  `json:"plan"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	Currency        string  `json:"currency"`
	ActiveCode      string  `json:"active_code,omitempty"`
}

// PromoService handles promo code use cases. Each user session owns its own
// single-slot promo session; sessions live for the process lifetime only.
type PromoService struct {
	catalog *promoDomain.Catalog
	repo    promoDomain.CatalogRepository
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*promoDomain.Session
}

// NewPromoService creates a new PromoService over an already loaded catalog.
func NewPromoService(catalog *promoDomain.Catalog, repo promoDomain.CatalogRepository, logger *zap.Logger) *PromoService {
	return &PromoService{
		catalog:  catalog,
		repo:     repo,
		logger:   logger,
		sessions: make(map[string]*promoDomain.Session),
	}
}

// session returns the caller's promo session, creating it on first use.
func (s *PromoService) session(userID string) *promoDomain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = promoDomain.NewSession(s.catalog)
		s.sessions[userID] = sess
	}
	return sess
}

// ApplyPromo validates the code against the catalog and plan, activating it
// for the caller's session on success. Validation failures come back as data.
func (s *PromoService) ApplyPromo(ctx context.Context, userID string, req ApplyPromoRequest) *ApplyResultDTO {
	result := s.session(userID).Apply(req.Code, req.Plan)

	dto := &ApplyResultDTO{Valid: result.Valid, Message: result.Message}
	if result.Valid {
		dto.Discount = result.Discount
		dto.DiscountDuration = string(result.Duration)
		dto.PromoDetails = toPromoDTO(result.Promo)
		s.logger.Info("promo applied",
			zap.String("user_id", userID),
			zap.String("code", result.Promo.Code()),
			zap.String("plan", req.Plan),
		)
	}
	return dto
}

// RemovePromo clears the caller's active promo unconditionally.
func (s *PromoService) RemovePromo(ctx context.Context, userID string) {
	s.session(userID).Remove()
}

// QuotePrice prices the named plan through the caller's active promo.
func (s *PromoService) QuotePrice(ctx context.Context, userID, planName string) (*PriceQuoteDTO, error) {
	p, ok := plan.Find(planName)
	if !ok {
		return nil, domain.NewNotFoundError("plan")
	}

	sess := s.session(userID)
	quote := &PriceQuoteDTO{
		Plan:            p.Name,
		OriginalPrice:   p.Price,
		DiscountedPrice: sess.DiscountedPrice(p.Price),
		Currency:        p.Currency,
	}
	if active := sess.Active(); active != nil {
		quote.ActiveCode = active.Code()
	}
	return quote, nil
}

// CreatePromo persists a new catalog entry and makes it immediately
// available to lookups (admin).
func (s *PromoService) CreatePromo(ctx context.Context, req CreatePromoRequest) (*PromoDTO, error) {
	p, err := promoDomain.NewPromoCode(
		req.Code,
		promoDomain.DiscountType(req.DiscountType),
		req.DiscountValue,
		req.Tiers,
		promoDomain.Duration(req.Duration),
		req.DurationValue,
		req.Rules,
	)
	if err != nil {
		return nil, domain.NewInvalidArgumentError(err.Error())
	}
	if _, exists := s.catalog.Lookup(p.Code()); exists {
		return nil, &domain.DomainError{Err: domain.ErrConflict, Message: fmt.Sprintf("promo code %s already exists", p.Code())}
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save promo: %w", err)
	}
	s.catalog.Put(p)

	s.logger.Info("promo code created", zap.String("code", p.Code()))
	return toPromoDTO(p), nil
}

// DisablePromo flips the kill switch on a catalog entry (admin).
func (s *PromoService) DisablePromo(ctx context.Context, code string) error {
	if _, ok := s.catalog.Lookup(code); !ok {
		return domain.NewNotFoundError("promo code")
	}
	if err := s.repo.SetValidity(ctx, code, false); err != nil {
		return fmt.Errorf("failed to persist kill switch: %w", err)
	}
	s.catalog.Disable(code)
	s.logger.Info("promo code disabled", zap.String("code", code))
	return nil
}

// ListPromos returns every catalog entry (admin).
func (s *PromoService) ListPromos(ctx context.Context) []*PromoDTO {
	entries := s.catalog.All()
	dtos := make([]*PromoDTO, len(entries))
	for i, p := range entries {
		dtos[i] = toPromoDTO(p)
	}
	return dtos
}

func toPromoDTO(p *promoDomain.PromoCode) *PromoDTO {
	return &PromoDTO{
		Code:          p.Code(),
		DiscountType:  string(p.DiscountType()),
		DiscountValue: p.DiscountValue(),
		Tiers:         p.Tiers(),
		Duration:      string(p.Duration()),
		DurationValue: p.DurationValue(),
		IsValid:       p.IsValid(),
		Rules:         p.Rules(),
		CreatedAt:     p.CreatedAt(),
	}
}
