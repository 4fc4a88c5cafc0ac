package promo

import "context"

// CatalogRepository defines persistence operations for the promo catalog.
// The in-memory Catalog the engine reads is loaded from here at startup.
type CatalogRepository interface {
	Save(ctx context.Context, p *PromoCode) error
	SetValidity(ctx context.Context, code string, valid bool) error
	LoadAll(ctx context.Context) ([]*PromoCode, error)
	Count(ctx context.Context) (int64, error)
}
