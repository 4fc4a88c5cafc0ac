package repository

import (
	"context"
	"encoding/json"
	"time"

	promoDomain "github.com/Lumina-Wellness/service-billing/internal/domain/promo"
	"gorm.io/gorm"
)

// PromoModel is the GORM model for the promo_codes table. Tiers are stored
// as a JSON array.
type PromoModel struct {
	Code          string    `gorm:"type:varchar(50);primaryKey"`
	DiscountType  string    `gorm:"type:varchar(20);not null"`
	DiscountValue float64   `gorm:"not null"`
	Tiers         string    `gorm:"type:text;not null"`
	Duration      string    `gorm:"type:varchar(20);not null"`
	DurationValue int       `gorm:"default:0"`
	IsValid       bool      `gorm:"not null;default:true"`
	Rules         string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PromoModel) TableName() string { return "promo_codes" }

// GormPromoRepository implements promo.CatalogRepository using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GormPromoRepository.
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// Save persists a new catalog entry.
func (r *GormPromoRepository) Save(ctx context.Context, p *promoDomain.PromoCode) error {
	model, err := toPromoModel(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// SetValidity flips the kill switch on a stored entry.
func (r *GormPromoRepository) SetValidity(ctx context.Context, code string, valid bool) error {
	return r.db.WithContext(ctx).Model(&PromoModel{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{"is_valid": valid, "updated_at": time.Now().UTC()}).Error
}

// LoadAll returns every stored entry.
func (r *GormPromoRepository) LoadAll(ctx context.Context) ([]*promoDomain.PromoCode, error) {
	var models []PromoModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	promos := make([]*promoDomain.PromoCode, 0, len(models))
	for i := range models {
		p, err := toPromoDomain(&models[i])
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, nil
}

// Count returns the number of stored entries.
func (r *GormPromoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PromoModel{}).Count(&count).Error
	return count, err
}

// Seed inserts the given entries when the table is empty.
func (r *GormPromoRepository) Seed(ctx context.Context, entries []*promoDomain.PromoCode) error {
	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, p := range entries {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func toPromoModel(p *promoDomain.PromoCode) (PromoModel, error) {
	tiers, err := json.Marshal(p.Tiers())
	if err != nil {
		return PromoModel{}, err
	}
	return PromoModel{
		Code:          p.Code(),
		DiscountType:  string(p.DiscountType()),
		DiscountValue: p.DiscountValue(),
		Tiers:         string(tiers),
		Duration:      string(p.Duration()),
		DurationValue: p.DurationValue(),
		IsValid:       p.IsValid(),
		Rules:         p.Rules(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}, nil
}

func toPromoDomain(m *PromoModel) (*promoDomain.PromoCode, error) {
	var tiers []string
	if err := json.Unmarshal([]byte(m.Tiers), &tiers); err != nil {
		return nil, err
	}
	return promoDomain.Reconstruct(
		m.Code, promoDomain.DiscountType(m.DiscountType), m.DiscountValue,
		tiers, promoDomain.Duration(m.Duration), m.DurationValue,
		m.IsValid, m.Rules, m.CreatedAt, m.UpdatedAt,
	), nil
}
