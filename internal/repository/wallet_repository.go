package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	walletDomain "github.com/Lumina-Wellness/service-billing/internal/domain/wallet"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletModel is the GORM model for the wallets table.
type WalletModel struct {
	UserID    string    `gorm:"type:varchar(64);primaryKey"`
	Balance   float64   `gorm:"not null;default:0"`
	Currency  string    `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (WalletModel) TableName() string { return "wallets" }

// WalletTransactionModel is the GORM model for the wallet_transactions table.
type WalletTransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:varchar(64);not null;index"`
	Amount      float64   `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(8);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (WalletTransactionModel) TableName() string { return "wallet_transactions" }

// GormWalletRepository implements wallet.Repository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository.
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByUserID returns a wallet by user ID.
func (r *GormWalletRepository) FindByUserID(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	var model WalletModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("wallet")
		}
		return nil, err
	}
	return toWalletDomain(&model), nil
}

// GetOrCreate returns the wallet for userID, inserting a zero-balance default
// as a single statement if absent. The insert ignores conflicts so two racing
// callers both end up reading the same row.
func (r *GormWalletRepository) GetOrCreate(ctx context.Context, userID, currency string) (*walletDomain.Wallet, error) {
	w, err := walletDomain.NewWallet(userID, currency)
	if err != nil {
		return nil, err
	}

	model := toWalletModel(w)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// Credit atomically adds amount to the balance and appends a history row in
// one transaction. The additive SQL update keeps concurrent credits safe.
func (r *GormWalletRepository) Credit(ctx context.Context, userID string, amount float64, currency, description string) (*walletDomain.Wallet, error) {
	if _, err := r.GetOrCreate(ctx, userID, currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := walletDomain.NewTransaction(userID, amount, currency, description)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&WalletModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", amount),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&WalletTransactionModel{
			ID:          txn.ID,
			UserID:      txn.UserID,
			Amount:      txn.Amount,
			Currency:    txn.Currency,
			Description: txn.Description,
			CreatedAt:   txn.CreatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// Transactions returns the most recent history entries, newest first.
func (r *GormWalletRepository) Transactions(ctx context.Context, userID string, limit int) ([]walletDomain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []WalletTransactionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	txns := make([]walletDomain.Transaction, len(models))
	for i, m := range models {
		txns[i] = walletDomain.Transaction{
			ID:          m.ID,
			UserID:      m.UserID,
			Amount:      m.Amount,
			Currency:    m.Currency,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		}
	}
	return txns, nil
}

// Stats returns total held balance and wallet count (admin).
func (r *GormWalletRepository) Stats(ctx context.Context) (float64, int64, error) {
	var total float64
	var count int64
	if err := r.db.WithContext(ctx).Model(&WalletModel{}).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&WalletModel{}).
		Select("COALESCE(SUM(balance), 0)").Scan(&total).Error; err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

func toWalletModel(w *walletDomain.Wallet) WalletModel {
	return WalletModel{
		UserID:    w.UserID(),
		Balance:   w.Balance(),
		Currency:  w.Currency(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}

func toWalletDomain(m *WalletModel) *walletDomain.Wallet {
	return walletDomain.Reconstruct(m.UserID, m.Balance, m.Currency, m.CreatedAt, m.UpdatedAt)
}
