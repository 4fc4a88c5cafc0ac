package wallet

import "context"

// Repository defines the persistence contract for wallets. Implementations
// run in a genuinely concurrent environment, so the two compound operations
// carry explicit atomicity requirements.
type Repository interface {
	// FindByUserID retrieves a wallet, or domain.ErrNotFound.
	FindByUserID(ctx context.Context, userID string) (*Wallet, error)

	// GetOrCreate returns the wallet for userID, creating and persisting a
	// zero-balance default as a single logical step if absent.
	GetOrCreate(ctx context.Context, userID, currency string) (*Wallet, error)

	// Credit atomically adds amount to the wallet's balance and appends a
	// history entry in the same transaction. The wallet is created first if
	// absent. Returns the updated wallet.
	Credit(ctx context.Context, userID string, amount float64, currency, description string) (*Wallet, error)

	// Transactions returns the most recent history entries, newest first.
	Transactions(ctx context.Context, userID string, limit int) ([]Transaction, error)

	// Stats returns the total balance held across all wallets and the wallet
	// count (admin).
	Stats(ctx context.Context) (totalBalance float64, count int64, err error)
}
