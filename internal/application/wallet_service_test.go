package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	walletDomain "github.com/Lumina-Wellness/service-billing/internal/domain/wallet"
	"github.com/Lumina-Wellness/service-billing/internal/events"
	"github.com/Lumina-Wellness/service-billing/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeWalletRepo is an in-memory wallet.Repository.
type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[string]*walletDomain.Wallet
	history map[string][]walletDomain.Transaction
	failAll bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets: make(map[string]*walletDomain.Wallet),
		history: make(map[string][]walletDomain.Transaction),
	}
}

func (r *fakeWalletRepo) FindByUserID(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("store unavailable")
	}
	w, ok := r.wallets[userID]
	if !ok {
		return nil, domain.NewNotFoundError("wallet")
	}
	return w, nil
}

func (r *fakeWalletRepo) GetOrCreate(ctx context.Context, userID, currency string) (*walletDomain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("store unavailable")
	}
	if w, ok := r.wallets[userID]; ok {
		return w, nil
	}
	w, err := walletDomain.NewWallet(userID, currency)
	if err != nil {
		return nil, err
	}
	r.wallets[userID] = w
	return w, nil
}

func (r *fakeWalletRepo) Credit(ctx context.Context, userID string, amount float64, currency, description string) (*walletDomain.Wallet, error) {
	w, err := r.GetOrCreate(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := w.Credit(amount); err != nil {
		return nil, err
	}
	r.history[userID] = append(r.history[userID], walletDomain.NewTransaction(userID, amount, currency, description))
	return w, nil
}

func (r *fakeWalletRepo) Transactions(ctx context.Context, userID string, limit int) ([]walletDomain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txns := r.history[userID]
	out := make([]walletDomain.Transaction, 0, len(txns))
	for i := len(txns) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, txns[i])
	}
	return out, nil
}

func (r *fakeWalletRepo) Stats(ctx context.Context) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, w := range r.wallets {
		total += w.Balance()
	}
	return total, int64(len(r.wallets)), nil
}

// fakePublisher records published CloudEvents.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ce)
	return nil
}

func (p *fakePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, ce := range p.events {
		types[i] = ce.Type
	}
	return types
}

func newWalletService(repo walletDomain.Repository, pub EventPublisher) *WalletService {
	return NewWalletService(repo, pub, "USD", zap.NewNop())
}

func TestGetBalance_LazyCreate(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	first := svc.GetBalance(context.Background(), "new-user")
	assert.Equal(t, float64(0), first.Balance)
	assert.Equal(t, "USD", first.Currency)

	// The default record was persisted: a second read sees the same record,
	// it is not re-defaulted.
	w, err := repo.FindByUserID(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, float64(0), w.Balance())

	second := svc.GetBalance(context.Background(), "new-user")
	assert.Equal(t, first.UserID, second.UserID)
}

func TestGetBalance_DegradesOnStoreFailure(t *testing.T) {
	repo := newFakeWalletRepo()
	repo.failAll = true
	svc := newWalletService(repo, &fakePublisher{})

	dto := svc.GetBalance(context.Background(), "user-1")
	assert.Equal(t, float64(0), dto.Balance)
	assert.Equal(t, "USD", dto.Currency)
}

func TestAddFunds_ReadYourWrites(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "user-1", 100, "USD", "Top up")
	require.NoError(t, err)

	dto := svc.GetBalance(context.Background(), "user-1")
	assert.Equal(t, float64(100), dto.Balance)
}

func TestAddFunds_NotIdempotent(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "user-1", 100, "USD", "Top up")
	require.NoError(t, err)
	_, err = svc.AddFunds(context.Background(), "user-1", 100, "USD", "Top up")
	require.NoError(t, err)

	dto := svc.GetBalance(context.Background(), "user-1")
	assert.Equal(t, float64(200), dto.Balance)
}

func TestAddFunds_RejectsNonPositiveAmount(t *testing.T) {
	svc := newWalletService(newFakeWalletRepo(), &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "user-1", 0, "USD", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.AddFunds(context.Background(), "user-1", -5, "USD", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAddFunds_RejectsEmptyUserID(t *testing.T) {
	svc := newWalletService(newFakeWalletRepo(), &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "", 10, "USD", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAddFunds_PublishesBalanceChangedBroadcast(t *testing.T) {
	pub := &fakePublisher{}
	svc := newWalletService(newFakeWalletRepo(), pub)

	_, err := svc.AddFunds(context.Background(), "user-1", 50, "USD", "Top up")
	require.NoError(t, err)

	types := pub.typesSeen()
	require.Len(t, types, 2)
	assert.Equal(t, events.WalletFundsAdded, types[0])
	assert.Equal(t, events.WalletBalanceChanged, types[1])

	var added events.FundsAddedEvent
	require.NoError(t, pub.events[0].ParseData(&added))
	assert.Equal(t, "user-1", added.UserID)
	assert.Equal(t, float64(50), added.Amount)
	assert.Equal(t, float64(50), added.Balance)
}

func TestAddFunds_StoreFailureSurfacesError(t *testing.T) {
	repo := newFakeWalletRepo()
	repo.failAll = true
	pub := &fakePublisher{}
	svc := newWalletService(repo, pub)

	_, err := svc.AddFunds(context.Background(), "user-1", 100, "USD", "Top up")
	assert.Error(t, err)
	assert.Empty(t, pub.typesSeen(), "no events on failed credit")
}

func TestAddFundsFromPayment(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	err := svc.AddFundsFromPayment(context.Background(), events.PaymentSucceededEvent{
		PaymentID:  "pay_123",
		UserID:     "user-1",
		Amount:     9.99,
		Currency:   "USD",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	dto := svc.GetBalance(context.Background(), "user-1")
	assert.InDelta(t, 9.99, dto.Balance, 1e-9)

	txns, err := svc.GetTransactions(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Contains(t, txns[0].Description, "pay_123")
}

func TestGetTransactions_NewestFirst(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "user-1", 10, "USD", "first")
	require.NoError(t, err)
	_, err = svc.AddFunds(context.Background(), "user-1", 20, "USD", "second")
	require.NoError(t, err)

	txns, err := svc.GetTransactions(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "second", txns[0].Description)
	assert.Equal(t, "first", txns[1].Description)
}

func TestPublish_LogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	pub := &fakePublisher{}
	svc := NewWalletService(newFakeWalletRepo(), pub, "USD", zap.New(core))

	// A func payload cannot be marshalled to JSON.
	svc.publish(context.Background(), "billing.wallet.funds_added", func() {})

	assert.Empty(t, pub.typesSeen())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "encode")
}

func TestGetStats(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := newWalletService(repo, &fakePublisher{})

	_, err := svc.AddFunds(context.Background(), "a", 10, "USD", "")
	require.NoError(t, err)
	_, err = svc.AddFunds(context.Background(), "b", 30, "USD", "")
	require.NoError(t, err)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(40), stats.TotalBalance)
	assert.Equal(t, int64(2), stats.WalletCount)
}
