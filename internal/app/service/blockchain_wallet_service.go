package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// blockchainWalletServiceImpl implements port.BlockchainWalletService.
type blockchainWalletServiceImpl struct {
	walletRepo     port.BlockchainWalletRepository
	registry       port.BlockchainClientRegistry
	logger         port.Logger
	maxConcurrency int
}

// NewBlockchainWalletService creates a new instance of blockchainWalletServiceImpl.
func NewBlockchainWalletService(
	walletRepo port.BlockchainWalletRepository,
	registry port.BlockchainClientRegistry,
	logger port.Logger,
	maxConcurrency int,
) port.BlockchainWalletService {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &blockchainWalletServiceImpl{
		walletRepo:     walletRepo,
		registry:       registry,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// AddWallet inserts a wallet unless its address is already tracked by the user,
// then makes one best-effort balance fetch.
func (s *blockchainWalletServiceImpl) AddWallet(ctx context.Context, userID string, wallet entity.NewBlockchainWallet) (entity.AddWalletResult, error) {
	wallet.Currency = strings.ToUpper(wallet.Currency)
	client, err := s.registry.Client(wallet.Currency)
	if err != nil {
		return entity.AddWalletResult{}, err
	}

	exists, err := s.walletRepo.ExistsByUserIDAndAddress(ctx, userID, wallet.WalletAddress)
	if err != nil {
		return entity.AddWalletResult{}, fmt.Errorf("failed to check wallet address: %w", err)
	}
	if exists {
		return entity.AddWalletResult{AlreadyExists: true}, nil
	}

	created := entity.BlockchainWallet{
		ID:            uuid.New(),
		UserID:        userID,
		WalletAddress: wallet.WalletAddress,
		Currency:      wallet.Currency,
		Description:   wallet.Description,
	}
	if err := s.walletRepo.Insert(ctx, created); err != nil {
		if errors.Is(err, entity.ErrDuplicateWalletAddress) {
			return entity.AddWalletResult{AlreadyExists: true}, nil
		}
		return entity.AddWalletResult{}, fmt.Errorf("failed to insert wallet: %w", err)
	}
	s.logger.Info("Blockchain wallet added", "user_id", userID, "wallet_id", created.ID.String(), "currency", created.Currency)

	if balance := s.fetchBalance(ctx, client, created); balance != nil {
		created.Balance = s.storeBalance(ctx, created, *balance)
	}
	return entity.AddWalletResult{Wallet: &created}, nil
}

// AddWallets validates the whole batch first and inserts nothing if any address
// is invalid or already tracked.
func (s *blockchainWalletServiceImpl) AddWallets(ctx context.Context, userID string, wallets []entity.NewBlockchainWallet) (entity.AddWalletsResult, error) {
	result := entity.AddWalletsResult{
		DuplicatedAddresses: []string{},
		InvalidAddresses:    []string{},
		Added:               []entity.BlockchainWallet{},
	}

	seen := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		if !s.isValidAddress(w.Currency, w.WalletAddress) {
			result.InvalidAddresses = append(result.InvalidAddresses, w.WalletAddress)
			continue
		}
		if _, dup := seen[w.WalletAddress]; dup {
			result.DuplicatedAddresses = append(result.DuplicatedAddresses, w.WalletAddress)
			continue
		}
		seen[w.WalletAddress] = struct{}{}

		exists, err := s.walletRepo.ExistsByUserIDAndAddress(ctx, userID, w.WalletAddress)
		if err != nil {
			return entity.AddWalletsResult{}, fmt.Errorf("failed to check wallet address: %w", err)
		}
		if exists {
			result.DuplicatedAddresses = append(result.DuplicatedAddresses, w.WalletAddress)
		}
	}
	if !result.IsSuccessful() {
		s.logger.Warn("Rejected wallet batch",
			"user_id", userID,
			"duplicated", len(result.DuplicatedAddresses),
			"invalid", len(result.InvalidAddresses))
		return result, nil
	}

	for _, w := range wallets {
		added, err := s.AddWallet(ctx, userID, w)
		if err != nil {
			return entity.AddWalletsResult{}, err
		}
		if added.AlreadyExists {
			// lost a race with a concurrent insert
			result.DuplicatedAddresses = append(result.DuplicatedAddresses, w.WalletAddress)
			continue
		}
		result.Added = append(result.Added, *added.Wallet)
	}
	return result, nil
}

// UpdateWallet changes address, currency and description of an owned wallet.
// The duplicate check only runs when the address changes.
func (s *blockchainWalletServiceImpl) UpdateWallet(ctx context.Context, userID string, update entity.BlockchainWalletUpdate) (entity.UpdateWalletResult, error) {
	update.Currency = strings.ToUpper(update.Currency)
	existing, err := s.walletRepo.FindByID(ctx, userID, update.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.UpdateWalletResult{NotFound: true}, nil
	}
	if err != nil {
		return entity.UpdateWalletResult{}, fmt.Errorf("failed to find wallet %s: %w", update.ID, err)
	}

	if !s.isValidAddress(update.Currency, update.WalletAddress) {
		return entity.UpdateWalletResult{InvalidAddress: true}, nil
	}

	addressChanged := existing.WalletAddress != update.WalletAddress
	if addressChanged {
		exists, err := s.walletRepo.ExistsByUserIDAndAddress(ctx, userID, update.WalletAddress)
		if err != nil {
			return entity.UpdateWalletResult{}, fmt.Errorf("failed to check wallet address: %w", err)
		}
		if exists {
			return entity.UpdateWalletResult{AlreadyExists: true}, nil
		}
	}

	updated := *existing
	updated.WalletAddress = update.WalletAddress
	updated.Currency = update.Currency
	updated.Description = update.Description
	if addressChanged || existing.Currency != update.Currency {
		// the stored balance belongs to the old address/currency
		updated.Balance = decimal.NullDecimal{}
	}

	if err := s.walletRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, entity.ErrDuplicateWalletAddress) {
			return entity.UpdateWalletResult{AlreadyExists: true}, nil
		}
		if errors.Is(err, entity.ErrNotFound) {
			return entity.UpdateWalletResult{NotFound: true}, nil
		}
		return entity.UpdateWalletResult{}, fmt.Errorf("failed to update wallet %s: %w", update.ID, err)
	}

	client, err := s.registry.Client(updated.Currency)
	if err != nil {
		return entity.UpdateWalletResult{}, err
	}
	if balance := s.fetchBalance(ctx, client, updated); balance != nil {
		updated.Balance = s.storeBalance(ctx, updated, *balance)
	}
	return entity.UpdateWalletResult{Wallet: &updated}, nil
}

// GetWallets returns every wallet owned by the user.
func (s *blockchainWalletServiceImpl) GetWallets(ctx context.Context, userID string) ([]entity.BlockchainWallet, error) {
	wallets, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// GetWallet returns nil when the wallet is missing or owned by someone else.
func (s *blockchainWalletServiceImpl) GetWallet(ctx context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error) {
	wallet, err := s.walletRepo.FindByID(ctx, userID, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", id, err)
	}
	return wallet, nil
}

func (s *blockchainWalletServiceImpl) DeleteWalletByAddress(ctx context.Context, userID, walletAddress string) (bool, error) {
	deleted, err := s.walletRepo.DeleteByUserIDAndAddress(ctx, userID, walletAddress)
	if err != nil {
		return false, fmt.Errorf("failed to delete wallet: %w", err)
	}
	return deleted, nil
}

func (s *blockchainWalletServiceImpl) DeleteWalletByID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	deleted, err := s.walletRepo.DeleteByUserIDAndID(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete wallet %s: %w", id, err)
	}
	return deleted, nil
}

// RefreshWalletBalances refetches every wallet of the user. A wallet whose fetch
// fails keeps its stored balance; an unregistered currency aborts the whole call.
func (s *blockchainWalletServiceImpl) RefreshWalletBalances(ctx context.Context, userID string) error {
	wallets, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list wallets: %w", err)
	}

	clients := make([]port.BlockchainBalanceClient, len(wallets))
	for i, w := range wallets {
		client, err := s.registry.Client(w.Currency)
		if err != nil {
			s.logger.Error("Wallet currency has no blockchain client", "wallet_id", w.ID.String(), "currency", w.Currency)
			return err
		}
		clients[i] = client
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrency)
	for i, w := range wallets {
		client := clients[i]
		eg.Go(func() error {
			balance := s.fetchBalance(egCtx, client, w)
			if balance == nil {
				return nil
			}
			if err := s.walletRepo.UpdateBalance(egCtx, w.ID, *balance); err != nil {
				return fmt.Errorf("failed to store balance of wallet %s: %w", w.ID, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	s.logger.Info("Blockchain wallet balances refreshed", "user_id", userID, "wallets", len(wallets))
	return nil
}

func (s *blockchainWalletServiceImpl) SupportedCurrencies() []string {
	return s.registry.SupportedCurrencies()
}

func (s *blockchainWalletServiceImpl) isValidAddress(currency, walletAddress string) bool {
	if walletAddress == "" || !s.registry.IsSupported(currency) {
		return false
	}
	client, err := s.registry.Client(currency)
	if err != nil {
		return false
	}
	return client.IsValidAddress(walletAddress)
}

// fetchBalance returns nil when the client fails or has no result for the address.
func (s *blockchainWalletServiceImpl) fetchBalance(ctx context.Context, client port.BlockchainBalanceClient, wallet entity.BlockchainWallet) *decimal.Decimal {
	balance, err := client.GetBalance(ctx, wallet.WalletAddress)
	if err != nil {
		metrics.WalletBalanceRefreshes.WithLabelValues("blockchain", "error").Inc()
		s.logger.Warn("Failed to fetch wallet balance",
			"wallet_id", wallet.ID.String(),
			"currency", wallet.Currency,
			"error", err)
		return nil
	}
	if balance == nil {
		metrics.WalletBalanceRefreshes.WithLabelValues("blockchain", "empty").Inc()
		s.logger.Warn("Blockchain client returned no balance", "wallet_id", wallet.ID.String(), "currency", wallet.Currency)
		return nil
	}
	metrics.WalletBalanceRefreshes.WithLabelValues("blockchain", "success").Inc()
	return balance
}

// storeBalance persists a fetched balance. Failure is logged and leaves the balance unknown.
func (s *blockchainWalletServiceImpl) storeBalance(ctx context.Context, wallet entity.BlockchainWallet, balance decimal.Decimal) decimal.NullDecimal {
	if err := s.walletRepo.UpdateBalance(ctx, wallet.ID, balance); err != nil {
		s.logger.Error("Failed to store wallet balance", "wallet_id", wallet.ID.String(), "error", err)
		return wallet.Balance
	}
	return decimal.NewNullDecimal(balance)
}
