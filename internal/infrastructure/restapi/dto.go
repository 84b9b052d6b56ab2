package restapi

import (
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every failed request without a more specific shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CurrencyBalanceSummaryDTO is the wire shape of entity.CurrencyBalanceSummary.
// Decimals are strings with trailing zeros stripped.
type CurrencyBalanceSummaryDTO struct {
	Currency               string                               `json:"currency"`
	TotalBalance           *string                              `json:"totalBalance"`
	PriceInUSD             *string                              `json:"priceInUsd"`
	ValueInUSD             *string                              `json:"valueInUsd"`
	ExchangeBreakdown      []ExchangeCurrencySummaryDTO         `json:"exchangeBreakdown"`
	WalletBreakdown        []BlockchainWalletCurrencySummaryDTO `json:"walletBreakdown"`
	CurrencyAssetBreakdown []CurrencyAssetSummaryDTO            `json:"currencyAssetBreakdown"`
}

type ExchangeCurrencySummaryDTO struct {
	ExchangeName   string  `json:"exchangeName"`
	ExchangeUserID string  `json:"exchangeUserId"`
	Balance        string  `json:"balance"`
	ValueInUSD     *string `json:"valueInUsd"`
}

type BlockchainWalletCurrencySummaryDTO struct {
	WalletAddress string  `json:"walletAddress"`
	Description   *string `json:"description"`
	Balance       *string `json:"balance"`
	ValueInUSD    *string `json:"valueInUsd"`
}

type CurrencyAssetSummaryDTO struct {
	Description *string `json:"description"`
	Balance     string  `json:"balance"`
	ValueInUSD  *string `json:"valueInUsd"`
}

// BlockchainWalletDTO is the wire shape of entity.BlockchainWallet.
type BlockchainWalletDTO struct {
	ID            string  `json:"id"`
	WalletAddress string  `json:"walletAddress"`
	Currency      string  `json:"currency"`
	Balance       *string `json:"balance"`
	Description   *string `json:"description"`
}

// AddBlockchainWalletRequest is one entry of the batch add body.
type AddBlockchainWalletRequest struct {
	WalletAddress string  `json:"walletAddress" binding:"required"`
	Currency      string  `json:"currency" binding:"required"`
	Description   *string `json:"description"`
}

// AddBlockchainWalletsErrorResponse lists every rejected address of a batch.
type AddBlockchainWalletsErrorResponse struct {
	DuplicatedAddresses []string `json:"duplicatedAddresses"`
	InvalidAddresses    []string `json:"invalidAddresses"`
}

// UpdateBlockchainWalletRequest is the body of PUT /blockchain/wallet.
type UpdateBlockchainWalletRequest struct {
	ID            string  `json:"id" binding:"required"`
	WalletAddress string  `json:"walletAddress" binding:"required"`
	Currency      string  `json:"currency" binding:"required"`
	Description   *string `json:"description"`
}

// UpdateBlockchainWalletErrorResponse flags why an update was rejected.
type UpdateBlockchainWalletErrorResponse struct {
	IsAddressDuplicated bool `json:"isAddressDuplicated"`
	IsAddressInvalid    bool `json:"isAddressInvalid"`
	IsIDInvalid         bool `json:"isIdInvalid"`
}

// ExchangeUserWalletBalancesDTO is one exchange account with its exchanges.
type ExchangeUserWalletBalancesDTO struct {
	ExchangeUserID    string                      `json:"exchangeUserId"`
	ExchangeUserName  string                      `json:"exchangeUserName"`
	RefreshTimeMillis int64                       `json:"refreshTimeMillis"`
	Exchanges         []ExchangeWalletBalancesDTO `json:"exchanges"`
}

type ExchangeWalletBalancesDTO struct {
	ExchangeName     string                     `json:"exchangeName"`
	ErrorMessage     *string                    `json:"errorMessage"`
	CurrencyBalances []ExchangeCurrencyValueDTO `json:"currencyBalances"`
}

type ExchangeCurrencyValueDTO struct {
	CurrencyCode    string  `json:"currencyCode"`
	Balance         string  `json:"balance"`
	AmountAvailable string  `json:"amountAvailable"`
	AmountInOrders  string  `json:"amountInOrders"`
	PriceInUSD      *string `json:"priceInUsd"`
	ValueInUSD      *string `json:"valueInUsd"`
}

// CurrencyAssetRequest is the body for adding or updating a currency asset.
type CurrencyAssetRequest struct {
	Currency    string  `json:"currency" binding:"required"`
	Balance     string  `json:"balance" binding:"required"`
	Description *string `json:"description"`
}

// CurrencyAssetDTO is a currency asset valued in USD.
type CurrencyAssetDTO struct {
	ID          string  `json:"id"`
	Currency    string  `json:"currency"`
	Balance     string  `json:"balance"`
	Description *string `json:"description"`
	PriceInUSD  *string `json:"priceInUsd"`
	ValueInUSD  *string `json:"valueInUsd"`
}

// CurrencyPriceDTO is the wire shape of entity.CurrencyPrice.
type CurrencyPriceDTO struct {
	BaseCurrency    string `json:"baseCurrency"`
	CounterCurrency string `json:"counterCurrency"`
	Price           string `json:"price"`
	AsOfMillis      int64  `json:"asOfMillis"`
}

func toSummaryDTOs(summaries []entity.CurrencyBalanceSummary) []CurrencyBalanceSummaryDTO {
	result := make([]CurrencyBalanceSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := CurrencyBalanceSummaryDTO{
			Currency:               s.Currency,
			TotalBalance:           utils.NullDecimalString(s.TotalBalance),
			PriceInUSD:             utils.NullDecimalString(s.PriceInUSD),
			ValueInUSD:             utils.NullDecimalString(s.ValueInUSD),
			ExchangeBreakdown:      make([]ExchangeCurrencySummaryDTO, 0, len(s.ExchangeBreakdown)),
			WalletBreakdown:        make([]BlockchainWalletCurrencySummaryDTO, 0, len(s.WalletBreakdown)),
			CurrencyAssetBreakdown: make([]CurrencyAssetSummaryDTO, 0, len(s.CurrencyAssetBreakdown)),
		}
		for _, e := range s.ExchangeBreakdown {
			dto.ExchangeBreakdown = append(dto.ExchangeBreakdown, ExchangeCurrencySummaryDTO{
				ExchangeName:   e.ExchangeName,
				ExchangeUserID: e.ExchangeUserID,
				Balance:        e.Balance.String(),
				ValueInUSD:     utils.NullDecimalString(e.ValueInUSD),
			})
		}
		for _, w := range s.WalletBreakdown {
			dto.WalletBreakdown = append(dto.WalletBreakdown, BlockchainWalletCurrencySummaryDTO{
				WalletAddress: w.WalletAddress,
				Description:   w.Description,
				Balance:       utils.NullDecimalString(w.Balance),
				ValueInUSD:    utils.NullDecimalString(w.ValueInUSD),
			})
		}
		for _, a := range s.CurrencyAssetBreakdown {
			dto.CurrencyAssetBreakdown = append(dto.CurrencyAssetBreakdown, CurrencyAssetSummaryDTO{
				Description: a.Description,
				Balance:     a.Balance.String(),
				ValueInUSD:  utils.NullDecimalString(a.ValueInUSD),
			})
		}
		result = append(result, dto)
	}
	return result
}

func toWalletDTO(w entity.BlockchainWallet) BlockchainWalletDTO {
	return BlockchainWalletDTO{
		ID:            w.ID.String(),
		WalletAddress: w.WalletAddress,
		Currency:      w.Currency,
		Balance:       utils.NullDecimalString(w.Balance),
		Description:   w.Description,
	}
}

func toWalletDTOs(wallets []entity.BlockchainWallet) []BlockchainWalletDTO {
	result := make([]BlockchainWalletDTO, 0, len(wallets))
	for _, w := range wallets {
		result = append(result, toWalletDTO(w))
	}
	return result
}

func toExchangeBalancesDTOs(accounts []entity.ExchangeUserWalletBalances) []ExchangeUserWalletBalancesDTO {
	result := make([]ExchangeUserWalletBalancesDTO, 0, len(accounts))
	for _, a := range accounts {
		account := ExchangeUserWalletBalancesDTO{
			ExchangeUserID:    a.ExchangeUserID,
			ExchangeUserName:  a.ExchangeUserName,
			RefreshTimeMillis: a.RefreshTimeMillis,
			Exchanges:         make([]ExchangeWalletBalancesDTO, 0, len(a.Exchanges)),
		}
		for _, e := range a.Exchanges {
			exchange := ExchangeWalletBalancesDTO{
				ExchangeName:     e.ExchangeName,
				ErrorMessage:     e.ErrorMessage,
				CurrencyBalances: make([]ExchangeCurrencyValueDTO, 0, len(e.CurrencyBalances)),
			}
			for _, b := range e.CurrencyBalances {
				exchange.CurrencyBalances = append(exchange.CurrencyBalances, ExchangeCurrencyValueDTO{
					CurrencyCode:    b.CurrencyCode,
					Balance:         b.Balance.String(),
					AmountAvailable: b.AmountAvailable.String(),
					AmountInOrders:  b.AmountInOrders.String(),
					PriceInUSD:      utils.NullDecimalString(b.PriceInUSD),
					ValueInUSD:      utils.NullDecimalString(b.ValueInUSD),
				})
			}
			account.Exchanges = append(account.Exchanges, exchange)
		}
		result = append(result, account)
	}
	return result
}

func toAssetDTO(a entity.UserCurrencyAssetWithValue) CurrencyAssetDTO {
	return CurrencyAssetDTO{
		ID:          a.ID.String(),
		Currency:    a.Currency,
		Balance:     a.Balance.String(),
		Description: a.Description,
		PriceInUSD:  utils.NullDecimalString(a.PriceInUSD),
		ValueInUSD:  utils.NullDecimalString(a.ValueInUSD),
	}
}

// toNewAsset validates a request body. Currency must be non-empty and balance a decimal.
func (r CurrencyAssetRequest) toNewAsset() (entity.NewCurrencyAsset, bool) {
	if r.Currency == "" {
		return entity.NewCurrencyAsset{}, false
	}
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return entity.NewCurrencyAsset{}, false
	}
	return entity.NewCurrencyAsset{
		Currency:    r.Currency,
		Balance:     balance,
		Description: r.Description,
	}, true
}
