package provider

import (
	"fmt"
	"sort"
	"strings"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
)

type blockchainClientRegistryImpl struct {
	clients map[string]port.BlockchainBalanceClient // Key: upper-case currency code
	logger  port.Logger
}

// NewBlockchainClientRegistry indexes clients by their currency. Registering two
// clients for one currency is a configuration error.
func NewBlockchainClientRegistry(clients []port.BlockchainBalanceClient, logger port.Logger) (port.BlockchainClientRegistry, error) {
	r := &blockchainClientRegistryImpl{
		clients: make(map[string]port.BlockchainBalanceClient, len(clients)),
		logger:  logger,
	}
	for _, c := range clients {
		currency := strings.ToUpper(c.Currency())
		if _, exists := r.clients[currency]; exists {
			return nil, fmt.Errorf("blockchain client for %s registered twice", currency)
		}
		r.clients[currency] = c
	}
	logger.Info("Blockchain client registry initialized", "currencies", r.SupportedCurrencies())
	return r, nil
}

// Client returns the balance client for currency.
func (r *blockchainClientRegistryImpl) Client(currency string) (port.BlockchainBalanceClient, error) {
	c, ok := r.clients[strings.ToUpper(currency)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoBlockchainClient, currency)
	}
	return c, nil
}

func (r *blockchainClientRegistryImpl) IsSupported(currency string) bool {
	_, ok := r.clients[strings.ToUpper(currency)]
	return ok
}

// SupportedCurrencies returns registered currencies sorted alphabetically.
func (r *blockchainClientRegistryImpl) SupportedCurrencies() []string {
	currencies := make([]string, 0, len(r.clients))
	for currency := range r.clients {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	return currencies
}
