package networkdefinition

import (
	"fmt"
	"sort"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider resolves configured currencies to network definitions.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition // Key: currency code
	activeNetworkDefs []entity.NetworkDefinition
}

// Predefined network definitions, one per native currency.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		Currency:         "ETH",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		Currency:         "BNB",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		Currency:         "MATIC",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		Currency:         "AVAX",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:  []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		BlockExplorerURL: "https://snowtrace.io",
	}
	Fantom = entity.NetworkDefinition{
		ChainID:          250,
		Name:             "Fantom Opera",
		Identifier:       "fantom",
		Currency:         "FTM",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/ftm",
		FallbackRPCURLs:  []string{"https://fantom.publicnode.com", "https://rpc.ankr.com/fantom"},
		BlockExplorerURL: "https://ftmscan.com",
	}
	Celo = entity.NetworkDefinition{
		ChainID:          42220,
		Name:             "Celo Mainnet",
		Identifier:       "celo",
		Currency:         "CELO",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://rpc.ankr.com/celo",
		BlockExplorerURL: "https://celoscan.io",
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:          100,
		Name:             "Gnosis Chain",
		Identifier:       "gnosis",
		Currency:         "XDAI",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://0xrpc.io/gno",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/gnosis", "https://gnosis.publicnode.com"},
		BlockExplorerURL: "https://gnosisscan.io",
	}
	Mantle = entity.NetworkDefinition{
		ChainID:          5000,
		Name:             "Mantle Network",
		Identifier:       "mantle",
		Currency:         "MNT",
		Kind:             entity.NetworkKindEVM,
		Decimals:         18,
		PrimaryRPCURL:    "https://rpc.mantle.xyz",
		BlockExplorerURL: "https://explorer.mantle.xyz",
	}
	Bitcoin = entity.NetworkDefinition{
		Name:             "Bitcoin",
		Identifier:       "bitcoin",
		Currency:         "BTC",
		Kind:             entity.NetworkKindBitcoin,
		Decimals:         8,
		BlockExplorerURL: "https://blockchain.info",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Ethereum.Currency:  Ethereum,
	BSC.Currency:       BSC,
	Polygon.Currency:   Polygon,
	Avalanche.Currency: Avalanche,
	Fantom.Currency:    Fantom,
	Celo.Currency:      Celo,
	Gnosis.Currency:    Gnosis,
	Mantle.Currency:    Mantle,
	Bitcoin.Currency:   Bitcoin,
}

// NewNetworkDefinitionProvider activates the configured currencies. RPC URLs from
// config replace the built-in ones. An unknown currency is a configuration error.
func NewNetworkDefinitionProvider(log port.Logger, cfg configloader.BlockchainConfig) (*NetworkDefinitionProvider, error) {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    allKnownDefinitions,
		activeNetworkDefs: make([]entity.NetworkDefinition, 0, len(cfg.Currencies)),
	}

	for _, c := range cfg.Currencies {
		def, ok := p.allNetworkDefs[c.Currency]
		if !ok {
			return nil, fmt.Errorf("no network definition for currency %s, known: %v", c.Currency, KnownCurrencies())
		}
		if c.RPCURL != "" {
			def.PrimaryRPCURL = c.RPCURL
			def.FallbackRPCURLs = c.FallbackRPCURLs
		} else if len(c.FallbackRPCURLs) > 0 {
			def.FallbackRPCURLs = c.FallbackRPCURLs
		}
		p.activeNetworkDefs = append(p.activeNetworkDefs, def)
		p.logger.Debug(fmt.Sprintf("  - Active network: %s (currency: %s, kind: %s)", def.Name, def.Currency, def.Kind))
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Active networks: %d", len(p.activeNetworkDefs)))
	return p, nil
}

// GetAllNetworkDefinitions returns the list of active network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.activeNetworkDefs))
	copy(defsCopy, p.activeNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByCurrency returns an active network definition by its currency code.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByCurrency(currency string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.activeNetworkDefs {
		if def.Currency == currency {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// KnownCurrencies lists every currency with a built-in definition.
func KnownCurrencies() []string {
	currencies := make([]string, 0, len(allKnownDefinitions))
	for c := range allKnownDefinitions {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	return currencies
}
