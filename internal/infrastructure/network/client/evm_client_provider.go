package client

import (
	"fmt"
	"sync"
	"time"

	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/configloader"

	"go.uber.org/zap"
)

// EVMClientProvider dials and caches one EVMBalanceClient per currency.
type EVMClientProvider struct {
	clients           map[string]*EVMBalanceClient
	mu                sync.Mutex
	logger            *zap.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg configloader.BlockchainConfig, logger *zap.Logger) *EVMClientProvider {
	return &EVMClientProvider{
		clients:           make(map[string]*EVMBalanceClient),
		logger:            logger.Named("EVMClientProvider"),
		connectionTimeout: time.Duration(cfg.ConnectionTimeoutSeconds) * time.Second,
		rpcCallTimeout:    time.Duration(cfg.RPCCallTimeoutSeconds) * time.Second,
	}
}

// GetClient retrieves the balance client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *EVMClientProvider) GetClient(netDef entity.NetworkDefinition) (*EVMBalanceClient, error) {
	if netDef.Kind != entity.NetworkKindEVM {
		return nil, fmt.Errorf("network %s is not EVM-compatible", netDef.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.Currency]; exists {
		p.logger.Debug("Returning cached EVM client", zap.String("network", netDef.Name))
		return client, nil
	}

	p.logger.Info("Creating new EVM client", zap.String("network", netDef.Name), zap.String("rpc_primary", netDef.PrimaryRPCURL))
	newClient, err := NewEVMBalanceClient(netDef, p.connectionTimeout, p.rpcCallTimeout, p.logger)
	if err != nil {
		p.logger.Error("Failed to create EVM client", zap.String("network", netDef.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.Currency] = newClient
	return newClient, nil
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for currency, c := range p.clients {
		c.Close()
		delete(p.clients, currency)
	}
}
