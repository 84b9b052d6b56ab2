package entity

// NetworkKind tells which balance client implementation serves a network.
type NetworkKind string

const (
	NetworkKindEVM     NetworkKind = "evm"
	NetworkKindBitcoin NetworkKind = "bitcoin"
)

// NetworkDefinition describes the chain whose native coin is Currency.
type NetworkDefinition struct {
	ChainID          uint64      `json:"chainId" yaml:"chainId"`
	Name             string      `json:"name" yaml:"name"`
	Identifier       string      `json:"identifier" yaml:"identifier"` // например "ethereum", "bsc"
	Currency         string      `json:"currency" yaml:"currency"`
	Kind             NetworkKind `json:"kind" yaml:"kind"`
	Decimals         int32       `json:"decimals" yaml:"decimals"` // десятичные знаки нативной монеты
	PrimaryRPCURL    string      `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string    `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string      `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
