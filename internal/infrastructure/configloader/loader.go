package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// DBConfig holds database-specific configurations.
type DBConfig struct {
	URL                   string `yaml:"url"`
	MaxConns              int32  `yaml:"maxConns"`
	MinConns              int32  `yaml:"minConns"`
	ConnectTimeoutSeconds int    `yaml:"connectTimeoutSeconds"`
	ApplySchema           bool   `yaml:"applySchema"`
}

// RepositoryConfig selects the storage backend.
type RepositoryConfig struct {
	UseInMemory bool `yaml:"useInMemory"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level      string `yaml:"level"` // "debug", "info", "warn", "error"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// PriceServiceConfig holds configuration for the price API client and the price cache.
type PriceServiceConfig struct {
	BaseURL                string  `yaml:"baseURL"`
	APIKey                 string  `yaml:"apiKey"`
	RequestTimeoutMillis   int64   `yaml:"requestTimeoutMillis"`
	SuccessTTLMinutes      int     `yaml:"successTTLMinutes"`
	FailureTTLMinutes      int     `yaml:"failureTTLMinutes"`
	RefreshAfterMinutes    int     `yaml:"refreshAfterMinutes"`
	CleanupIntervalMinutes int     `yaml:"cleanupIntervalMinutes"`
	RefreshIntervalMinutes int     `yaml:"refreshIntervalMinutes"`
	CounterCurrency        string  `yaml:"counterCurrency"`
	RateLimitPerSecond     float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst         int     `yaml:"rateLimitBurst"`
}

// ExchangeMediatorConfig holds configuration for the exchange mediator client.
type ExchangeMediatorConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// BitcoinConfig holds configuration for the bitcoin explorer client.
type BitcoinConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// BlockchainCurrencyConfig enables a currency and optionally overrides its RPC endpoints.
type BlockchainCurrencyConfig struct {
	Currency        string   `yaml:"currency"`
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRPCURLs"`
}

// BlockchainConfig holds configuration for blockchain balance clients.
type BlockchainConfig struct {
	Currencies               []BlockchainCurrencyConfig `yaml:"currencies"`
	RPCCallTimeoutSeconds    int                        `yaml:"rpcCallTimeoutSeconds"`
	ConnectionTimeoutSeconds int                        `yaml:"connectionTimeoutSeconds"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Database         DBConfig               `yaml:"database"`
	Repository       RepositoryConfig       `yaml:"repository"`
	Logging          LoggingConfig          `yaml:"logging"`
	Auth             AuthConfig             `yaml:"auth"`
	PriceService     PriceServiceConfig     `yaml:"priceService"`
	ExchangeMediator ExchangeMediatorConfig `yaml:"exchangeMediator"`
	Bitcoin          BitcoinConfig          `yaml:"bitcoin"`
	Blockchain       BlockchainConfig       `yaml:"blockchain"`
	Performance      PerformanceConfig      `yaml:"performance"`
	Swagger          SwaggerConfig          `yaml:"swagger"`
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals raw YAML into a Config, then applies environment overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PRICE_API_KEY"); v != "" {
		cfg.PriceService.APIKey = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.ConnectTimeoutSeconds <= 0 {
		cfg.Database.ConnectTimeoutSeconds = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File != "" {
		if cfg.Logging.MaxSizeMB <= 0 {
			cfg.Logging.MaxSizeMB = 100
		}
		if cfg.Logging.MaxBackups <= 0 {
			cfg.Logging.MaxBackups = 5
		}
		if cfg.Logging.MaxAgeDays <= 0 {
			cfg.Logging.MaxAgeDays = 14
		}
	}

	// Defaults for PriceServiceConfig
	if cfg.PriceService.BaseURL == "" {
		cfg.PriceService.BaseURL = "https://min-api.cryptocompare.com"
		logrus.Infof("PriceService.BaseURL not set, defaulting to %s", cfg.PriceService.BaseURL)
	}
	if cfg.PriceService.RequestTimeoutMillis <= 0 {
		cfg.PriceService.RequestTimeoutMillis = 5000
	}
	if cfg.PriceService.SuccessTTLMinutes <= 0 {
		cfg.PriceService.SuccessTTLMinutes = 24 * 60
		logrus.Infof("PriceService.SuccessTTLMinutes not set, defaulting to %d minutes", cfg.PriceService.SuccessTTLMinutes)
	}
	if cfg.PriceService.FailureTTLMinutes <= 0 {
		cfg.PriceService.FailureTTLMinutes = 60
		logrus.Infof("PriceService.FailureTTLMinutes not set, defaulting to %d minutes", cfg.PriceService.FailureTTLMinutes)
	}
	if cfg.PriceService.RefreshAfterMinutes <= 0 {
		cfg.PriceService.RefreshAfterMinutes = 60
	}
	if cfg.PriceService.CleanupIntervalMinutes <= 0 {
		cfg.PriceService.CleanupIntervalMinutes = 10
	}
	if cfg.PriceService.RefreshIntervalMinutes <= 0 {
		cfg.PriceService.RefreshIntervalMinutes = 60
		logrus.Infof("PriceService.RefreshIntervalMinutes not set, defaulting to %d minutes", cfg.PriceService.RefreshIntervalMinutes)
	}
	if cfg.PriceService.CounterCurrency == "" {
		cfg.PriceService.CounterCurrency = "USD"
	}
	cfg.PriceService.CounterCurrency = strings.ToUpper(cfg.PriceService.CounterCurrency)
	if cfg.PriceService.RateLimitPerSecond <= 0 {
		cfg.PriceService.RateLimitPerSecond = 10
	}
	if cfg.PriceService.RateLimitBurst <= 0 {
		cfg.PriceService.RateLimitBurst = 5
	}

	if cfg.ExchangeMediator.RequestTimeoutMillis <= 0 {
		cfg.ExchangeMediator.RequestTimeoutMillis = 5000
	}

	if cfg.Bitcoin.BaseURL == "" {
		cfg.Bitcoin.BaseURL = "https://blockchain.info"
	}
	if cfg.Bitcoin.RequestTimeoutMillis <= 0 {
		cfg.Bitcoin.RequestTimeoutMillis = 5000
	}

	if cfg.Blockchain.RPCCallTimeoutSeconds <= 0 {
		cfg.Blockchain.RPCCallTimeoutSeconds = 5 // Default to 5 seconds if not specified or invalid
	}
	if cfg.Blockchain.ConnectionTimeoutSeconds <= 0 {
		cfg.Blockchain.ConnectionTimeoutSeconds = 10
	}
	if len(cfg.Blockchain.Currencies) == 0 {
		cfg.Blockchain.Currencies = []BlockchainCurrencyConfig{{Currency: "ETH"}}
		logrus.Info("Blockchain.Currencies not set, defaulting to ETH only")
	}
	for i := range cfg.Blockchain.Currencies {
		cfg.Blockchain.Currencies[i].Currency = strings.ToUpper(cfg.Blockchain.Currencies[i].Currency)
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10 // Default to 10 if not specified or invalid
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
}

func validate(cfg *Config) error {
	if !cfg.Repository.UseInMemory && cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required unless repository.useInMemory is set")
	}
	if cfg.ExchangeMediator.BaseURL == "" {
		return fmt.Errorf("exchangeMediator.baseURL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		logrus.Warn("Auth.JWTSecret is empty, every authenticated request will be rejected")
	}
	seen := make(map[string]struct{}, len(cfg.Blockchain.Currencies))
	for _, c := range cfg.Blockchain.Currencies {
		if c.Currency == "" {
			return fmt.Errorf("blockchain.currencies contains an entry without currency")
		}
		if _, dup := seen[c.Currency]; dup {
			return fmt.Errorf("blockchain currency %s configured twice", c.Currency)
		}
		seen[c.Currency] = struct{}{}
	}
	return nil
}
