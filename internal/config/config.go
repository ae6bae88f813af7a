package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	RPC        RPCConfig        `yaml:"rpc"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Swap       SwapConfig       `yaml:"swap"`
	LLM        LLMConfig        `yaml:"llm"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// RPCConfig holds the blockchain RPC provider configuration. The endpoint is
// built from the template with the network slug and the API key.
type RPCConfig struct {
	EndpointTemplate      string `yaml:"endpointTemplate"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// PricingConfig holds the price-resolution configuration.
type PricingConfig struct {
	CoinPriceBaseURL        string `yaml:"coinPriceBaseURL"`
	ContractPriceBaseURL    string `yaml:"contractPriceBaseURL"`
	RequestTimeoutMillis    int64  `yaml:"requestTimeoutMillis"`
	MaxSymbolsPerBatch      int    `yaml:"maxSymbolsPerBatch"`
	ContractCallDelayMillis int64  `yaml:"contractCallDelayMillis"`
	CacheFile               string `yaml:"cacheFile"`
}

// SwapConfig holds the exchange-router passthrough configuration.
type SwapConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	QuoteCacheTTLSeconds int    `yaml:"quoteCacheTTLSeconds"`
	UniquePID            string `yaml:"uniquePID"`
}

// LLMConfig holds the language-model client configuration.
type LLMConfig struct {
	BaseURL              string `yaml:"baseURL"`
	Model                string `yaml:"model"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// AggregatorConfig holds the wallet aggregation concurrency settings.
type AggregatorConfig struct {
	MaxConcurrentRequests      int `yaml:"maxConcurrentRequests"`
	BalanceFetchTimeoutSeconds int `yaml:"balanceFetchTimeoutSeconds"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: the service runs on defaults plus environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, running on defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		logrus.Infof("Loading configuration from path: %s", path)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.RPC.EndpointTemplate == "" {
		cfg.RPC.EndpointTemplate = "https://%s.g.alchemy.com/v2/%s"
	}
	if cfg.RPC.RequestTimeoutSeconds == 0 {
		cfg.RPC.RequestTimeoutSeconds = 10
		logrus.Infof("RPC.RequestTimeoutSeconds not set, defaulting to %d", cfg.RPC.RequestTimeoutSeconds)
	}

	if cfg.Pricing.CoinPriceBaseURL == "" {
		cfg.Pricing.CoinPriceBaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Pricing.ContractPriceBaseURL == "" {
		cfg.Pricing.ContractPriceBaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Pricing.RequestTimeoutMillis == 0 {
		cfg.Pricing.RequestTimeoutMillis = 10000
		logrus.Infof("Pricing.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Pricing.RequestTimeoutMillis)
	}
	if cfg.Pricing.MaxSymbolsPerBatch == 0 {
		cfg.Pricing.MaxSymbolsPerBatch = 10
		logrus.Infof("Pricing.MaxSymbolsPerBatch not set, defaulting to %d", cfg.Pricing.MaxSymbolsPerBatch)
	}
	if cfg.Pricing.ContractCallDelayMillis == 0 {
		cfg.Pricing.ContractCallDelayMillis = 1000
		logrus.Infof("Pricing.ContractCallDelayMillis not set, defaulting to %d ms", cfg.Pricing.ContractCallDelayMillis)
	}
	if cfg.Pricing.CacheFile == "" {
		cfg.Pricing.CacheFile = "token_cache.json"
	}

	if cfg.Swap.BaseURL == "" {
		cfg.Swap.BaseURL = "https://router.gluex.xyz"
	}
	if cfg.Swap.RequestTimeoutMillis == 0 {
		cfg.Swap.RequestTimeoutMillis = 15000
	}
	if cfg.Swap.QuoteCacheTTLSeconds == 0 {
		cfg.Swap.QuoteCacheTTLSeconds = 10
	}

	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-1.5-flash"
	}
	if cfg.LLM.RequestTimeoutMillis == 0 {
		cfg.LLM.RequestTimeoutMillis = 20000
	}

	if cfg.Aggregator.MaxConcurrentRequests == 0 {
		cfg.Aggregator.MaxConcurrentRequests = 10
		logrus.Infof("Aggregator.MaxConcurrentRequests not set, defaulting to %d", cfg.Aggregator.MaxConcurrentRequests)
	}
	if cfg.Aggregator.BalanceFetchTimeoutSeconds == 0 {
		cfg.Aggregator.BalanceFetchTimeoutSeconds = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
