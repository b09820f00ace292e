package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Redis      RedisConfig
	Chain      ChainConfig
	Prover     ProverConfig
	Gateway    GatewayConfig
	Settlement SettlementConfig
	Session    SessionConfig
	Server     ServerConfig
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	PrivateKey      string `mapstructure:"private_key"` // empty → remote signer mode
	OwnerAddress    string `mapstructure:"owner_address"`
	ProviderAddress string `mapstructure:"provider_address"`
	ChainID         int64  `mapstructure:"chain_id"`
}

type ProverConfig struct {
	URL string `mapstructure:"url"`
}

type GatewayConfig struct {
	SignatureTimeoutSec int64 `mapstructure:"signature_timeout_sec"`
}

type SettlementConfig struct {
	LockTimeSec       int64 `mapstructure:"lock_time_sec"`
	BatchSize         int   `mapstructure:"batch_size"`
	IntervalSec       int64 `mapstructure:"interval_sec"`
	ReceiptTries      int   `mapstructure:"receipt_tries"`
	ReceiptSpacingSec int64 `mapstructure:"receipt_spacing_sec"`
}

type SessionConfig struct {
	UserTTLSec   int64 `mapstructure:"user_ttl_sec"`
	SignerTTLSec int64 `mapstructure:"signer_ttl_sec"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("gateway.signature_timeout_sec", 65)
	v.SetDefault("settlement.lock_time_sec", 86400)
	v.SetDefault("settlement.batch_size", 50)
	v.SetDefault("settlement.interval_sec", 3600)
	v.SetDefault("settlement.receipt_tries", 10)
	v.SetDefault("settlement.receipt_spacing_sec", 2)
	v.SetDefault("session.user_ttl_sec", 600)
	v.SetDefault("session.signer_ttl_sec", 86400)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"redis.addr":                     "REDIS_ADDR",
		"redis.password":                 "REDIS_PASSWORD",
		"chain.rpc_url":                  "RPC_URL",
		"chain.contract_address":         "LEDGER_CONTRACT",
		"chain.private_key":              "WALLET_PRIVATE_KEY",
		"chain.owner_address":            "OWNER_ADDRESS",
		"chain.provider_address":         "PROVIDER_ADDRESS",
		"chain.chain_id":                 "CHAIN_ID",
		"prover.url":                     "PROVER_URL",
		"gateway.signature_timeout_sec":  "SIGNATURE_TIMEOUT_SEC",
		"settlement.lock_time_sec":       "LOCK_TIME_SEC",
		"settlement.batch_size":          "SETTLE_BATCH_SIZE",
		"settlement.interval_sec":        "SETTLE_INTERVAL_SEC",
		"settlement.receipt_tries":       "RECEIPT_TRIES",
		"settlement.receipt_spacing_sec": "RECEIPT_SPACING_SEC",
		"session.user_ttl_sec":           "SESSION_USER_TTL_SEC",
		"session.signer_ttl_sec":         "SESSION_SIGNER_TTL_SEC",
		"server.port":                    "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	type req struct {
		val  string
		name string
	}
	for _, r := range []req{
		{c.Chain.RPCURL, "RPC_URL"},
		{c.Chain.ContractAddress, "LEDGER_CONTRACT"},
		{c.Prover.URL, "PROVER_URL"},
	} {
		if r.val == "" {
			return fmt.Errorf("required config missing: %s", r.name)
		}
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("required config missing: CHAIN_ID")
	}
	return nil
}
