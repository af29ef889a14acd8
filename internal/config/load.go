package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	Bot      BotConfig      `json:"bot"`
	Runtime  RuntimeConfig  `json:"runtime"`
	Network  NetworkConfig  `json:"network"`
	Cache    CacheConfig    `json:"cache"`
	Database DatabaseConfig `json:"database"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type BotConfig struct {
	Token string `json:"token"`
}

type RuntimeConfig struct {
	DisableGC  bool `json:"disable_gc"`
	MemoryLock bool `json:"memory_lock"`
	EngineCPU  int  `json:"engine_cpu"`
}

type NetworkConfig struct {
	HTTPPoolSize int    `json:"http_pool_size"`
	WorkerCount  int    `json:"worker_count"`
	APIBaseURL   string `json:"api_base_url"`
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	normalize(&cfg)
	applyEnv(&cfg)

	GlobalConfig = &cfg
	return &cfg, nil
}

func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = DefaultConfig()
		applyEnv(cfg)
		GlobalConfig = cfg
	}
	return cfg
}

// normalize backfills zero values left by a partial config file.
func normalize(cfg *Config) {
	def := DefaultConfig()
	if cfg.Network.HTTPPoolSize <= 0 {
		cfg.Network.HTTPPoolSize = def.Network.HTTPPoolSize
	}
	if cfg.Network.WorkerCount <= 0 {
		cfg.Network.WorkerCount = def.Network.WorkerCount
	}
	if cfg.Network.APIBaseURL == "" {
		cfg.Network.APIBaseURL = def.Network.APIBaseURL
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = def.Metrics.Addr
	}
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		cfg.Metrics.Addr = addr
		cfg.Metrics.Enabled = true
	}
}

func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			EngineCPU: 1,
		},
		Network: NetworkConfig{
			HTTPPoolSize: 4,
			WorkerCount:  4,
			APIBaseURL:   "https://discord.com/api/v10",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Database: DatabaseConfig{
			Path: "heatguard.db",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9100",
		},
	}
}

func Get() *Config {
	if GlobalConfig == nil {
		return DefaultConfig()
	}
	return GlobalConfig
}
