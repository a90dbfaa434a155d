package model

import "time"

// Config is the complete service configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Image   ImageConfig   `yaml:"image" mapstructure:"image"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound fetching of submitted URLs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// EngineConfig configures the external IA11 scoring engine.
// An empty BaseURL disables the engine; analyses then run LLM-only.
type EngineConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the vision/analysis LLM backend
type LLMConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StorageConfig configures the object storage used for screenshot uploads
type StorageConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Bucket  string `yaml:"bucket" mapstructure:"bucket"`
}

// ImageConfig controls client-side image preprocessing before upload
type ImageConfig struct {
	MaxWidth       int     `yaml:"max_width" mapstructure:"max_width"`
	MaxHeight      int     `yaml:"max_height" mapstructure:"max_height"`
	InitialQuality float64 `yaml:"initial_quality" mapstructure:"initial_quality"`
	MinQuality     float64 `yaml:"min_quality" mapstructure:"min_quality"`
	TargetBytes    int64   `yaml:"target_bytes" mapstructure:"target_bytes"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// CacheConfig controls result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ServerConfig controls the HTTP API server
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "LeenScore/1.0 (+https://github.com/leenscore/leenscore)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Engine: EngineConfig{
			Timeout:           20 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   45,
			MaxTokens: 2000,
		},
		Storage: StorageConfig{
			Bucket: "screenshots",
		},
		Image: ImageConfig{
			MaxWidth:       1800,
			MaxHeight:      2400,
			InitialQuality: 0.82,
			MinQuality:     0.65,
			TargetBytes:    3_500_000,
			MaxUploadBytes: 10_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
