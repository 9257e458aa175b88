package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義
const (
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultImageModel    = "gemini-2.5-flash-image"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRateInterval  = 2 * time.Second
	DefaultRateBurst     = 2
	DefaultMaxRetries    = 0
	DefaultRetryInterval = 2 * time.Second
	DefaultCacheTTL      = time.Hour
	DefaultLogLevel      = "info"
	DefaultEnvFile       = ".env"
)

// ErrMissingAPIKey は GEMINI_API_KEY が設定されていない場合に返されます。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config はアプリケーション全体の環境設定を保持する構造体です。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	// RateInterval は生成リクエスト間の最小間隔です。0 の場合は制限しません。
	RateInterval time.Duration
	RateBurst    int

	// MaxRetries は再試行可能な失敗に対する最大再試行回数です。0 で再試行しません。
	MaxRetries    uint64
	RetryInterval time.Duration

	HTTPTimeout time.Duration
	CacheTTL    time.Duration

	CompressReferences bool
	FenceStaleResults  bool

	LogLevel slog.Level
}

// LoadConfig は .env (存在する場合) と環境変数から設定を読み込みます。
// 既に設定されている環境変数は .env の値で上書きされません。
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(DefaultEnvFile); err == nil {
		if err := godotenv.Load(DefaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
		}
	}
	return FromEnv()
}

// FromEnv は現在の環境変数のみから設定を組み立てます。
func FromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}

	var err error
	if cfg.RateInterval, err = durationEnv("RATE_INTERVAL", DefaultRateInterval); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = intEnv("RATE_BURST", DefaultRateBurst); err != nil {
		return nil, err
	}
	retries, err := intEnv("MAX_RETRIES", DefaultMaxRetries)
	if err != nil {
		return nil, err
	}
	if retries < 0 {
		return nil, fmt.Errorf("MAX_RETRIES must not be negative: %d", retries)
	}
	cfg.MaxRetries = uint64(retries)
	if cfg.RetryInterval, err = durationEnv("RETRY_INTERVAL", DefaultRetryInterval); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", DefaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.CompressReferences, err = boolEnv("COMPRESS_REFERENCES", false); err != nil {
		return nil, err
	}
	if cfg.FenceStaleResults, err = boolEnv("FENCE_STALE_RESULTS", false); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLevel(envutil.GetEnv("LOG_LEVEL", DefaultLogLevel)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate は起動に必要な設定が揃っているかを確認します。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("RATE_BURST must be at least 1: %d", c.RateBurst)
	}
	return nil
}

// NewLogger は設定されたレベルで標準エラー出力に書き出すロガーを生成します。
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative: %s", key, raw)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}
