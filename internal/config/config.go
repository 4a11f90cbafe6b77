package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey возвращается, когда TINKER_API_KEY не задан ни в окружении, ни в .env.
var ErrMissingAPIKey = errors.New("TINKER_API_KEY not found in environment")

const (
	DefaultBaseModel  = "meta-llama/Llama-3.1-8B-Instruct"
	DefaultCheckpoint = "tinker://fa648063-5661-5e75-a791-f6c2ebf5cf7a:train:0/sampler_weights/final"
	DefaultFilePath   = "spotvoice.toml"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	RequestTimeout time.Duration
	ResultTTL      time.Duration
	CopyTimeout    time.Duration
	ProfilesPath   string
	Lint           bool
	Tinker         TinkerConfig
}

type TinkerConfig struct {
	APIKey       string
	BaseURL      string
	Checkpoint   string
	BaseModel    string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// fileConfig зеркалит структуру spotvoice.toml. Пустые поля не перекрывают значения по умолчанию.
type fileConfig struct {
	HTTPAddr       string `toml:"http_addr"`
	LogLevel       string `toml:"log_level"`
	RequestTimeout string `toml:"request_timeout"`
	ResultTTL      string `toml:"result_ttl"`
	CopyTimeout    string `toml:"copy_timeout"`
	ProfilesPath   string `toml:"profiles"`
	Lint           bool   `toml:"lint"`
	Tinker         struct {
		BaseURL      string `toml:"base_url"`
		Checkpoint   string `toml:"checkpoint"`
		BaseModel    string `toml:"base_model"`
		PollInterval string `toml:"poll_interval"`
		PollTimeout  string `toml:"poll_timeout"`
	} `toml:"tinker"`
}

// LoadDotEnv подгружает переменные из .env. Отсутствующий файл не считается ошибкой.
// Уже выставленные переменные окружения не перезаписываются.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load собирает конфигурацию: значения по умолчанию, затем TOML-файл, затем окружение.
func Load() (Config, error) {
	file, err := readFile(getEnv("SPOTVOICE_CONFIG", DefaultFilePath))
	if err != nil {
		return Config{}, err
	}

	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", firstNonEmpty(file.HTTPAddr, ":8080"))
	cfg.LogLevel = getEnv("LOG_LEVEL", firstNonEmpty(file.LogLevel, "info"))
	cfg.ProfilesPath = getEnv("SPOT_PROFILES", file.ProfilesPath)

	lint, err := ParseBoolDefault(getEnv("SPOT_LINT", ""), file.Lint)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPOT_LINT: %w", err)
	}
	cfg.Lint = lint

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", firstNonEmpty(file.RequestTimeout, "60s")))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	resultTTL, err := parseDuration(getEnv("RESULT_TTL", firstNonEmpty(file.ResultTTL, "1h")))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_TTL: %w", err)
	}
	cfg.ResultTTL = resultTTL

	// Один POST /v1/copy может сделать до 20 последовательных вызовов модели.
	copyTimeout, err := parseDuration(getEnv("COPY_TIMEOUT", firstNonEmpty(file.CopyTimeout, "10m")))
	if err != nil {
		return Config{}, fmt.Errorf("parse COPY_TIMEOUT: %w", err)
	}
	cfg.CopyTimeout = copyTimeout

	pollInterval, err := parseDuration(getEnv("TINKER_POLL_INTERVAL", firstNonEmpty(file.Tinker.PollInterval, "500ms")))
	if err != nil {
		return Config{}, fmt.Errorf("parse TINKER_POLL_INTERVAL: %w", err)
	}
	pollTimeout, err := parseDuration(getEnv("TINKER_POLL_TIMEOUT", firstNonEmpty(file.Tinker.PollTimeout, "5m")))
	if err != nil {
		return Config{}, fmt.Errorf("parse TINKER_POLL_TIMEOUT: %w", err)
	}

	cfg.Tinker = TinkerConfig{
		APIKey:       getEnv("TINKER_API_KEY", ""),
		BaseURL:      getEnv("TINKER_BASE_URL", firstNonEmpty(file.Tinker.BaseURL, "https://tinker.thinkingmachines.dev/services/tinker-prod")),
		Checkpoint:   getEnv("SPOT_CHECKPOINT", firstNonEmpty(file.Tinker.Checkpoint, DefaultCheckpoint)),
		BaseModel:    getEnv("SPOT_BASE_MODEL", firstNonEmpty(file.Tinker.BaseModel, DefaultBaseModel)),
		PollInterval: pollInterval,
		PollTimeout:  pollTimeout,
	}

	return cfg, nil
}

// Validate проверяет обязательные для обращения к сервису параметры.
func (c Config) Validate() error {
	if c.Tinker.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Tinker.BaseURL == "" {
		return fmt.Errorf("TINKER_BASE_URL is empty")
	}
	return nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseBoolDefault разбирает необязательный булев флаг со значением по умолчанию.
func ParseBoolDefault(value string, def bool) (bool, error) {
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}
