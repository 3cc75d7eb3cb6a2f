package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Enhancer  EnhancerConfig
	Apps      AppsConfig
	Pipeline  PipelineConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	KServe    KServeConfig
	Frontend  FrontendConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
	OutputDir  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type EnhancerConfig struct {
	Provider      string
	OllamaURL     string
	OllamaModel   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
}

type AppsConfig struct {
	TextToImageURL  string
	ImageToModelURL string
	APIKey          string
	UserID          string
	Timeout         time.Duration
	ModelFormat     string
}

type PipelineConfig struct {
	Timeout       time.Duration
	MaxConcurrent int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KServeConfig struct {
	Enabled          bool
	InCluster        bool
	KubeConfigPath   string
	Namespace        string
	TextToImageName  string
	ImageToModelName string
}

type FrontendConfig struct {
	Host       string
	Port       int
	APIURL     string
	APITimeout time.Duration
}

const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"

	EnhancerOllama = "ollama"
	EnhancerOpenAI = "openai"
	EnhancerNone   = "none"
)

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8888)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	v.SetDefault("STORAGE_DRIVER", StorageDriverSQLite)
	v.SetDefault("SQLITE_PATH", "ai_memory.db")
	v.SetDefault("OUTPUT_DIR", "outputs")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("ENHANCER_PROVIDER", EnhancerOllama)
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "deepseek-r1:1.5b")
	v.SetDefault("OPENAI_BASE_URL", "http://localhost:11434/v1")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "deepseek-r1:1.5b")
	v.SetDefault("ENHANCER_TIMEOUT", "30s")

	v.SetDefault("TEXT_TO_IMAGE_URL", "")
	v.SetDefault("IMAGE_TO_3D_URL", "")
	v.SetDefault("MODEL_API_KEY", "")
	v.SetDefault("MODEL_USER_ID", "super-user")
	v.SetDefault("APP_TIMEOUT", "5m")
	v.SetDefault("MODEL_FORMAT", "obj")

	v.SetDefault("PIPELINE_TIMEOUT", "10m")
	v.SetDefault("PIPELINE_MAX_CONCURRENT", 1)
	v.SetDefault("RATE_LIMIT_RPS", 0.5)
	v.SetDefault("RATE_LIMIT_BURST", 2)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "24h")

	v.SetDefault("KSERVE_ENABLED", false)
	v.SetDefault("KSERVE_IN_CLUSTER", false)
	v.SetDefault("KUBECONFIG", "")
	v.SetDefault("KSERVE_NAMESPACE", "model-serving")
	v.SetDefault("KSERVE_TEXT_TO_IMAGE", "text-to-image")
	v.SetDefault("KSERVE_IMAGE_TO_3D", "image-to-3d")

	v.SetDefault("FRONTEND_HOST", "0.0.0.0")
	v.SetDefault("FRONTEND_PORT", 8501)
	v.SetDefault("FRONTEND_API_URL", "http://localhost:8888")
	v.SetDefault("FRONTEND_API_TIMEOUT", "10m")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("SERVER_HOST"),
			Port:               v.GetInt("SERVER_PORT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
			SQLitePath: v.GetString("SQLITE_PATH"),
			OutputDir:  v.GetString("OUTPUT_DIR"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Enhancer: EnhancerConfig{
			Provider:      strings.ToLower(v.GetString("ENHANCER_PROVIDER")),
			OllamaURL:     v.GetString("OLLAMA_URL"),
			OllamaModel:   v.GetString("OLLAMA_MODEL"),
			OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
			OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
			OpenAIModel:   v.GetString("OPENAI_MODEL"),
			Timeout:       duration(v, "ENHANCER_TIMEOUT", 30*time.Second),
		},
		Apps: AppsConfig{
			TextToImageURL:  v.GetString("TEXT_TO_IMAGE_URL"),
			ImageToModelURL: v.GetString("IMAGE_TO_3D_URL"),
			APIKey:          v.GetString("MODEL_API_KEY"),
			UserID:          v.GetString("MODEL_USER_ID"),
			Timeout:         duration(v, "APP_TIMEOUT", 5*time.Minute),
			ModelFormat:     strings.ToLower(v.GetString("MODEL_FORMAT")),
		},
		Pipeline: PipelineConfig{
			Timeout:       duration(v, "PIPELINE_TIMEOUT", 10*time.Minute),
			MaxConcurrent: v.GetInt("PIPELINE_MAX_CONCURRENT"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      duration(v, "REDIS_TTL", 24*time.Hour),
		},
		KServe: KServeConfig{
			Enabled:          v.GetBool("KSERVE_ENABLED"),
			InCluster:        v.GetBool("KSERVE_IN_CLUSTER"),
			KubeConfigPath:   v.GetString("KUBECONFIG"),
			Namespace:        v.GetString("KSERVE_NAMESPACE"),
			TextToImageName:  v.GetString("KSERVE_TEXT_TO_IMAGE"),
			ImageToModelName: v.GetString("KSERVE_IMAGE_TO_3D"),
		},
		Frontend: FrontendConfig{
			Host:       v.GetString("FRONTEND_HOST"),
			Port:       v.GetInt("FRONTEND_PORT"),
			APIURL:     strings.TrimRight(v.GetString("FRONTEND_API_URL"), "/"),
			APITimeout: duration(v, "FRONTEND_API_TIMEOUT", 10*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverSQLite:
	case StorageDriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StorageDriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Enhancer.Provider {
	case EnhancerOllama, EnhancerOpenAI, EnhancerNone:
	default:
		return fmt.Errorf("unsupported ENHANCER_PROVIDER %q", c.Enhancer.Provider)
	}

	if c.Pipeline.MaxConcurrent < 1 {
		c.Pipeline.MaxConcurrent = 1
	}
	if c.Apps.ModelFormat == "" {
		c.Apps.ModelFormat = "obj"
	}
	return nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
