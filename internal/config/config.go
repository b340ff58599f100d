// Package config loads the server settings from .env and the environment
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted in the *_PROVIDER settings
const (
	ProviderMock       = "mock"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderGoogle     = "google"
	ProviderElevenLabs = "elevenlabs"
	ProviderSupabase   = "supabase"
	ProviderS3         = "s3"
	ProviderMemory     = "memory"

	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
	DatabaseMongo    = "mongo"
)

// AppConfig is the server configuration. Provider credentials are read by
// each adapter from its own variables.
type AppConfig struct {
	Host        string `mapstructure:"host" validate:"required"`
	Port        int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Environment string `mapstructure:"environment" validate:"oneof=development production"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile     string `mapstructure:"log_file"`

	JWTSecret string `mapstructure:"jwt_secret" validate:"required"`

	LLMProvider     string `mapstructure:"llm_provider" validate:"oneof=mock openai gemini"`
	STTProvider     string `mapstructure:"stt_provider" validate:"oneof=mock openai google"`
	TTSProvider     string `mapstructure:"tts_provider" validate:"oneof=mock openai elevenlabs"`
	StorageProvider string `mapstructure:"storage_provider" validate:"oneof=memory supabase s3"`

	DatabaseDriver string `mapstructure:"database_driver" validate:"oneof=postgres sqlite mongo"`
	DatabaseDSN    string `mapstructure:"database_dsn" validate:"required"`
	MongoDatabase  string `mapstructure:"mongo_database"`

	VideoBucket        string `mapstructure:"video_bucket" validate:"required"`
	SupabaseURL        string `mapstructure:"supabase_url" validate:"required_if=StorageProvider supabase"`
	SupabaseServiceKey string `mapstructure:"supabase_service_key" validate:"required_if=StorageProvider supabase"`
	S3Region           string `mapstructure:"s3_region"`
	S3Endpoint         string `mapstructure:"s3_endpoint" validate:"omitempty,url"`
	S3AccessKeyID      string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey  string `mapstructure:"s3_secret_access_key"`
}

// Address is the listen address of the HTTP server
func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the server runs in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// InitConfig loads .env (or ENV_PATH) into the process environment and returns a viper
// instance reading from it
func InitConfig() (*viper.Viper, error) {
	path := os.Getenv("ENV_PATH")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefault(v)
	return v, nil
}

func setDefault(v *viper.Viper) {
	// every key needs a default so Unmarshal sees its environment override
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8080)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("LLM_PROVIDER", ProviderMock)
	v.SetDefault("STT_PROVIDER", ProviderMock)
	v.SetDefault("TTS_PROVIDER", ProviderMock)
	v.SetDefault("STORAGE_PROVIDER", ProviderMemory)

	v.SetDefault("DATABASE_DRIVER", DatabaseSQLite)
	v.SetDefault("DATABASE_DSN", "file:mockview.db?cache=shared")
	v.SetDefault("MONGO_DATABASE", "")

	v.SetDefault("VIDEO_BUCKET", "interview-videos")
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_SERVICE_KEY", "")
	v.SetDefault("S3_REGION", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
}

// GetApplicationConfig unmarshals and validates the configuration
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Load is InitConfig followed by GetApplicationConfig
func Load() (*AppConfig, error) {
	v, err := InitConfig()
	if err != nil {
		return nil, err
	}
	return GetApplicationConfig(v)
}
