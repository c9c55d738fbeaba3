package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	CORS     CORSConfig
	Pipeline PipelineConfig
	Upload   UploadConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PipelineConfig holds ingestion and resolution tuning.
type PipelineConfig struct {
	// InsertBatchSize bounds staging inserts per transaction.
	InsertBatchSize int `mapstructure:"insert_batch_size"`
	// UpdateBatchSize bounds bulk rate/result updates per statement.
	UpdateBatchSize int `mapstructure:"update_batch_size"`
	// MaxConcurrent is the process-wide ceiling on heavy subtasks.
	MaxConcurrent int64 `mapstructure:"max_concurrent"`
	// StrictMode turns dangling line-item references into fatal errors.
	StrictMode bool `mapstructure:"strict_mode"`
	// TargetUF restricts the line-item clone step to suppliers of one state.
	TargetUF string `mapstructure:"target_uf"`
}

// UploadConfig holds SPED file upload settings.
type UploadConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// WorkerConfig holds pipeline run worker settings.
type WorkerConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// Load reads configuration from environment variables with the SPEDFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPEDFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "spedflow")
	v.SetDefault("db.password", "spedflow_secret")
	v.SetDefault("db.name", "spedflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Pipeline defaults; batch sizes match the volumes the staging and
	// update statements were tuned for.
	v.SetDefault("pipeline.insert_batch_size", 3000)
	v.SetDefault("pipeline.update_batch_size", 5000)
	v.SetDefault("pipeline.max_concurrent", 3)
	v.SetDefault("pipeline.strict_mode", false)
	v.SetDefault("pipeline.target_uf", "CE")

	// Upload defaults
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_file_size_mb", 200)

	// Worker defaults
	v.SetDefault("worker.poll_interval_secs", 5)
	v.SetDefault("worker.concurrency", 3)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "SPEDFLOW_SERVER_PORT",
		"server.read_timeout":        "SPEDFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "SPEDFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":         "SPEDFLOW_SERVER_ENVIRONMENT",
		"db.host":                    "SPEDFLOW_DB_HOST",
		"db.port":                    "SPEDFLOW_DB_PORT",
		"db.user":                    "SPEDFLOW_DB_USER",
		"db.password":                "SPEDFLOW_DB_PASSWORD",
		"db.name":                    "SPEDFLOW_DB_NAME",
		"db.sslmode":                 "SPEDFLOW_DB_SSLMODE",
		"db.max_open":                "SPEDFLOW_DB_MAX_OPEN",
		"db.max_idle":                "SPEDFLOW_DB_MAX_IDLE",
		"log.level":                  "SPEDFLOW_LOG_LEVEL",
		"log.format":                 "SPEDFLOW_LOG_FORMAT",
		"cors.allowed_origins":       "SPEDFLOW_CORS_ALLOWED_ORIGINS",
		"pipeline.insert_batch_size": "SPEDFLOW_PIPELINE_INSERT_BATCH_SIZE",
		"pipeline.update_batch_size": "SPEDFLOW_PIPELINE_UPDATE_BATCH_SIZE",
		"pipeline.max_concurrent":    "SPEDFLOW_PIPELINE_MAX_CONCURRENT",
		"pipeline.strict_mode":       "SPEDFLOW_PIPELINE_STRICT_MODE",
		"pipeline.target_uf":         "SPEDFLOW_PIPELINE_TARGET_UF",
		"upload.dir":                 "SPEDFLOW_UPLOAD_DIR",
		"upload.max_file_size_mb":    "SPEDFLOW_UPLOAD_MAX_FILE_SIZE_MB",
		"worker.poll_interval_secs":  "SPEDFLOW_WORKER_POLL_INTERVAL_SECS",
		"worker.concurrency":         "SPEDFLOW_WORKER_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SPEDFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SPEDFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Pipeline = PipelineConfig{
		InsertBatchSize: v.GetInt("pipeline.insert_batch_size"),
		UpdateBatchSize: v.GetInt("pipeline.update_batch_size"),
		MaxConcurrent:   v.GetInt64("pipeline.max_concurrent"),
		StrictMode:      v.GetBool("pipeline.strict_mode"),
		TargetUF:        v.GetString("pipeline.target_uf"),
	}
	cfg.Upload = UploadConfig{
		Dir:           v.GetString("upload.dir"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Worker = WorkerConfig{
		PollIntervalSecs: v.GetInt("worker.poll_interval_secs"),
		Concurrency:      v.GetInt("worker.concurrency"),
	}

	return cfg, nil
}
