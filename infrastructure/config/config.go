package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YuDongZhang/InterviewQuestion/pkg/utils"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverBadger   = "badger"
	DriverS3       = "s3"
	DriverDynamoDB = "dynamodb"
	DriverRemote   = "remote"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address" validate:"required"`
	Environment     string        `yaml:"environment" validate:"oneof=development test staging production"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Snapshot store
	StoreDriver string `yaml:"store_driver" validate:"oneof=file memory sqlite badger s3 dynamodb remote"`
	DataDir     string `yaml:"data_dir" validate:"required_if=StoreDriver file"`
	SQLitePath  string `yaml:"sqlite_path"`
	BadgerPath  string `yaml:"badger_path" validate:"required_if=StoreDriver badger"`
	S3Bucket    string `yaml:"s3_bucket" validate:"required_if=StoreDriver s3"`
	S3Prefix    string `yaml:"s3_prefix"`
	S3Endpoint  string `yaml:"s3_endpoint" validate:"omitempty,url"`
	S3PathStyle bool   `yaml:"s3_path_style"`
	RemoteURL   string `yaml:"remote_url" validate:"required_if=StoreDriver remote,omitempty,url"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table" validate:"required_if=StoreDriver dynamodb"`
	EventBusName  string `yaml:"event_bus_name"`

	// Persistence gateway
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	QueueSize    int           `yaml:"queue_size" validate:"gte=1,lte=10000"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Observability
	OTELEndpoint  string `yaml:"otel_endpoint"`
	EnableMetrics bool   `yaml:"enable_metrics"`

	// Feature flags
	WatchData   bool     `yaml:"watch_data"`
	EnableCORS  bool     `yaml:"enable_cors"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Source is the YAML file the config was overlaid from, if any.
	Source string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
		StoreDriver:     DriverFile,
		DataDir:         "data",
		SQLitePath:      "data/qbank.db",
		BadgerPath:      "data/badger",
		AWSRegion:       "us-east-1",
		DynamoDBTable:   "qbank",
		WriteTimeout:    10 * time.Second,
		QueueSize:       64,
		EnableMetrics:   true,
		WatchData:       false,
		EnableCORS:      true,
		CORSOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by QBANK_CONFIG, then environment variables, and validates it.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("QBANK_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) overlayEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))

	c.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", c.StoreDriver))
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.BadgerPath = getEnv("BADGER_PATH", c.BadgerPath)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Prefix = getEnv("S3_PREFIX", c.S3Prefix)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3PathStyle = getEnvBool("S3_PATH_STYLE", c.S3PathStyle)
	c.RemoteURL = getEnv("REMOTE_URL", c.RemoteURL)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.QueueSize = getEnvInt("QUEUE_SIZE", c.QueueSize)

	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")

	c.OTELEndpoint = getEnv("OTEL_ENDPOINT", c.OTELEndpoint)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)

	c.WatchData = getEnvBool("WATCH_DATA", c.WatchData)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = splitList(origins)
	}
}

// Validate checks the configuration against its validation tags
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.StoreDriver == DriverMemory {
		return fmt.Errorf("invalid configuration: memory store is not allowed in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("10s") or plain milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
