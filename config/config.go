package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	SessionRedis = "redis"
	SessionJWT   = "jwt"
)

type (
	APP struct {
		Name            string        `mapstructure:"name" validate:"required"`
		Host            string        `mapstructure:"host"`
		Port            string        `mapstructure:"port" validate:"required,numeric"`
		Env             string        `mapstructure:"env"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	}
	DB struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"db"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
	}
	Redis struct {
		Addr     string `mapstructure:"addr" validate:"required"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db" validate:"gte=0"`
	}
	MQ struct {
		User           string        `mapstructure:"user"`
		Password       string        `mapstructure:"password"`
		Vhost          string        `mapstructure:"vhost"`
		Host           string        `mapstructure:"host"`
		AmqpPort       string        `mapstructure:"amqp_port"`
		Exchange       string        `mapstructure:"exchange" validate:"required"`
		ExchangeType   string        `mapstructure:"exchange_type" validate:"oneof=direct topic fanout"`
		QueueName      string        `mapstructure:"queue_name" validate:"required"`
		RoutingKey     string        `mapstructure:"routing_key" validate:"required"`
		EnqueueTimeout time.Duration `mapstructure:"enqueue_timeout" validate:"gt=0"`
		WorkerEnabled  bool          `mapstructure:"worker_enabled"`
	}
	Storage struct {
		Backend      string        `mapstructure:"backend" validate:"oneof=local s3"`
		FolderPath   string        `mapstructure:"folder_path"`
		WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	}
	S3 struct {
		Region          string `mapstructure:"region"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		ForcePathStyle  bool   `mapstructure:"force_path_style"`
	}
	Session struct {
		Backend   string `mapstructure:"backend" validate:"oneof=redis jwt"`
		KeyPrefix string `mapstructure:"key_prefix"`
		JWTSecret string `mapstructure:"jwt_secret"`
	}

	Config struct {
		App     APP     `mapstructure:"service"`
		DB      DB      `mapstructure:"postgres"`
		Redis   Redis   `mapstructure:"redis"`
		MQ      MQ      `mapstructure:"rabbitmq"`
		Storage Storage `mapstructure:"storage"`
		S3      S3      `mapstructure:"s3"`
		Session Session `mapstructure:"session"`
	}
)

var validate = validator.New()

// Load reads an optional .env file, an optional config file and the
// environment, in increasing order of precedence. Keys map to environment
// variables by upper-casing and replacing dots: postgres.host -> POSTGRES_HOST.
func Load(configPath string) (Config, error) {
	// a missing .env is fine outside of local development
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("storage.folder_path", "STORAGE_FOLDER_PATH", "FOLDER_PATH"); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "filemanager")
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.port", "5000")
	v.SetDefault("service.env", "debug")
	v.SetDefault("service.shutdown_timeout", 5*time.Second)

	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "files_manager")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.amqp_port", "5672")
	v.SetDefault("rabbitmq.exchange", "files")
	v.SetDefault("rabbitmq.exchange_type", "direct")
	v.SetDefault("rabbitmq.queue_name", "file_variants")
	v.SetDefault("rabbitmq.routing_key", "image.variants")
	v.SetDefault("rabbitmq.enqueue_timeout", 100*time.Millisecond)
	v.SetDefault("rabbitmq.worker_enabled", true)

	v.SetDefault("storage.backend", StorageLocal)
	v.SetDefault("storage.folder_path", "/tmp/files_manager")
	v.SetDefault("storage.write_timeout", 30*time.Second)

	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.key_prefix", "")
	v.SetDefault("s3.force_path_style", false)

	v.SetDefault("session.backend", SessionRedis)
	v.SetDefault("session.key_prefix", "auth_")
	v.SetDefault("session.jwt_secret", "")
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.FolderPath == "" {
			return fmt.Errorf("storage: folder_path is required for the local backend")
		}
	case StorageS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("s3: bucket and region are required for the s3 backend")
		}
	}

	if c.Session.Backend == SessionJWT && c.Session.JWTSecret == "" {
		return fmt.Errorf("session: jwt_secret is required for the jwt backend")
	}

	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
