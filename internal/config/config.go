package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UploadConfig carries the upload pipeline policy. SizeCapBytes is enforced
// server-side before transcoding starts; TargetQuality is the fixed JPEG
// quality factor applied to every upload (default 80).
type UploadConfig struct {
	SizeCapBytes  int64
	TargetQuality int
}

type LocalStorageConfig struct {
	Dir         string
	PublicMount string
}

type S3StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

// StorageConfig selects the blob backend: "local" writes under a static
// directory, "s3" writes to an S3-compatible object store.
type StorageConfig struct {
	Backend string
	Local   LocalStorageConfig
	S3      S3StorageConfig
}

type JobsConfig struct {
	Stream        string
	Group         string
	Consumer      string
	PurgeSchedule string
	Retention     time.Duration
	ClaimInterval time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Upload           UploadConfig
	Storage          StorageConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("RCB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	switch cfg.Storage.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("storage.backend must be \"local\" or \"s3\", got %q", cfg.Storage.Backend)
	}
	if cfg.Upload.SizeCapBytes <= 0 {
		return fmt.Errorf("upload.sizecapbytes must be positive")
	}
	if cfg.Upload.TargetQuality < 1 || cfg.Upload.TargetQuality > 100 {
		return fmt.Errorf("upload.targetquality must be between 1 and 100")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upload.sizecapbytes", 5<<20)
	v.SetDefault("upload.targetquality", 80)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.dir", "./images")
	v.SetDefault("storage.local.publicmount", "/images")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.accesskey", "")
	v.SetDefault("storage.s3.secretkey", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.usessl", true)
	v.SetDefault("storage.s3.bucket", "rcb-assets")
	v.SetDefault("storage.s3.publicbaseurl", "")

	v.SetDefault("jobs.stream", "assets:maintenance")
	v.SetDefault("jobs.group", "asset-workers")
	v.SetDefault("jobs.consumer", "worker-1")
	v.SetDefault("jobs.purgeschedule", "0 0 3 * * *")
	v.SetDefault("jobs.retention", "720h")
	v.SetDefault("jobs.claiminterval", "10s")
}
