package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	CORSOrigin string `mapstructure:"cors_origin"`
	// SecureCookies marks auth cookies Secure. Disable only for plain-http local runs.
	SecureCookies bool `mapstructure:"secure_cookies"`
	// TrustedProxies may set X-Forwarded-For. Empty means the socket address
	// is the client IP.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
	// SearchIndex is the Atlas Search index used by the video feed's full-text query.
	SearchIndex string `mapstructure:"search_index"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL prefixes object keys to build the URLs stored on documents.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig defines the secrets and lifetimes of both token kinds.
type JWTConfig struct {
	AccessSecret      string        `mapstructure:"access_secret"`
	AccessExpiration  time.Duration `mapstructure:"access_expiration"`
	RefreshSecret     string        `mapstructure:"refresh_secret"`
	RefreshExpiration time.Duration `mapstructure:"refresh_expiration"`
}

type UploadConfig struct {
	TempDir       string `mapstructure:"temp_dir"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
	MaxVideoBytes int64  `mapstructure:"max_video_bytes"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type RateLimitConfig struct {
	AuthRequests int           `mapstructure:"auth_requests"`
	AuthWindow   time.Duration `mapstructure:"auth_window"`
	AuthBurst    int           `mapstructure:"auth_burst"`
}

// LoadConfig reads configuration from file or environment variables.
// An optional .env file in path is loaded into the process environment first.
func LoadConfig(path string) (config Config, err error) {
	// Variables already present in the environment win over .env entries.
	if envErr := godotenv.Load(filepath.Join(path, ".env")); envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		return config, envErr
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.access_secret -> JWT_ACCESS_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file; defaults and environment only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	return config, nil
}

// Validate reports configuration the server cannot start without.
func (c Config) Validate() error {
	var missing []string
	if c.JWT.AccessSecret == "" {
		missing = append(missing, "jwt.access_secret")
	}
	if c.JWT.RefreshSecret == "" {
		missing = append(missing, "jwt.refresh_secret")
	}
	if c.Database.URI == "" {
		missing = append(missing, "database.uri")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.secure_cookies", true)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "videotube")
	v.SetDefault("database.search_index", "search-videos")
	v.SetDefault("s3.use_ssl", true)
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_expiration", "15m")
	v.SetDefault("jwt.refresh_expiration", "240h")
	v.SetDefault("upload.temp_dir", "./public/temp")
	v.SetDefault("upload.max_image_bytes", 5*1024*1024)
	v.SetDefault("upload.max_video_bytes", 200*1024*1024)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.stats_ttl", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("ratelimit.auth_requests", 10)
	v.SetDefault("ratelimit.auth_window", "1m")
	v.SetDefault("ratelimit.auth_burst", 5)
}
