package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	MailConsole  = "console"
	MailSendgrid = "sendgrid"
)

type Config struct {
	Env           string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    HTTPServer    `yaml:"http_server"`
	Storage       Storage       `yaml:"storage"`
	Postgres      Postgres      `yaml:"postgres"`
	JWT           JWT           `yaml:"jwt"`
	ES            ES            `yaml:"elasticsearch"`
	Minio         Minio         `yaml:"minio"`
	Redis         Redis         `yaml:"redis"`
	Mail          Mail          `yaml:"mail"`
	Notifications Notifications `yaml:"notifications"`
	Enrollment    Enrollment    `yaml:"enrollment"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type Minio struct {
	Endpoint  string                  `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string                  `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string                  `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool                    `yaml:"use_ssl"`
	Buckets   map[string]BucketConfig `yaml:"buckets"`
}

type BucketConfig struct {
	Name       string        `yaml:"name"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

// Bucket names used under minio.buckets.
const (
	BucketImages    = "images"
	BucketMaterials = "materials"
)

type ES struct {
	Hosts      []string `yaml:"hosts"`
	Index      string   `yaml:"index" env-default:"courses"`
	Username   string   `yaml:"username" env:"ES_USERNAME" env-default:"elastic"`
	Password   string   `yaml:"password" env:"ES_PASSWORD"`
	MaxRetries int      `yaml:"max_retries" env-default:"3"`
}

type JWT struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer     string        `yaml:"issuer" env-default:"simplemooc"`
	AccessTTL  time.Duration `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_token_ttl" env-default:"720h"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`

	// SkipMigrations leaves the schema alone at start-up.
	SkipMigrations bool `yaml:"skip_migrations" env:"POSTGRES_SKIP_MIGRATIONS"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	AllowOrigins    []string      `yaml:"allow_origins"`
}

type Redis struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
	Login    int           `yaml:"login_limit" env-default:"10"`
	Contact  int           `yaml:"contact_limit" env-default:"5"`
	Enroll   int           `yaml:"enroll_limit" env-default:"20"`
}

type Mail struct {
	Backend      string `yaml:"backend" env:"MAIL_BACKEND" env-default:"console"`
	SendgridKey  string `yaml:"sendgrid_key" env:"SENDGRID_API_KEY"`
	FromName     string `yaml:"from_name" env-default:"SimpleMOOC"`
	FromEmail    string `yaml:"from_email" env:"MAIL_FROM" env-default:"no-reply@simplemooc.local"`
	ContactEmail string `yaml:"contact_email" env:"CONTACT_EMAIL" env-default:"contact@simplemooc.local"`
	Site         string `yaml:"site" env-default:"SimpleMOOC"`
}

type Notifications struct {
	Async bool `yaml:"async" env:"NOTIFICATIONS_ASYNC"`
}

// Enrollment.AutoApprove is a pointer so that an explicit false in the file
// survives defaulting.
type Enrollment struct {
	AutoApprove *bool `yaml:"auto_approve"`
}

// AutoApproveEnabled is true unless auto_approve is set to false.
func (e Enrollment) AutoApproveEnabled() bool {
	return e.AutoApprove == nil || *e.AutoApprove
}

// Load reads path after loading an optional .env file from the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Mail.Backend {
	case MailConsole:
	case MailSendgrid:
		if c.Mail.SendgridKey == "" {
			return errors.New("mail.sendgrid_key is required for the sendgrid backend")
		}
	default:
		return fmt.Errorf("unknown mail backend %q", c.Mail.Backend)
	}
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key is required")
	}
	return nil
}

func MustLoad() *Config {
	_ = godotenv.Load()
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Can not read config: %s", err)
	}
	return cfg
}
