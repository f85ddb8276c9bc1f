package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Store      StoreConfig      `yaml:"store"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Tunnel     TunnelConfig     `yaml:"tunnel"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Host        string        `yaml:"host" env:"HOST" env-default:""`
	Port        int           `yaml:"port" env:"PORT" env-default:"3009"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Address адрес для net.Listen
func (c HTTPServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// StoreConfig настройки витрины
type StoreConfig struct {
	FeaturedItem string `yaml:"featured_item" env:"FEATURED_ITEM" env-default:"sku42"`
}

// GatewayConfig ключи и адрес API Switch (доступны в дашборде Switch)
type GatewayConfig struct {
	BaseURL          string        `yaml:"base_url" env:"SWITCH_API_URL" env-default:"https://api-test.switchpayments.com/v2/"`
	AccountID        string        `yaml:"-" env:"SWITCH_ACCOUNT_ID" env-required:"true"`
	PrivateKey       string        `yaml:"-" env:"SWITCH_PRIVATE_KEY" env-required:"true"`
	PublicKey        string        `yaml:"-" env:"SWITCH_PUBLIC_KEY" env-required:"true"`
	Timeout          time.Duration `yaml:"timeout" env-default:"30s"`
	FailureThreshold uint32        `yaml:"failure_threshold" env-default:"5"`
	OpenTimeout      time.Duration `yaml:"open_timeout" env-default:"30s"`
}

// TunnelConfig публичный туннель к локальному порту.
// Туннель включён по умолчанию, поэтому флаг инвертирован: false - нулевое значение bool.
type TunnelConfig struct {
	Disabled  bool   `yaml:"disabled" env:"TUNNEL_DISABLED"`
	AgentAPI  string `yaml:"agent_api" env:"NGROK_AGENT_API" env-default:"http://127.0.0.1:4040"`
	Name      string `yaml:"name" env-default:"switch-merchant"`
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
}

// Enabled запрашивать ли туннель у агента
func (c TunnelConfig) Enabled() bool {
	return !c.Disabled
}

// StorageConfig выбор хранилища: memory или postgres
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"merchant"`
}

// AdminConfig - если секрет пуст, /orders открыт всем
type AdminConfig struct {
	JWTSecret string `yaml:"-" env:"ADMIN_JWT_SECRET"`
	TokenTTL  int    `yaml:"token_ttl" env-default:"60"` // минуты
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	// .env не обязателен
	_ = godotenv.Load()

	configPath := fetchConfigPath()
	if configPath == "" {
		return MustLoadFromEnv()
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

// MustLoadAdmin читает только секцию admin: для выпуска токена ключи шлюза не нужны.
func MustLoadAdmin() *AdminConfig {
	_ = godotenv.Load()

	cfg, err := LoadAdmin(fetchConfigPath())
	if err != nil {
		log.Fatalf("can't read admin config: %v", err)
	}
	return cfg
}

// LoadAdmin читает секцию admin из файла (если путь задан) и окружения.
func LoadAdmin(configPath string) (*AdminConfig, error) {
	var cfg struct {
		Admin AdminConfig `yaml:"admin"`
	}

	var err error
	if configPath != "" {
		err = cleanenv.ReadConfig(configPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, err
	}
	return &cfg.Admin, nil
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}

// MustLoadFromEnv читает конфигурацию только из переменных окружения.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatalf("can't read config from environment: %v", err)
	}
	return cfg
}

func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
