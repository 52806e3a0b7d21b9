package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sepagateway/kit/db"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrGatewayDisabled marks a configuration the process can run with, but
	// without the SlimPay integration.
	ErrGatewayDisabled = errors.New("slimpay gateway disabled")
)

var validate = validator.New()

type Config struct {
	AppHost     string        `mapstructure:"app_host"`
	AppPort     int           `mapstructure:"app_port" validate:"gte=1,lte=65535"`
	PublicURL   string        `mapstructure:"public_url" validate:"omitempty,url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gte=0"`

	SlimPayAppID      string `mapstructure:"slimpay_app_id"`
	SlimPayAppSecret  string `mapstructure:"slimpay_app_secret"`
	SlimPayCreditor   string `mapstructure:"slimpay_creditor"`
	SlimPayProduction bool   `mapstructure:"slimpay_production"`
	SlimPayEndpoint   string `mapstructure:"slimpay_endpoint" validate:"omitempty,url"`

	ShopCurrency        string   `mapstructure:"shop_currency" validate:"required,len=3"`
	SupportedCurrencies []string `mapstructure:"supported_currencies" validate:"min=1,dive,len=3"`
	DebitLabel          string   `mapstructure:"debit_label"`
	Description         string   `mapstructure:"description"`
	DescriptionAlt      string   `mapstructure:"description_alt"`
	ConfirmationText    string   `mapstructure:"confirmation_text"`

	StoreDriver   string `mapstructure:"store_driver" validate:"oneof=memory bolt redis gorm"`
	BoltPath      string `mapstructure:"bolt_path" validate:"required_if=StoreDriver bolt"`
	CacheHost     string `mapstructure:"cache_host"`
	CachePort     string `mapstructure:"cache_port"`
	CachePassword string `mapstructure:"cache_password"`
	CacheDB       int    `mapstructure:"cache_db" validate:"gte=0"`

	DBDriver   string `mapstructure:"db_driver" validate:"oneof=mysql sqlite"`
	DBDSN      string `mapstructure:"db_dsn"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBHost     string `mapstructure:"db_host"`
	DBName     string `mapstructure:"db_name"`

	SessionStore      string `mapstructure:"session_store" validate:"oneof=memory redis"`
	SchedulerUser     string `mapstructure:"scheduler_user"`
	SchedulerPassword string `mapstructure:"scheduler_password"`
	AuditPath         string `mapstructure:"audit_path"`
}

var defaults = map[string]any{
	"app_host":             "0.0.0.0",
	"app_port":             8080,
	"public_url":           "http://localhost:8080",
	"http_timeout":         30 * time.Second,
	"slimpay_app_id":       "",
	"slimpay_app_secret":   "",
	"slimpay_creditor":     "",
	"slimpay_production":   false,
	"slimpay_endpoint":     "",
	"shop_currency":        "EUR",
	"supported_currencies": []string{"EUR"},
	"debit_label":          "",
	"description":          "",
	"description_alt":      "",
	"confirmation_text":    "",
	"store_driver":         "gorm",
	"bolt_path":            "sepagateway.db",
	"cache_host":           "localhost",
	"cache_port":           "6379",
	"cache_password":       "",
	"cache_db":             0,
	"db_driver":            "sqlite",
	"db_dsn":               "",
	"db_user":              "",
	"db_password":          "",
	"db_host":              "localhost:3306",
	"db_name":              "sepagateway",
	"session_store":        "memory",
	"scheduler_user":       "",
	"scheduler_password":   "",
	"audit_path":           "",
}

type LoadOptions struct {
	// EnvFiles are read in order when present; values already set in the
	// environment win.
	EnvFiles []string
	// ConfigFile is an optional YAML file; environment variables override it.
	ConfigFile string
}

func DefaultLoadOptions() LoadOptions {
	return LoadOptions{EnvFiles: []string{".env", "../../.env"}}
}

// Load reads .env files, the optional YAML file and the environment, in
// increasing order of precedence.
func Load(opts LoadOptions) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("env file %s: %w", f, err))
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("config file %s: %w", opts.ConfigFile, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	cfg.normalize()
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.ShopCurrency = strings.ToUpper(strings.TrimSpace(c.ShopCurrency))
	out := c.SupportedCurrencies[:0]
	for _, cur := range c.SupportedCurrencies {
		if cur = strings.ToUpper(strings.TrimSpace(cur)); cur != "" {
			out = append(out, cur)
		}
	}
	c.SupportedCurrencies = out
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
}

// GatewayErr reports why the SlimPay integration cannot be used: missing
// credentials or a shop currency the processor does not accept.
func (c *Config) GatewayErr() error {
	var errs []error
	if c.SlimPayAppID == "" || c.SlimPayAppSecret == "" {
		errs = append(errs, errors.New("app id and app secret are required"))
	}
	if c.SlimPayCreditor == "" {
		errs = append(errs, errors.New("creditor reference is required"))
	}
	if !c.currencySupported() {
		errs = append(errs, fmt.Errorf("currency %s is not supported", c.ShopCurrency))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrGatewayDisabled}, errs...)...)
}

func (c *Config) Enabled() bool {
	return c.GatewayErr() == nil
}

func (c *Config) currencySupported() bool {
	for _, cur := range c.SupportedCurrencies {
		if cur == c.ShopCurrency {
			return true
		}
	}
	return false
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

// GormDSN is DB_DSN when set, otherwise a DSN assembled for DB_DRIVER.
func (c *Config) GormDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "mysql" {
		return db.MySQLDSN(c.DBUser, c.DBPassword, c.DBHost, c.DBName)
	}
	return c.DBName + ".sqlite"
}

// UsesRedis reports whether any component needs the cache server.
func (c *Config) UsesRedis() bool {
	return c.StoreDriver == "redis" || c.SessionStore == "redis"
}

// SchedulerAuth is false when no scheduler credentials are configured, which
// disables the recurring charge endpoint.
func (c *Config) SchedulerAuth() bool {
	return c.SchedulerUser != "" && c.SchedulerPassword != ""
}
