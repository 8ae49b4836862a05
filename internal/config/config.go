// Package config 应用配置
//
// 加载顺序（后者覆盖前者）：内置默认值 -> YAML 配置文件 -> .env 文件 -> MARKET_ 前缀环境变量 -> 命令行参数。
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 MARKET_DATABASE_DRIVER
const EnvPrefix = "MARKET"

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var (
	// ErrUnsupportedDriver 不支持的数据库驱动
	ErrUnsupportedDriver = errors.New("config: unsupported database driver")
	// ErrMissingSecret 未配置 JWT 密钥
	ErrMissingSecret = errors.New("config: auth.jwt_secret is required")
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	IDGen    IDGenConfig    `mapstructure:"idgen"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// AppConfig 应用信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development | production
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`    // debug | info | warn | error
	Encoding string `mapstructure:"encoding"` // json | console
	// File 为空时只输出到 stderr
	File       string        `mapstructure:"file"`
	MaxSizeMB  int           `mapstructure:"max_size_mb"`
	MaxBackups int           `mapstructure:"max_backups"`
	MaxAgeDays int           `mapstructure:"max_age_days"`
	Compress   bool          `mapstructure:"compress"`
	SlowQuery  time.Duration `mapstructure:"slow_query"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"` // sqlite 文件路径，":memory:" 为内存库
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig 广告缓存配置
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	AdTTL    time.Duration `mapstructure:"ad_ttl"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"` // 每秒请求数，<=0 不限流
	RateBurst    int           `mapstructure:"rate_burst"`
}

// AuthConfig 令牌配置
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// IDGenConfig Snowflake 节点配置
type IDGenConfig struct {
	DatacenterID int64 `mapstructure:"datacenter_id"`
	WorkerID     int64 `mapstructure:"worker_id"`
}

// CatalogConfig 品牌目录配置
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

var defaults = map[string]any{
	"app.name": "vehicle-market",
	"app.env":  "development",

	"log.level":        "info",
	"log.encoding":     "console",
	"log.file":         "",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
	"log.compress":     true,
	"log.slow_query":   200 * time.Millisecond,

	"database.driver":         DriverSQLite,
	"database.path":           "market.db",
	"database.host":           "localhost",
	"database.port":           5432,
	"database.user":           "",
	"database.password":       "",
	"database.name":           "vehicle_market",
	"database.sslmode":        "disable",
	"database.max_open_conns": 10,
	"database.max_idle_conns": 5,

	"redis.enabled":  false,
	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,
	"redis.ad_ttl":   5 * time.Minute,

	"server.addr":          ":8080",
	"server.read_timeout":  10 * time.Second,
	"server.write_timeout": 10 * time.Second,
	"server.rate_limit":    20.0,
	"server.rate_burst":    40,

	"auth.jwt_secret": "",
	"auth.issuer":     "vehicle-market",
	"auth.token_ttl":  24 * time.Hour,

	"idgen.datacenter_id": 0,
	"idgen.worker_id":     0,

	"catalog.path": "data/cars.json",
}

// Flags 注册全局命令行参数，参数名即配置键
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("log.level", "", "log level (debug|info|warn|error)")
	fs.String("database.driver", "", "database driver (sqlite|postgres|mysql)")
	fs.String("database.path", "", "sqlite database file")
	fs.String("server.addr", "", "HTTP listen address")
	fs.String("catalog.path", "", "vehicle catalog file (.json|.yaml)")
}

// Load 加载配置
// configFile 为空时只使用默认值与环境变量；fs 可为 nil，只有显式设置过的参数才会覆盖
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	// .env 不存在是正常情况
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if fs != nil {
		var bindErr error
		fs.Visit(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("config: bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Validate 检查运行 HTTP 服务所需的配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN 按驱动拼接连接串
func (d DatabaseConfig) DSN() (string, error) {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return "file::memory:?cache=shared", nil
		}
		return d.Path, nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:   "/" + d.Name,
		}
		q := u.Query()
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
		return u.String(), nil
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), d.Name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Driver)
	}
}
