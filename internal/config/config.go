package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Tasks    TaskConfig     `mapstructure:"tasks"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin 模式: debug / release / test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres / sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent / error / warn / info
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Issuer     string        `mapstructure:"issuer"`
	AdminEmail string        `mapstructure:"admin_email"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	LoginRate  int           `mapstructure:"login_rate"` // 每分钟允许的登录请求数（按客户端 IP）
	LoginBurst int           `mapstructure:"login_burst"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json / console
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	CartRetention    time.Duration `mapstructure:"cart_retention"` // 0 表示不清理
	CartCleanupCron  string        `mapstructure:"cart_cleanup_cron"`
	LimiterSweepCron string        `mapstructure:"limiter_sweep_cron"`
	LimiterIdle      time.Duration `mapstructure:"limiter_idle"`
}

// MinSecretLength HS256 密钥最小长度（字节）
const MinSecretLength = 32

// ==================== 加载 ====================

// Load 加载配置
// path 为空时只读取默认值与环境变量；环境变量前缀 APP_，层级用下划线连接，如 APP_AUTH_JWT_SECRET
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.Auth.AdminEmail))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults 默认值
// 每个键都需要注册默认值，否则 AutomaticEnv 在 Unmarshal 时读不到对应环境变量
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=product_trial port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.issuer", "product-trial")
	v.SetDefault("auth.admin_email", "admin@admin.com")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate", 5)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tasks.cart_retention", time.Duration(0))
	v.SetDefault("tasks.cart_cleanup_cron", "0 0 3 * * *")
	v.SetDefault("tasks.limiter_sweep_cron", "0 */10 * * * *")
	v.SetDefault("tasks.limiter_idle", 30*time.Minute)
}

// ==================== 校验 ====================

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d bytes", MinSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Auth.AdminEmail == "" {
		errs = append(errs, errors.New("auth.admin_email is required"))
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst <= 0 {
		errs = append(errs, errors.New("auth.login_rate and auth.login_burst must be positive"))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	if c.Tasks.CartRetention < 0 {
		errs = append(errs, errors.New("tasks.cart_retention must not be negative"))
	}

	return errors.Join(errs...)
}
