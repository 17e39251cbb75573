package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Lmstfy LmstfyConfig `mapstructure:"lmstfy"`
	Ginee  GineeConfig  `mapstructure:"ginee"`
	Sync   SyncConfig   `mapstructure:"sync"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig MySQL 配置（离散字段，环境变量覆盖后拼接 DSN）
type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

// DSN 拼接 MySQL 连接串
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// GineeConfig Ginee 下游同步配置
type GineeConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
}

// SyncConfig 同步 Worker 配置
type SyncConfig struct {
	QueueName    string        `mapstructure:"queue_name"`
	Threads      int           `mapstructure:"threads"`
	Timeout      int           `mapstructure:"timeout"`       // 拉取消息超时（秒）
	TTR          int           `mapstructure:"ttr"`           // Time-To-Run（秒）
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 拉取出错退避时间
	WaitTimeout  time.Duration `mapstructure:"wait_timeout"`  // 手动重同步 Smart Wait 超时
}

// Load 加载配置文件，环境变量优先于文件
func Load(configPath string) (*Config, error) {
	setDefaults()
	bindEnvKeys()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 配置文件可以不存在（全部走环境变量 + 默认值）
	if _, statErr := os.Stat(configPath); statErr == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// setDefaults 默认值
func setDefaults() {
	viper.SetDefault("app.name", "grabsync")
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("mysql.host", "localhost")
	viper.SetDefault("mysql.port", 3306)
	viper.SetDefault("mysql.pool_size", 10)
	viper.SetDefault("lmstfy.namespace", "grabsync")
	viper.SetDefault("sync.queue_name", "ginee_sync")
	viper.SetDefault("sync.threads", 2)
	viper.SetDefault("sync.timeout", 3)
	viper.SetDefault("sync.ttr", 60)
	viper.SetDefault("sync.error_backoff", time.Second)
	viper.SetDefault("sync.wait_timeout", 30*time.Second)
	viper.SetDefault("ginee.max_attempts", 3)
	viper.SetDefault("ginee.attempt_timeout", 8*time.Second)
	viper.SetDefault("ginee.retry_delay", 2*time.Second)
}

// bindEnvKeys 绑定环境变量（沿用 cPanel 部署时的变量名）
func bindEnvKeys() {
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("mysql.host", "DB_HOST")
	_ = viper.BindEnv("mysql.port", "DB_PORT")
	_ = viper.BindEnv("mysql.user", "DB_USER")
	_ = viper.BindEnv("mysql.password", "DB_PASSWORD")
	_ = viper.BindEnv("mysql.name", "DB_NAME")
	_ = viper.BindEnv("mysql.pool_size", "DB_POOL_SIZE")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("lmstfy.host", "LMSTFY_HOST")
	_ = viper.BindEnv("lmstfy.port", "LMSTFY_PORT")
	_ = viper.BindEnv("lmstfy.token", "LMSTFY_TOKEN")
	_ = viper.BindEnv("ginee.endpoint", "GINEE_ENDPOINT")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.User == "" {
		return fmt.Errorf("mysql user is required")
	}
	if c.MySQL.Name == "" {
		return fmt.Errorf("mysql database name is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Ginee.Endpoint == "" {
		return fmt.Errorf("ginee endpoint is required")
	}
	if c.Ginee.MaxAttempts <= 0 {
		return fmt.Errorf("ginee max_attempts must be positive")
	}
	return nil
}
