package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Tables   TablesConfig   `mapstructure:"tables"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// TablesConfig 外部只读表配置
// SourceURL 指向试算表的 CSV 导出端点，按 ?sheet= 区分工作表。
type TablesConfig struct {
	SourceURL        string        `mapstructure:"source_url"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	EmployeeSheet    string        `mapstructure:"employee_sheet"`
	POHeaderSheet    string        `mapstructure:"po_header_sheet"`
	SupplierSheet    string        `mapstructure:"supplier_sheet"`
	ReceivingSheet   string        `mapstructure:"receiving_sheet"`
	PONumberPatterns []string      `mapstructure:"po_number_patterns"`
}

// BatchConfig 批号生成配置
// Strategy 取 timestamp 或 sequence，两种历史方案并存，部署时二选一。
type BatchConfig struct {
	Strategy            string `mapstructure:"strategy"`
	DefaultSupplierCode string `mapstructure:"default_supplier_code"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load() (*Config, error) {
	v := viper.New()

	// 设置配置文件
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在，使用默认值和环境变量
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "30m")

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("tables.fetch_timeout", "30s")
	v.SetDefault("tables.cache_ttl", "5m")
	v.SetDefault("tables.employee_sheet", "員工名冊")
	v.SetDefault("tables.po_header_sheet", "po_header")
	v.SetDefault("tables.supplier_sheet", "supplier_contacts")
	v.SetDefault("tables.receiving_sheet", "receiving_confirm")
	// 两种历史格式都接受：11位数字，或 PO+8位数字
	v.SetDefault("tables.po_number_patterns", []string{`^\d{11}$`, `^PO\d{8}$`})

	v.SetDefault("batch.strategy", "timestamp")
	v.SetDefault("batch.default_supplier_code", "000")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func bindEnvVariables(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Database
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tables
	v.BindEnv("tables.source_url", "TABLES_SOURCE_URL")

	// Batch
	v.BindEnv("batch.strategy", "BATCH_STRATEGY")
}
