package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

type SecurityConfig struct {
	MaxBodySize    int64    `json:"maxBodySize" yaml:"maxBodySize"` // 单位：字节
	AllowedMethods []string `json:"allowedMethods" yaml:"allowedMethods"`
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout" yaml:"requestTimeout"` // 单位：秒
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins" yaml:"allowOrigins"`
	AllowMethods     []string      `json:"allowMethods" yaml:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders" yaml:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders" yaml:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials" yaml:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge" yaml:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains" yaml:"trustedDomains"`
}

type JWTAuthConfig struct {
	Secret         string        `json:"secret" yaml:"secret"`
	ExpireDuration time.Duration `json:"expireDuration" yaml:"expireDuration"`
	Issuer         string        `json:"issuer" yaml:"issuer"`
	SigningMethod  string        `json:"signingMethod" yaml:"signingMethod"`
}

type RateLimitConfig struct {
	Rate     int           `json:"rate" yaml:"rate"`
	Interval time.Duration `json:"interval" yaml:"interval"`
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security" yaml:"security"`
	JWT       JWTAuthConfig   `json:"jwt" yaml:"jwt"`
	Timeout   TimeoutConfig   `json:"timeout" yaml:"timeout"`
	CORS      CORSConfig      `json:"cors" yaml:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
}

type DatabaseConfig struct {
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`
	DBName      string `json:"dbname" yaml:"dbname"`
	UseUnixSock bool   `json:"useUnixSock" yaml:"useUnixSock"` // host 字段存放 socket 路径
	MinPoolSize int    `json:"minPoolSize" yaml:"minPoolSize"`
	MaxPoolSize int    `json:"maxPoolSize" yaml:"maxPoolSize"`
	LogLevel    string `json:"logLevel" yaml:"logLevel"` // GORM日志级别
}

// RedisConfig 令牌吊销列表使用；Addr 为空时退回内存实现
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// NeedsConfig holds the needs/commitments rules.
type NeedsConfig struct {
	// FulfillmentThreshold is the committed quantity at which a need flips to
	// fulfilled. Zero disables the transition.
	FulfillmentThreshold int    `json:"fulfillmentThreshold" yaml:"fulfillmentThreshold"`
	TitleLocale          string `json:"titleLocale" yaml:"titleLocale"`
}

type UrgencyConfig struct {
	BaseURL string        `json:"baseURL" yaml:"baseURL"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Redis      RedisConfig      `json:"redis" yaml:"redis"`
	Middleware MiddlewareConfig `json:"middleware" yaml:"middleware"`
	Auth       AuthConfig       `json:"auth" yaml:"auth"`
	Needs      NeedsConfig      `json:"needs" yaml:"needs"`
	Urgency    UrgencyConfig    `json:"urgency" yaml:"urgency"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Env        string           `json:"env" yaml:"env"` // 环境标识
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	c := Config{
		Server: ServerConfig{
			Address: ":4000",
		},
		Database: DatabaseConfig{
			Host:        "127.0.0.1",
			Port:        3306,
			Username:    "root",
			Password:    "",
			DBName:      "samaajseva",
			MinPoolSize: 2,
			MaxPoolSize: 10,
			LogLevel:    "warn",
		},
		Middleware: MiddlewareConfig{
			Security: SecurityConfig{
				MaxBodySize:    1 << 20, // 1MB
				AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			},
			JWT: JWTAuthConfig{
				Secret:         "dev-secret-change-me-in-production", // 开发环境默认密钥
				ExpireDuration: 24 * time.Hour,
				Issuer:         "samaajseva",
				SigningMethod:  "HS256",
			},
			Timeout: TimeoutConfig{
				RequestTimeout: 15,
			},
			CORS: CORSConfig{
				AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
				AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
				ExposeHeaders:    []string{"Content-Length"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
			RateLimit: RateLimitConfig{
				Rate:     20,
				Interval: 50 * time.Millisecond,
			},
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		Needs: NeedsConfig{
			FulfillmentThreshold: 50,
			TitleLocale:          "en",
		},
		Urgency: UrgencyConfig{
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Env: "development",
	}
	return &c
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > .env > 配置文件 > 默认值）
func Load() *Config {
	config := Default()

	if configPath := getConfigPath(); configPath != "" {
		if err := LoadFile(config, configPath); err != nil {
			hlog.Warnf("Failed to load config file %s: %v", configPath, err)
		}
	}

	// .env 不覆盖已存在的环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		hlog.Warnf("Failed to load .env: %v", err)
	}

	loadFromEnv(config)
	return config
}

func getConfigPath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	searchPaths := []string{
		"./config.yaml",
		"./config.json",
		"../config.json",
		"/etc/samaajseva/config.yaml",
		"/etc/samaajseva/config.json",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile merges the file at path into config. The format follows the
// extension: .yaml/.yml or JSON otherwise.
func LoadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

func loadFromEnv(config *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.Server.Address = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}

	// 中间件配置
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Middleware.Security.MaxBodySize = size
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			config.Middleware.Timeout.RequestTimeout = timeout
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			config.Middleware.RateLimit.Rate = rate
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.Middleware.CORS.AllowOrigins = splitEnvList(v)
	}

	/****** JWT 配置 ******/
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Middleware.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRATION"); v != "" {
		if duration, err := time.ParseDuration(v); err == nil {
			config.Middleware.JWT.ExpireDuration = duration
		} else {
			hlog.Warnf("Invalid JWT_EXPIRATION format: %v", err)
		}
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		config.Middleware.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_ALGORITHM"); v != "" {
		algorithm := strings.ToLower(strings.ReplaceAll(v, " ", ""))
		validAlgorithms := map[string]bool{
			"hs256": true,
			"hs384": true,
			"hs512": true,
		}
		if validAlgorithms[algorithm] {
			config.Middleware.JWT.SigningMethod = strings.ToUpper(algorithm)
		} else {
			hlog.Warnf("Unsupported JWT algorithm: %s", v)
		}
	}

	// 数据库配置
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.Username = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.DBName = v
	}
	if v := os.Getenv("DB_SOCKET"); v != "" {
		config.Database.UseUnixSock = parseBool(v)
	}
	if v := os.Getenv("DB_MIN_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MinPoolSize = size
		}
	}
	if v := os.Getenv("DB_MAX_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MaxPoolSize = size
		}
	}
	if v := os.Getenv("DB_LOG_LEVEL"); v != "" {
		config.Database.LogLevel = strings.ToLower(v)
	}

	// Redis
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			config.Redis.DB = db
		}
	}

	// 业务配置
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			config.Auth.BcryptCost = cost
		}
	}
	if v := os.Getenv("NEEDS_FULFILLMENT_THRESHOLD"); v != "" {
		if threshold, err := strconv.Atoi(v); err == nil && threshold >= 0 {
			config.Needs.FulfillmentThreshold = threshold
		} else {
			hlog.Warnf("Invalid NEEDS_FULFILLMENT_THRESHOLD: %s", v)
		}
	}
	if v := os.Getenv("NEEDS_TITLE_LOCALE"); v != "" {
		config.Needs.TitleLocale = v
	}
	if v := os.Getenv("URGENCY_URL"); v != "" {
		config.Urgency.BaseURL = strings.TrimRight(v, "/")
	}
}

// 分割环境变量列表（支持逗号分隔的字符串）
func splitEnvList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// DSN 构建 MySQL 连接串
func (c *Config) DSN() string {
	charsetParam := "charset=utf8mb4&parseTime=True&loc=Local"
	if c.Database.UseUnixSock {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.DBName,
			charsetParam)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		charsetParam)
}

// GormConfig returns the GORM settings shared by every dialector.
func (c *Config) GormConfig() *gorm.Config {
	gormConfig := &gorm.Config{TranslateError: true}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gormConfig
}

func (c *Config) InitDB() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(c.DSN()), c.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
