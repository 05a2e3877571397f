package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"samaajseva/pkg/common/config"
	"samaajseva/pkg/core/schema"
	"samaajseva/pkg/core/session"
	"samaajseva/pkg/web/handler"
	"samaajseva/pkg/web/router"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "web",
	Short: "SamaajSeva API server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("APP_CONFIG", configPath); err != nil {
				return err
			}
		}
		// 初始化配置
		cfg = config.Load()
		setupLogger(cfg.Log.Level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cfg.InitDB()
		if err != nil {
			return err
		}
		if err := schema.AutoMigrate(db); err != nil {
			return err
		}
		hlog.Infof("schema migrated on %s", cfg.Database.DBName)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml or json); overrides APP_CONFIG")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := schema.AutoMigrate(db); err != nil {
		return err
	}

	denylist, err := newDenylist(cfg.Redis)
	if err != nil {
		return err
	}

	hs, err := handler.NewHandlers(cfg, db, denylist)
	if err != nil {
		return err
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		closeDB(db)
	})

	// 注册路由
	router.RegisterAPIs(h, cfg, hs)

	// 启动服务
	h.Spin()
	return nil
}

// newDenylist prefers Redis so revocations survive restarts and are shared
// across instances.
func newDenylist(rc config.RedisConfig) (session.Denylist, error) {
	if rc.Addr == "" {
		hlog.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		return session.NewMemoryDenylist(), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", rc.Addr, err)
	}
	return session.NewRedisDenylist(rdb), nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		hlog.Errorf("close database: %v", err)
	}
}

func setupLogger(level string) {
	hlog.SetLogger(hertzzap.NewLogger(
		hertzzap.WithZapOptions(zap.AddCaller(), zap.AddCallerSkip(3)),
	))
	hlog.SetLevel(parseLevel(level))
}

func parseLevel(level string) hlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn", "warning":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	case "fatal":
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}
