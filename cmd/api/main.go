package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-storefront/internal/core/auth"
	"go-gin-storefront/internal/core/cache"
	"go-gin-storefront/internal/core/config"
	"go-gin-storefront/internal/core/database"
	"go-gin-storefront/internal/core/logger"
	"go-gin-storefront/internal/core/server"
	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/repo"
	"go-gin-storefront/internal/service"
	"go-gin-storefront/internal/storage"
	"go-gin-storefront/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis 可选：会话存储（session.store=redis）和商品列表缓存共用一个客户端
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		store = session.NewRedisStore(rdb)
	default:
		mem := session.NewMemoryStore()
		go mem.RunSweeper(ctx, time.Minute)
		store = mem
	}
	ttl := time.Duration(cfg.Session.TTLMin) * time.Minute
	sessions := session.NewManager(store,
		&auth.Signer{Secret: []byte(cfg.Session.Secret), Issuer: cfg.App.Name, TTL: ttl},
		session.CookieOptions{Name: cfg.Session.CookieName, Domain: cfg.Session.Domain, Secure: cfg.Session.Secure},
	)

	uploads, err := newUploadStore(ctx, cfg)
	if err != nil {
		log.Fatal("upload store", zap.Error(err))
	}

	var catalogCache *cache.Cache
	if rdb != nil {
		catalogCache = cache.NewWithClient(rdb)
	}

	users := repo.NewUserRepo(db)
	suppliers := repo.NewSupplierRepo(db)
	products := repo.NewProductRepo(db)

	catalog := service.NewCatalogService(products, catalogCache,
		time.Duration(cfg.Limits.CatalogTTLSec)*time.Second, log)
	admin := service.NewAdminService(users, suppliers, products, uploads, log)
	admin.OnCatalogChange(catalog.Invalidate)
	admin.OnUserAccessChange(sessions.RevokeUser)

	r := router.NewEngine(router.Deps{
		Log:      log,
		Config:   cfg,
		Sessions: sessions,
		Auth:     service.NewAuthService(users, log),
		Admin:    admin,
		Catalog:  catalog,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if stdLog, err := logger.ToStdLogger(log, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdLog
	}

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("storefront starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("session_store", cfg.Session.Store),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("storefront start FAILED", zap.Error(err))
		}
	}()
	log.Info("storefront started SUCCESS")

	// 优雅关闭
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("storefront stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func newUploadStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Driver == "s3" {
		s := cfg.Storage.S3
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        s.Bucket,
			Region:        s.Region,
			Endpoint:      s.Endpoint,
			AccessKey:     s.AccessKey,
			SecretKey:     s.SecretKey,
			PublicBaseURL: s.PublicBaseURL,
		})
	}
	if err := os.MkdirAll(cfg.Static.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads dir: %w", err)
	}
	return storage.NewLocalStore(cfg.Static.UploadsDir), nil
}
