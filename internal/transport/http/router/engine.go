package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-storefront/internal/core/config"
	"go-gin-storefront/internal/core/server"
	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/service"
	"go-gin-storefront/internal/transport/http/handler"
	mdw "go-gin-storefront/internal/transport/http/middleware"
	resp "go-gin-storefront/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	Config   *config.Config
	Sessions *session.Manager
	Auth     *service.AuthService
	Admin    *service.AdminService
	Catalog  *service.CatalogService
}

// NewEngine 组装完整的店面 engine：全局中间件 -> 健康检查/指标 -> 业务模块 -> 静态文件
func NewEngine(d Deps) *gin.Engine {
	cfg := d.Config
	r := server.NewRouter(d.Log, cfg.App.HTTP.CORSOrigins)

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
	)
	lim := cfg.Limits
	if lim.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency, time.Duration(lim.QueueWaitMs)*time.Millisecond))
	}
	if lim.MaxBodyMB > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyMB << 20))
	}
	if lim.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second, d.Log))
	}
	r.Use(mdw.LoadSession(d.Sessions, d.Log))

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRPS, authBurst := lim.AuthRPS, lim.AuthBurst
	if authRPS <= 0 {
		authRPS = float64(rate.Inf)
	}
	reg := &Registry{}
	reg.Register(
		handler.NewAuthHandler(d.Auth, d.Sessions, d.Log, authRPS, max(1, authBurst)),
		handler.NewPagesHandler(cfg.Static.DashboardFile, cfg.Static.PanelsDir, cfg.Static.Panels, d.Log),
		handler.NewCatalogHandler(d.Catalog, d.Log),
		handler.NewAdminUsersHandler(d.Admin, d.Log),
		handler.NewAdminSuppliersHandler(d.Admin, d.Log),
		handler.NewAdminProductsHandler(d.Admin, d.Log),
	)

	reg.MountAPI(&r.RouterGroup)

	// 管理端统一要求管理员
	admin := r.Group("/api/admin", mdw.RequireAuthenticated(), mdw.RequireAdmin())
	reg.MountAdmin(admin)

	if cfg.Static.UploadsDir != "" && cfg.Storage.Driver != "s3" {
		r.Static("/uploads", cfg.Static.UploadsDir)
	}
	r.NoRoute(publicFiles(cfg.Static.PublicDir))

	return r
}

// publicFiles 店面静态页兜底；不列目录
func publicFiles(dir string) gin.HandlerFunc {
	var fileServer http.Handler
	if dir != "" {
		fileServer = http.FileServer(gin.Dir(dir, false))
	}
	return func(c *gin.Context) {
		m := c.Request.Method
		if fileServer == nil || (m != http.MethodGet && m != http.MethodHead) {
			c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
