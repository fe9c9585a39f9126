package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/domain"
	mdw "go-gin-storefront/internal/transport/http/middleware"
)

const adminPanelPrefix = "admin"

// PagesHandler 受保护的静态页面：/dashboard 与面板片段
type PagesHandler struct {
	dashboard string
	panelsDir string
	panels    map[string]string // 请求名 -> 白名单条目
	log       *zap.Logger
}

// NewPagesHandler 白名单里只接受不含目录成分的 .html 文件名，其余条目丢弃并告警
func NewPagesHandler(dashboardFile, panelsDir string, allow []string, log *zap.Logger) *PagesHandler {
	panels := make(map[string]string, len(allow))
	for _, name := range allow {
		if !validPanelName(name) {
			log.Warn("panel ignored", zap.String("name", name))
			continue
		}
		panels[name] = name
	}
	return &PagesHandler{dashboard: dashboardFile, panelsDir: panelsDir, panels: panels, log: log}
}

func validPanelName(name string) bool {
	return name != "" &&
		filepath.Base(name) == name &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.HasPrefix(name, ".") &&
		strings.HasSuffix(name, ".html")
}

func (h *PagesHandler) Priority() int { return 20 }

// MountAPI 面板路由不挂登录中间件：白名单判断必须先于登录判断
func (h *PagesHandler) MountAPI(r *gin.RouterGroup) {
	r.GET("/dashboard", mdw.RequireAuthenticated(), mdw.NoCache(), h.dashboardPage)
	r.GET("/api/admin/panel/:panelName", mdw.NoCache(), h.panel)
}

func (h *PagesHandler) dashboardPage(c *gin.Context) {
	h.serve(c, h.dashboard)
}

// panel 顺序：白名单（不论是否登录，未命中一律 404）→ 登录 → admin 前缀要求管理员角色
func (h *PagesHandler) panel(c *gin.Context) {
	entry, ok := h.panels[c.Param("panelName")]
	if !ok {
		c.String(http.StatusNotFound, "Panel no encontrado")
		return
	}
	if !mdw.Authenticated(c, true) {
		return
	}
	if strings.HasPrefix(entry, adminPanelPrefix) && !session.HasRole(mdw.CurrentSession(c), domain.RoleAdmin) {
		mdw.Deny(c, http.StatusForbidden, "Acceso denegado")
		return
	}
	h.serve(c, filepath.Join(h.panelsDir, entry))
}

func (h *PagesHandler) serve(c *gin.Context, path string) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.log.Error("stat page", zap.String("path", path), zap.Error(err))
		}
		c.String(http.StatusNotFound, "Archivo no encontrado")
		return
	}
	c.File(path)
}
