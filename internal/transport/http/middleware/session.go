package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/domain"
	resp "go-gin-storefront/internal/transport/http/response"
)

const (
	keySession      = "session"
	keySessionToken = "session_token"
	keySessionErr   = "session_err"
)

// LoadSession 解析 sid cookie 并把服务端会话放进 gin.Context。
// 没 cookie、签名无效、过期都视为“无会话”；存储本身出错时记下来，交给门禁返回 500。
func LoadSession(m *session.Manager, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, p, err := m.Resolve(c.Request)
		switch {
		case err == nil:
			c.Set(keySession, p)
			c.Set(keySessionToken, token)
		case errors.Is(err, session.ErrNotFound):
		default:
			l.Error("session lookup", zap.String("rid", RequestIDOf(c)), zap.Error(err))
			c.Set(keySessionErr, err)
		}
		c.Next()
	}
}

// CurrentSession 当前请求的会话，未登录为 nil
func CurrentSession(c *gin.Context) *session.Payload {
	v, ok := c.Get(keySession)
	if !ok {
		return nil
	}
	p, _ := v.(*session.Payload)
	return p
}

// CurrentToken 当前会话的 token，未登录为空串
func CurrentToken(c *gin.Context) string { return c.GetString(keySessionToken) }

// RequireAuthenticated 必须已登录。JSON 客户端拿 401，浏览器跳回首页。
func RequireAuthenticated() gin.HandlerFunc { return requireAuth(true) }

// RequireAuthenticatedAPI 纯接口用：未登录一律 401，不跳转
func RequireAuthenticatedAPI() gin.HandlerFunc { return requireAuth(false) }

func requireAuth(redirect bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Authenticated(c, redirect) {
			c.Next()
		}
	}
}

// Authenticated 供处理函数内联使用的登录判断：未通过时已写好响应并中断，返回 false。
// redirect 为 true 时浏览器请求跳回首页，否则一律 401。
func Authenticated(c *gin.Context, redirect bool) bool {
	if _, failed := c.Get(keySessionErr); failed {
		Deny(c, http.StatusInternalServerError, "Error al verificar la sesión")
		return false
	}
	if CurrentSession(c) != nil {
		return true
	}
	if !redirect || WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "No autenticado"))
		return false
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
	return false
}

// RequireAdmin 必须是管理员。自身也先走登录判断，单独挂载时同样成立。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authenticated(c, true) {
			return
		}
		if !session.HasRole(CurrentSession(c), domain.RoleAdmin) {
			Deny(c, http.StatusForbidden, "Acceso denegado")
			return
		}
		c.Next()
	}
}

// WantsJSON Accept 声明 JSON 或者是 XHR 请求
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest")
}

// Deny 按客户端类型返回 JSON 或纯文本并中断
func Deny(c *gin.Context, status int, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, resp.Error(status, msg))
		return
	}
	c.Abort()
	c.String(status, msg)
}
