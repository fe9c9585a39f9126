package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/service"
	mdw "go-gin-storefront/internal/transport/http/middleware"
	resp "go-gin-storefront/internal/transport/http/response"
)

// AuthHandler /signup /login /logout /me
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	log      *zap.Logger
	limit    gin.HandlerFunc
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, log *zap.Logger, rps float64, burst int) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		log:      log,
		limit:    mdw.RateLimitPerIP(rate.Limit(rps), burst),
	}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(r *gin.RouterGroup) {
	r.POST("/signup", h.limit, h.signup)
	r.POST("/login", h.limit, h.login)
	r.POST("/logout", h.logout)
	r.GET("/me", mdw.RequireAuthenticatedAPI(), h.me)
}

type signupReq struct {
	Name            string `json:"name"             form:"name"`
	ApellidoPaterno string `json:"apellido_paterno" form:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno" form:"apellido_materno"`
	Email           string `json:"email"            form:"email"`
	Password        string `json:"password"         form:"password"`
	Genero          string `json:"Genero"           form:"Genero"`
	Telefono        string `json:"telefono"         form:"telefono"`
}

// signup 纯文本响应；成功不建会话
func (h *AuthHandler) signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBind(&in); err != nil {
		mdw.ObserveAuth("signup", "bad_request")
		c.String(http.StatusBadRequest, "Datos de registro inválidos")
		return
	}
	err := h.auth.Signup(c.Request.Context(), service.SignupInput(in))
	switch {
	case err == nil:
		mdw.ObserveAuth("signup", "ok")
		c.String(http.StatusOK, "Usuario registrado exitosamente")
	case errors.Is(err, service.ErrValidation):
		mdw.ObserveAuth("signup", "validation")
		c.String(http.StatusBadRequest, "Todos los campos son obligatorios")
	case errors.Is(err, service.ErrDuplicateEmail):
		mdw.ObserveAuth("signup", "duplicate")
		c.String(http.StatusBadRequest, "El correo ya está registrado")
	default:
		mdw.ObserveAuth("signup", "error")
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Error al registrar usuario")
	}
}

type loginReq struct {
	Usuario  string `json:"usuario"  form:"usuario"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBind(&in); err != nil {
		mdw.ObserveAuth("login", "bad_request")
		c.JSON(http.StatusBadRequest, resp.Mensaje{Mensaje: "Datos de inicio de sesión inválidos"})
		return
	}
	ctx := c.Request.Context()
	p, err := h.auth.Authenticate(ctx, in.Usuario, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		mdw.ObserveAuth("login", "validation")
		c.JSON(http.StatusBadRequest, resp.Mensaje{Mensaje: "Usuario y contraseña son obligatorios"})
		return
	case errors.Is(err, service.ErrUserNotFound):
		mdw.ObserveAuth("login", "unknown_user")
		c.JSON(http.StatusNotFound, resp.Mensaje{Mensaje: "Usuario no encontrado", Caso: 1})
		return
	case errors.Is(err, service.ErrInvalidPassword):
		mdw.ObserveAuth("login", "bad_password")
		c.JSON(http.StatusUnauthorized, resp.Mensaje{Mensaje: "Contraseña incorrecta", Caso: 2})
		return
	default:
		mdw.ObserveAuth("login", "error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, resp.Mensaje{Mensaje: msgServerError})
		return
	}

	// 旧会话先作废，避免会话固定
	if old := mdw.CurrentToken(c); old != "" {
		if err := h.sessions.Revoke(ctx, old); err != nil {
			h.log.Warn("revoke previous session", zap.Error(err))
		}
	}
	if err := h.sessions.Start(ctx, c.Writer, p); err != nil {
		mdw.ObserveAuth("login", "error")
		h.log.Error("start session", zap.Uint("uid", p.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Mensaje{Mensaje: msgServerError})
		return
	}
	mdw.ObserveAuth("login", "ok")
	h.log.Info("user logged in", zap.Uint("uid", p.ID))
	c.JSON(http.StatusOK, resp.Mensaje{Mensaje: "Inicio de sesión exitoso", User: p})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Request.Context(), c.Writer, c.Request); err != nil {
		mdw.ObserveAuth("logout", "error")
		h.log.Error("logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Mensaje{Mensaje: "Error al cerrar sesión"})
		return
	}
	mdw.ObserveAuth("logout", "ok")
	c.JSON(http.StatusOK, resp.Mensaje{Mensaje: "Sesión cerrada"})
}

func (h *AuthHandler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": mdw.CurrentSession(c)})
}
