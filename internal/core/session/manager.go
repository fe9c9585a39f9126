package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"go-gin-storefront/internal/core/auth"
	"go-gin-storefront/pkg/utils"
)

const tokenBytes = 32

type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
}

// Manager 把 Store、cookie 签名和 cookie 属性组合起来
type Manager struct {
	store  Store
	signer *auth.Signer
	name   string
	attrs  sessions.Options // 固定属性；MaxAge 每次写 cookie 时单独给
}

func NewManager(store Store, signer *auth.Signer, cookie CookieOptions) *Manager {
	if cookie.Name == "" {
		cookie.Name = "sid"
	}
	return &Manager{
		store:  store,
		signer: signer,
		name:   cookie.Name,
		attrs: sessions.Options{
			Path:     "/",
			Domain:   cookie.Domain,
			Secure:   cookie.Secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (m *Manager) CookieName() string { return m.name }

// Start 签发新 token，保存会话并写 cookie。三处过期时间（cookie / 签名 / 存储）一致。
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, p *Payload) error {
	token, err := utils.NewToken(tokenBytes)
	if err != nil {
		return fmt.Errorf("session token: %w", err)
	}
	signed, exp, err := m.signer.Sign(token)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	if err := m.store.Set(ctx, token, p, m.signer.TTL); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	http.SetCookie(w, m.newCookie(signed, int(time.Until(exp).Seconds())))
	return nil
}

// Resolve 取当前请求的会话。没有 cookie、签名无效或已过期都返回 ErrNotFound；
// 其它错误来自存储本身。
func (m *Manager) Resolve(r *http.Request) (string, *Payload, error) {
	token, ok := m.token(r)
	if !ok {
		return "", nil, ErrNotFound
	}
	p, err := m.store.Get(r.Context(), token)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// Destroy 无条件删除当前 token 的会话；存储出错时不清 cookie，直接返回错误
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, ok := m.token(r); ok {
		if err := m.store.Destroy(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	http.SetCookie(w, m.newCookie("", -1))
	return nil
}

// Revoke 只删服务端会话，不动 cookie；登录前作废旧 token 用
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if err := m.store.Destroy(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUser 删除某用户的全部会话；角色、密码变更或删号后调用，旧快照立即失效
func (m *Manager) RevokeUser(ctx context.Context, userID uint) error {
	if err := m.store.DestroyUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

func (m *Manager) token(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	token, err := m.signer.Verify(c.Value)
	if err != nil {
		return "", false
	}
	return token, true
}

// newCookie maxAge<0 表示让浏览器立即删除
func (m *Manager) newCookie(value string, maxAge int) *http.Cookie {
	opts := m.attrs
	opts.MaxAge = maxAge
	return sessions.NewCookie(m.name, value, &opts)
}
