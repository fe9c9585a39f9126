// Package session 服务端会话：token -> Payload，cookie 里只带签名后的 token。
package session

import (
	"context"
	"errors"
	"time"

	"go-gin-storefront/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Payload 会话快照，不含密码哈希
type Payload struct {
	ID              uint        `json:"id"`
	Name            string      `json:"name"`
	ApellidoPaterno string      `json:"apellido_paterno"`
	ApellidoMaterno string      `json:"apellido_materno"`
	Email           string      `json:"email"`
	Genero          string      `json:"Genero"`
	Telefono        string      `json:"telefono"`
	Role            domain.Role `json:"tipo_usuario"`
}

func FromUser(u *domain.User) *Payload {
	return &Payload{
		ID:              u.ID,
		Name:            u.Name,
		ApellidoPaterno: u.ApellidoPaterno,
		ApellidoMaterno: u.ApellidoMaterno,
		Email:           u.Email,
		Genero:          u.Genero,
		Telefono:        u.Telefono,
		Role:            u.Role,
	}
}

// HasRole 所有角色判断都走这里；nil 会话不具备任何角色
func HasRole(p *Payload, r domain.Role) bool {
	return p != nil && p.Role == r
}

// Store 按 token 存取会话。Get 对不存在或已过期的 token 返回 ErrNotFound。
// DestroyUser 删除某个用户名下的全部会话（角色变更、改密、删号后调用）。
type Store interface {
	Get(ctx context.Context, token string) (*Payload, error)
	Set(ctx context.Context, token string, p *Payload, ttl time.Duration) error
	Destroy(ctx context.Context, token string) error
	DestroyUser(ctx context.Context, userID uint) error
}
