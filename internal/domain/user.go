package domain

import (
	"context"
	"time"
)

// Role 账户类型，数值与 usuarios.tipo_usuario 列一致
type Role int

const (
	RoleStandard Role = 1
	RoleAdmin    Role = 2
)

func (r Role) Valid() bool { return r == RoleStandard || r == RoleAdmin }

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"column:nombre;size:64;not null" json:"name"`
	ApellidoPaterno string    `gorm:"column:apellido_paterno;size:64;not null" json:"apellido_paterno"`
	ApellidoMaterno string    `gorm:"column:apellido_materno;size:64;not null" json:"apellido_materno"`
	Email           string    `gorm:"column:email;uniqueIndex;size:191;not null" json:"email"`
	PasswordHash    string    `gorm:"column:password;size:100;not null" json:"-"`
	Telefono        string    `gorm:"column:telefono;size:32" json:"telefono"`
	Genero          string    `gorm:"column:genero;size:32" json:"Genero"`
	Role            Role      `gorm:"column:tipo_usuario;not null;default:1" json:"tipo_usuario"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "usuarios" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
}
