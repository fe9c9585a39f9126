package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-gin-storefront/internal/core/session"
	"go-gin-storefront/internal/domain"
	"go-gin-storefront/pkg/utils"
)

type SignupInput struct {
	Name            string
	ApellidoPaterno string
	ApellidoMaterno string
	Email           string
	Password        string
	Genero          string
	Telefono        string
}

func (in SignupInput) validate() error {
	fields := []struct{ name, val string }{
		{"name", in.Name},
		{"apellido_paterno", in.ApellidoPaterno},
		{"apellido_materno", in.ApellidoMaterno},
		{"email", in.Email},
		{"password", in.Password},
		{"Genero", in.Genero},
		{"telefono", in.Telefono},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}
	return nil
}

type AuthService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Signup 只建账户，不建会话；角色固定为普通用户
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return fmt.Errorf("%w: hash password", ErrStorage)
	}
	u := &domain.User{
		Name:            strings.TrimSpace(in.Name),
		ApellidoPaterno: strings.TrimSpace(in.ApellidoPaterno),
		ApellidoMaterno: strings.TrimSpace(in.ApellidoMaterno),
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    hash,
		Genero:          strings.TrimSpace(in.Genero),
		Telefono:        strings.TrimSpace(in.Telefono),
		Role:            domain.RoleStandard,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ErrDuplicateEmail
		}
		s.log.Error("signup insert", zap.String("email", u.Email), zap.Error(err))
		return fmt.Errorf("%w: create user", ErrStorage)
	}
	s.log.Info("user signed up", zap.Uint("id", u.ID))
	return nil
}

// Authenticate 校验邮箱和密码，成功时返回会话快照。
// 未知邮箱会比已知邮箱返回得更快（少一次 bcrypt），目前不做时间对齐。
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*session.Payload, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: usuario and password are required", ErrValidation)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.log.Error("login lookup", zap.Error(err))
		return nil, fmt.Errorf("%w: find user", ErrStorage)
	}
	ok, err := utils.CheckPassword(password, u.PasswordHash)
	if err != nil {
		s.log.Error("stored hash unreadable", zap.Uint("id", u.ID), zap.Error(err))
		return nil, ErrInvalidPassword
	}
	if !ok {
		return nil, ErrInvalidPassword
	}
	return session.FromUser(u), nil
}
