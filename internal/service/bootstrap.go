package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/pkg/utils"
)

// EnsureAdmin 运维入口：邮箱已存在则提升为管理员（给了密码就顺带重置），
// 不存在则按 in 建一个管理员账户。注册接口只能建普通用户，第一个管理员从这里来。
func (s *AuthService) EnsureAdmin(ctx context.Context, in SignupInput) (created bool, err error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", ErrValidation)
	}

	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		u.Role = domain.RoleAdmin
		if in.Password != "" {
			if u.PasswordHash, err = utils.HashPassword(in.Password); err != nil {
				return false, fmt.Errorf("%w: hash password", ErrStorage)
			}
		}
		if err := s.users.Update(ctx, u); err != nil {
			s.log.Error("promote admin", zap.Uint("id", u.ID), zap.Error(err))
			return false, fmt.Errorf("%w: update user", ErrStorage)
		}
		s.log.Info("user promoted to admin", zap.Uint("id", u.ID))
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		s.log.Error("admin lookup", zap.Error(err))
		return false, fmt.Errorf("%w: find user", ErrStorage)
	}

	in.Email = email
	if err := in.validate(); err != nil {
		return false, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return false, fmt.Errorf("%w: hash password", ErrStorage)
	}
	u = &domain.User{
		Name:            strings.TrimSpace(in.Name),
		ApellidoPaterno: strings.TrimSpace(in.ApellidoPaterno),
		ApellidoMaterno: strings.TrimSpace(in.ApellidoMaterno),
		Email:           email,
		PasswordHash:    hash,
		Genero:          strings.TrimSpace(in.Genero),
		Telefono:        strings.TrimSpace(in.Telefono),
		Role:            domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, ErrDuplicateEmail
		}
		s.log.Error("create admin", zap.Error(err))
		return false, fmt.Errorf("%w: create user", ErrStorage)
	}
	s.log.Info("admin created", zap.Uint("id", u.ID))
	return true, nil
}
