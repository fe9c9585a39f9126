package domain

import "errors"

// 仓储层统一的错误，驱动错误在 repo 内完成映射
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)
