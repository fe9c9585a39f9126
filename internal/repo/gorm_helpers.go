package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-gin-storefront/internal/core/database"
	"go-gin-storefront/internal/domain"
)

// Migrate 建表顺序：proveedores 要在 productos 之前
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Supplier{}, &domain.Product{})
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	default:
		return err
	}
}

func findByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var out T
	if err := db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func list[T any](ctx context.Context, db *gorm.DB, offset, limit int) ([]T, int64, error) {
	tx := db.WithContext(ctx).Model(new(T)).Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, mapErr(err)
	}
	var items []T
	if err := tx.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, mapErr(err)
	}
	return items, total, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
