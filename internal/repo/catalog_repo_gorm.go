package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-storefront/internal/domain"
)

type SupplierRepo struct{ db *gorm.DB }

func NewSupplierRepo(db *gorm.DB) *SupplierRepo { return &SupplierRepo{db: db} }

var _ domain.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	return mapErr(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SupplierRepo) FindByID(ctx context.Context, id uint) (*domain.Supplier, error) {
	return findByID[domain.Supplier](ctx, r.db, id)
}

func (r *SupplierRepo) List(ctx context.Context, offset, limit int) ([]domain.Supplier, int64, error) {
	return list[domain.Supplier](ctx, r.db, offset, limit)
}

func (r *SupplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	return mapErr(r.db.WithContext(ctx).Save(s).Error)
}

func (r *SupplierRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[domain.Supplier](ctx, r.db, id)
}

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

var _ domain.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return mapErr(r.db.WithContext(ctx).Omit("Supplier").Create(p).Error)
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return findByID[domain.Product](ctx, r.db, id)
}

func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error) {
	return list[domain.Product](ctx, r.db, offset, limit)
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return mapErr(r.db.WithContext(ctx).Omit("Supplier").Save(p).Error)
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[domain.Product](ctx, r.db, id)
}
