package domain

import (
	"context"
	"time"
)

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"size:128;not null" json:"nombre"`
	Contacto  string    `gorm:"size:128" json:"contacto"`
	Telefono  string    `gorm:"size:32" json:"telefono"`
	Email     string    `gorm:"size:191" json:"email"`
	Direccion string    `gorm:"size:255" json:"direccion"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Supplier) TableName() string { return "proveedores" }

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"size:128;not null" json:"nombre"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Precio      float64   `gorm:"not null;default:0" json:"precio"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	SupplierID  *uint     `gorm:"column:id_proveedor;index" json:"id_proveedor"`
	Supplier    *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"-"`
	Imagen      string    `gorm:"size:255" json:"imagen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "productos" }

type SupplierRepository interface {
	Create(ctx context.Context, s *Supplier) error
	FindByID(ctx context.Context, id uint) (*Supplier, error)
	List(ctx context.Context, offset, limit int) ([]Supplier, int64, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uint) error
}
