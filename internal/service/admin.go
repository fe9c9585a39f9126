package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/storage"
	"go-gin-storefront/pkg/utils"
)

type Page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

type UserInput struct {
	Name            *string      `json:"name"`
	ApellidoPaterno *string      `json:"apellido_paterno"`
	ApellidoMaterno *string      `json:"apellido_materno"`
	Email           *string      `json:"email"`
	Password        *string      `json:"password"`
	Genero          *string      `json:"Genero"`
	Telefono        *string      `json:"telefono"`
	Role            *domain.Role `json:"tipo_usuario"`
}

type SupplierInput struct {
	Nombre    string `json:"nombre"`
	Contacto  string `json:"contacto"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
}

type ProductInput struct {
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Stock       int     `json:"stock"`
	SupplierID  *uint   `json:"id_proveedor"`
}

// AdminService 管理端增删改查。存储错误只写日志，对外统一包成 ErrStorage。
type AdminService struct {
	users     domain.UserRepository
	suppliers domain.SupplierRepository
	products  domain.ProductRepository
	uploads   storage.Store
	onCatalog func(ctx context.Context)
	onUser    func(ctx context.Context, userID uint) error
	log       *zap.Logger
}

func NewAdminService(
	users domain.UserRepository,
	suppliers domain.SupplierRepository,
	products domain.ProductRepository,
	uploads storage.Store,
	log *zap.Logger,
) *AdminService {
	return &AdminService{users: users, suppliers: suppliers, products: products, uploads: uploads, log: log}
}

// OnCatalogChange 商品变动后的回调（清缓存）
func (s *AdminService) OnCatalogChange(fn func(ctx context.Context)) { s.onCatalog = fn }

func (s *AdminService) catalogChanged(ctx context.Context) {
	if s.onCatalog != nil {
		s.onCatalog(ctx)
	}
}

// OnUserAccessChange 角色、密码变更或删号后的回调（作废该用户的会话）
func (s *AdminService) OnUserAccessChange(fn func(ctx context.Context, userID uint) error) {
	s.onUser = fn
}

// userAccessChanged 数据库已经提交，回调失败只记日志
func (s *AdminService) userAccessChanged(ctx context.Context, id uint) {
	if s.onUser == nil {
		return
	}
	if err := s.onUser(ctx, id); err != nil {
		s.log.Error("revoke user sessions", zap.Uint("id", id), zap.Error(err))
	}
}

func (s *AdminService) storageErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return ErrDuplicateEmail
	}
	s.log.Error("admin "+op, zap.Error(err))
	return fmt.Errorf("%w: %s", ErrStorage, op)
}

// ---------- usuarios ----------

func (s *AdminService) ListUsers(ctx context.Context, q string, offset, limit int) (Page[domain.User], error) {
	items, total, err := s.users.List(ctx, q, offset, limit)
	if err != nil {
		return Page[domain.User]{}, s.storageErr("list users", err)
	}
	return Page[domain.User]{Total: total, Items: items}, nil
}

func (s *AdminService) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	u := &domain.User{Role: domain.RoleStandard}
	if err := applyUser(u, in); err != nil {
		return nil, err
	}
	if u.Name == "" || u.ApellidoPaterno == "" || u.ApellidoMaterno == "" || u.Email == "" ||
		in.Password == nil || strings.TrimSpace(*in.Password) == "" {
		return nil, fmt.Errorf("%w: name, apellidos, email and password are required", ErrValidation)
	}
	if err := s.setPassword(u, *in.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, s.storageErr("create user", err)
	}
	return u, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id uint, in UserInput) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("find user", err)
	}
	prevRole := u.Role
	if err := applyUser(u, in); err != nil {
		return nil, err
	}
	pwChanged := in.Password != nil && *in.Password != ""
	if pwChanged {
		if err := s.setPassword(u, *in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, s.storageErr("update user", err)
	}
	if pwChanged || u.Role != prevRole {
		s.userAccessChanged(ctx, u.ID)
	}
	return u, nil
}

// DeleteUser actorID 为当前管理员，不能删自己
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return s.storageErr("delete user", err)
	}
	s.userAccessChanged(ctx, id)
	return nil
}

func (s *AdminService) setPassword(u *domain.User, pw string) error {
	hash, err := utils.HashPassword(pw)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return fmt.Errorf("%w: hash password", ErrStorage)
	}
	u.PasswordHash = hash
	return nil
}

func applyUser(u *domain.User, in UserInput) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Name, in.Name)
	set(&u.ApellidoPaterno, in.ApellidoPaterno)
	set(&u.ApellidoMaterno, in.ApellidoMaterno)
	set(&u.Email, in.Email)
	set(&u.Genero, in.Genero)
	set(&u.Telefono, in.Telefono)
	if in.Role != nil {
		if !in.Role.Valid() {
			return fmt.Errorf("%w: tipo_usuario must be 1 or 2", ErrValidation)
		}
		u.Role = *in.Role
	}
	if in.Email != nil && u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}

// ---------- proveedores ----------

func (s *AdminService) ListSuppliers(ctx context.Context, offset, limit int) (Page[domain.Supplier], error) {
	items, total, err := s.suppliers.List(ctx, offset, limit)
	if err != nil {
		return Page[domain.Supplier]{}, s.storageErr("list suppliers", err)
	}
	return Page[domain.Supplier]{Total: total, Items: items}, nil
}

func (s *AdminService) CreateSupplier(ctx context.Context, in SupplierInput) (*domain.Supplier, error) {
	sup := &domain.Supplier{}
	if err := applySupplier(sup, in); err != nil {
		return nil, err
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, s.storageErr("create supplier", err)
	}
	return sup, nil
}

func (s *AdminService) UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*domain.Supplier, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("find supplier", err)
	}
	if err := applySupplier(sup, in); err != nil {
		return nil, err
	}
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, s.storageErr("update supplier", err)
	}
	return sup, nil
}

func (s *AdminService) DeleteSupplier(ctx context.Context, id uint) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return s.storageErr("delete supplier", err)
	}
	return nil
}

func applySupplier(sup *domain.Supplier, in SupplierInput) error {
	if strings.TrimSpace(in.Nombre) == "" {
		return fmt.Errorf("%w: nombre is required", ErrValidation)
	}
	sup.Nombre = strings.TrimSpace(in.Nombre)
	sup.Contacto = strings.TrimSpace(in.Contacto)
	sup.Telefono = strings.TrimSpace(in.Telefono)
	sup.Email = strings.TrimSpace(in.Email)
	sup.Direccion = strings.TrimSpace(in.Direccion)
	return nil
}

// ---------- productos ----------

func (s *AdminService) ListProducts(ctx context.Context, offset, limit int) (Page[domain.Product], error) {
	items, total, err := s.products.List(ctx, offset, limit)
	if err != nil {
		return Page[domain.Product]{}, s.storageErr("list products", err)
	}
	return Page[domain.Product]{Total: total, Items: items}, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{}
	if err := s.applyProduct(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, s.storageErr("create product", err)
	}
	s.catalogChanged(ctx)
	return p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("find product", err)
	}
	if err := s.applyProduct(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, s.storageErr("update product", err)
	}
	s.catalogChanged(ctx)
	return p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return s.storageErr("delete product", err)
	}
	s.catalogChanged(ctx)
	return nil
}

// SetProductImage 保存上传文件并把引用写回商品
func (s *AdminService) SetProductImage(ctx context.Context, id uint, name, contentType string, r io.Reader) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("find product", err)
	}
	ref, err := s.uploads.Save(ctx, name, contentType, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, s.storageErr("save upload", err)
	}
	p.Imagen = ref
	if err := s.products.Update(ctx, p); err != nil {
		return nil, s.storageErr("update product image", err)
	}
	s.catalogChanged(ctx)
	return p, nil
}

func (s *AdminService) applyProduct(ctx context.Context, p *domain.Product, in ProductInput) error {
	if strings.TrimSpace(in.Nombre) == "" {
		return fmt.Errorf("%w: nombre is required", ErrValidation)
	}
	if in.Precio < 0 || in.Stock < 0 {
		return fmt.Errorf("%w: precio and stock must be >= 0", ErrValidation)
	}
	if in.SupplierID != nil {
		if _, err := s.suppliers.FindByID(ctx, *in.SupplierID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: id_proveedor does not exist", ErrValidation)
			}
			return s.storageErr("find supplier", err)
		}
	}
	p.Nombre = strings.TrimSpace(in.Nombre)
	p.Descripcion = strings.TrimSpace(in.Descripcion)
	p.Precio = in.Precio
	p.Stock = in.Stock
	p.SupplierID = in.SupplierID
	return nil
}
