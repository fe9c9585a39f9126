package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/service"
	"go-gin-storefront/internal/storage"
	"go-gin-storefront/internal/transport/http/ez"
	mdw "go-gin-storefront/internal/transport/http/middleware"
)

type deleted struct {
	ID uint `json:"id"`
}

// AdminUsersHandler /api/admin/usuarios
type AdminUsersHandler struct {
	svc *service.AdminService
	log *zap.Logger
}

func NewAdminUsersHandler(svc *service.AdminService, log *zap.Logger) *AdminUsersHandler {
	return &AdminUsersHandler{svc: svc, log: log}
}

func (h *AdminUsersHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[ez.Paging, service.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/usuarios",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *ez.Paging) (service.Page[domain.User], error) {
			in.Normalize()
			page, err := h.svc.ListUsers(c.Request.Context(), in.Q, in.Offset, in.Limit)
			return page, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.UserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/usuarios",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UserInput) (*domain.User, error) {
			u, err := h.svc.CreateUser(c.Request.Context(), *in)
			return u, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.UserInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/usuarios/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UserInput) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			u, err := h.svc.UpdateUser(c.Request.Context(), id, *in)
			return u, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/usuarios/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			actor := mdw.CurrentSession(c)
			if err := h.svc.DeleteUser(c.Request.Context(), actor.ID, id); err != nil {
				return deleted{}, toAErr(err)
			}
			h.log.Info("user deleted", zap.Uint("by", actor.ID), zap.Uint("id", id))
			return deleted{ID: id}, nil
		},
	})
}

// AdminSuppliersHandler /api/admin/proveedores
type AdminSuppliersHandler struct {
	svc *service.AdminService
	log *zap.Logger
}

func NewAdminSuppliersHandler(svc *service.AdminService, log *zap.Logger) *AdminSuppliersHandler {
	return &AdminSuppliersHandler{svc: svc, log: log}
}

func (h *AdminSuppliersHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[ez.Paging, service.Page[domain.Supplier]]{
		Method: http.MethodGet,
		Path:   "/proveedores",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *ez.Paging) (service.Page[domain.Supplier], error) {
			in.Normalize()
			page, err := h.svc.ListSuppliers(c.Request.Context(), in.Offset, in.Limit)
			return page, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.SupplierInput, *domain.Supplier]{
		Method: http.MethodPost,
		Path:   "/proveedores",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SupplierInput) (*domain.Supplier, error) {
			s, err := h.svc.CreateSupplier(c.Request.Context(), *in)
			return s, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.SupplierInput, *domain.Supplier]{
		Method: http.MethodPut,
		Path:   "/proveedores/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SupplierInput) (*domain.Supplier, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			s, err := h.svc.UpdateSupplier(c.Request.Context(), id, *in)
			return s, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/proveedores/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, toAErr(h.svc.DeleteSupplier(c.Request.Context(), id))
		},
	})
}

// AdminProductsHandler /api/admin/productos，含图片上传
type AdminProductsHandler struct {
	svc *service.AdminService
	log *zap.Logger
}

func NewAdminProductsHandler(svc *service.AdminService, log *zap.Logger) *AdminProductsHandler {
	return &AdminProductsHandler{svc: svc, log: log}
}

func (h *AdminProductsHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[ez.Paging, service.Page[domain.Product]]{
		Method: http.MethodGet,
		Path:   "/productos",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *ez.Paging) (service.Page[domain.Product], error) {
			in.Normalize()
			page, err := h.svc.ListProducts(c.Request.Context(), in.Offset, in.Limit)
			return page, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/productos",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			p, err := h.svc.CreateProduct(c.Request.Context(), *in)
			return p, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/productos/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			p, err := h.svc.UpdateProduct(c.Request.Context(), id, *in)
			return p, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/productos/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, toAErr(h.svc.DeleteProduct(c.Request.Context(), id))
		},
	})

	ez.Upload(e, "/productos/:id/imagen", "imagen", storage.MaxUploadBytes, func(c *gin.Context, fh *multipart.FileHeader) (any, error) {
		id, err := ez.ParamID(c, "id")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, ez.BadRequest("No se pudo leer el archivo")
		}
		defer f.Close()
		p, err := h.svc.SetProductImage(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
		return p, toAErr(err)
	})
}
