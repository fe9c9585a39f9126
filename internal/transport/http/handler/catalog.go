package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/service"
	"go-gin-storefront/internal/transport/http/ez"
)

// CatalogHandler 店面公开商品接口
type CatalogHandler struct {
	svc *service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

func (h *CatalogHandler) MountAPI(r *gin.RouterGroup) {
	e := ez.New(r.Group("/api/productos"), h.log)

	ez.RegisterAction(e, ez.Action[ez.Paging, service.Page[domain.Product]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *ez.Paging) (service.Page[domain.Product], error) {
			in.Normalize()
			page, err := h.svc.List(c.Request.Context(), in.Offset, in.Limit)
			return page, toAErr(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			p, err := h.svc.Get(c.Request.Context(), id)
			return p, toAErr(err)
		},
	})
}
