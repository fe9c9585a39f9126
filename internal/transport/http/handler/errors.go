package handler

import (
	"errors"

	"go-gin-storefront/internal/service"
	"go-gin-storefront/internal/transport/http/ez"
	resp "go-gin-storefront/internal/transport/http/response"
)

const msgServerError = "Error en el servidor"

// toAErr service 错误 -> HTTP。存储错误只给通用文案，原始错误留在 Err 里进日志。
func toAErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrValidation):
		return ez.BadRequest(err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		return ez.BadRequest("El correo ya está registrado")
	case errors.Is(err, service.ErrSelfDelete):
		return ez.BadRequest("No puedes eliminar tu propia cuenta")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		return ez.NotFound("Registro no encontrado")
	}
	return &ez.AErr{Code: resp.CodeServerError, Msg: msgServerError, Err: err}
}
