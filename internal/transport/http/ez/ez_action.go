package ez

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "go-gin-storefront/internal/transport/http/middleware"
	resp "go-gin-storefront/internal/transport/http/response"
)

// EZ 路由组上的轻封装：统一绑定、统一错误映射、统一 Resp 包装
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

type Binder string

const (
	BindJSON  Binder = "json"  // JSON body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 带 HTTP 状态的错误。Err 只进日志，不返回给客户端。
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

const msgBadInput = "Datos inválidos"

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | DELETE
	Path    string // 例："/usuarios/:id"
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				e.Fail(c, &AErr{Code: resp.CodeTooLarge, Msg: "request body too large"})
				return
			}
			// 解码器原文只进日志，客户端拿固定文案
			if e.log != nil {
				e.log.Info("bind failed",
					zap.String("path", c.FullPath()),
					zap.String("rid", mdw.RequestIDOf(c)),
					zap.Error(bindErr))
			}
			e.Fail(c, BadRequest(msgBadInput))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}
	e.handle(a.Method, a.Path, h)
}

// Upload multipart 单文件上传，field 为表单字段名
func Upload(e EZ, path, field string, maxBytes int64, h func(c *gin.Context, file *multipart.FileHeader) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				e.Fail(c, &AErr{Code: resp.CodeTooLarge, Msg: "file too large"})
				return
			}
			e.Fail(c, BadRequest("missing file field "+field))
			return
		}
		if fh.Size > maxBytes {
			e.Fail(c, &AErr{Code: resp.CodeTooLarge, Msg: "file too large"})
			return
		}
		data, err := h(c, fh)
		if err != nil {
			e.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(data))
	})
}

// Fail 统一错误出口：AErr 用自身状态码；其它错误一律 500 + 通用文案，原始错误只写日志
func (e EZ) Fail(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: resp.CodeServerError, Err: err}
	}
	if ae.Code >= 500 {
		if e.log != nil {
			e.log.Error("action failed",
				zap.String("path", c.FullPath()),
				zap.String("rid", mdw.RequestIDOf(c)),
				zap.Error(ae.Err))
		}
		_ = c.Error(err)
		msg := ae.Msg
		if msg == "" {
			msg = resp.CodeMsgMap[resp.CodeServerError]
		}
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, msg))
		return
	}
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Error()))
}

func (e EZ) handle(method, path string, h gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		e.g.GET(path, h)
	case http.MethodPut:
		e.g.PUT(path, h)
	case http.MethodDelete:
		e.g.DELETE(path, h)
	default:
		e.g.POST(path, h)
	}
}

// ParamID 解析路径上的正整数 id
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, BadRequest("invalid " + name)
	}
	return uint(id), nil
}

// Paging 通用分页参数
type Paging struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`
}

func (p *Paging) Normalize() {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
}
