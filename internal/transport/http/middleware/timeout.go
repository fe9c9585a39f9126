package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-gin-storefront/internal/transport/http/response"
)

// Timeout 请求 context 带截止时间，gorm / redis 调用随之取消。
// 处理函数已经写了响应就不再覆盖，只记一条告警。
func Timeout(d time.Duration, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		l.Warn("request deadline exceeded",
			zap.String("rid", RequestIDOf(c)),
			zap.String("route", c.FullPath()),
			zap.Duration("limit", d),
			zap.Bool("written", c.Writer.Written()))
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, resp.Error(resp.CodeTimeout, "timeout"))
		}
	}
}
