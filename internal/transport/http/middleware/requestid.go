package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const KeyRequestID = "X-Request-ID"

// RequestID 上游带来的 X-Request-ID 只有是合法 uuid 才沿用（防日志注入），否则重新生成
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDOf 日志里统一用它取 rid；没挂 RequestID 时为空串
func RequestIDOf(c *gin.Context) string { return c.GetString(KeyRequestID) }
