package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "go-gin-storefront/internal/transport/http/response"
)

// ConcurrencyLimit 同时处理的请求数不超过 max（保护 DB 连接池）。
// 满了先排队最多 queueWait，仍拿不到就 503 + Retry-After；queueWait<=0 时不排队。
func ConcurrencyLimit(max int64, queueWait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	retryAfter := strconv.Itoa(int(max1s(queueWait).Seconds()))
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) && !waitSlot(c.Request.Context(), sem, queueWait) {
			httpShed.Inc()
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

func waitSlot(ctx context.Context, sem *semaphore.Weighted, wait time.Duration) bool {
	if wait <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	return sem.Acquire(ctx, 1) == nil
}

func max1s(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	return d.Round(time.Second)
}
