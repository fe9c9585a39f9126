package middleware

import "github.com/gin-gonic/gin"

// NoCache 受保护页面不允许被浏览器或代理缓存，登出后回退也看不到
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		c.Next()
	}
}
