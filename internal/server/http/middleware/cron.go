package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronSecretHeader carries the shared secret for scheduler-invoked endpoints.
const CronSecretHeader = "X-Cron-Secret"

// CronSecret gates cron endpoints behind a shared secret header. An empty
// configured secret disables the endpoint entirely.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(CronSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
