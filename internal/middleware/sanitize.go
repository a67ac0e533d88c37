package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
)

// maxBodyBytes caps declared request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// suspiciousPatterns is a coarse signature list checked case-insensitively
// against every request URI before routing. It complements, never replaces,
// parameterized queries and the typed validation layer.
var suspiciousPatterns = []string{
	"../", "..\\", // path traversal
	"<script", "<%", // script/HTML injection
	"drop table", "delete from", // destructive SQL
	"\x00",          // null byte
	"cmd=", "exec(", // command injection
}

// SanitizeRequest rejects requests whose URL matches a known attack signature
// (400) or whose declared content length exceeds the body cap (413), before
// any handler logic runs. A non-numeric Content-Length is ignored.
func SanitizeRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := strings.ToLower(c.Request.URL.RequestURI())
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(uri, pattern) {
				logger.Warn("suspicious pattern detected in request", map[string]any{
					"pattern": pattern,
					"path":    c.Request.URL.Path,
				})
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
				return
			}
		}

		if raw := c.GetHeader("Content-Length"); raw != "" {
			if size, err := strconv.ParseInt(raw, 10, 64); err == nil && size > maxBodyBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
		}

		c.Next()
	}
}
