package stub

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	ctxClaimsKey = "claims"
)

// requireAuth verifies the bearer token and stores the claims on the gin
// context for handlers.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing bearer token"})
			return
		}

		claims, err := s.tokens.verify(strings.TrimPrefix(raw, bearerPrefix), s.clock())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

func (s *Server) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if !claims.IsStaff && !claims.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "staff access required"})
			return
		}
		c.Next()
	}
}

// currentClaims returns the verified claims. Only valid on routes behind
// requireAuth.
func currentClaims(c *gin.Context) tokenClaims {
	v, _ := c.Get(ctxClaimsKey)
	claims, _ := v.(tokenClaims)
	return claims
}

// paramID parses the :id path parameter, writing a 400 response itself when
// the segment is not numeric.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}
