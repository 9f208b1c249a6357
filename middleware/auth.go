package middleware

import (
	"net/http"
	"strings"

	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// legacyHeaders are the per-role token headers older clients send instead of Authorization.
var legacyHeaders = map[string]string{
	utils.RolePatient: "token",
	utils.RoleDoctor:  "dtoken",
	utils.RoleAdmin:   "atoken",
}

// JWTAuth admits callers whose token carries role. The token is read from
// "Authorization: Bearer" or the role's legacy header.
func JWTAuth(signer *utils.TokenSigner, role string, resp utils.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c, role)
		if tokenString == "" {
			resp.FailWith(c, http.StatusUnauthorized, "Not Authorized Login Again")
			return
		}

		claims, err := signer.ExtractClaims(tokenString)
		if err != nil {
			utils.GetLogger().Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			resp.FailWith(c, http.StatusUnauthorized, "Not Authorized Login Again")
			return
		}
		if claims.Role != role {
			resp.FailWith(c, http.StatusForbidden, "Unauthorized action")
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		switch role {
		case utils.RoleDoctor:
			c.Set("doctorID", claims.Subject)
		case utils.RoleAdmin:
			c.Set("isAdmin", true)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context, role string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if name, ok := legacyHeaders[role]; ok {
		return strings.TrimSpace(c.GetHeader(name))
	}
	return ""
}
