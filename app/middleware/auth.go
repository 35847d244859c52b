package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zh-address-parser/app/responses"
	"github.com/zh-address-parser/app/services"
)

const (
	ContextKeySubject = "subject"
	ContextKeyRole    = "role"
)

// TokenValidator kiểm tra bearer token
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AuthMiddleware yêu cầu bearer token hợp lệ với một trong các role cho phép
func AuthMiddleware(validator TokenValidator, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Thiếu hoặc sai header Authorization")
			return
		}

		claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token không hợp lệ hoặc đã hết hạn")
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			abort(c, http.StatusForbidden, "FORBIDDEN", "Không đủ quyền")
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: GetRequestID(c),
	})
}
