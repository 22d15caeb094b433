package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/model"
)

const userContextKey = "httpapi.user"

// UserResolver turns an opaque token into an account. Token issuance
// itself is the account package's business.
type UserResolver interface {
	UserByToken(ctx context.Context, key string) (*model.User, error)
}

// AuthRequired resolves the caller from the Authorization header and
// aborts with 403 otherwise. Handlers read the identity back with
// CurrentUser and pass the explicit user id down to the usecases.
func AuthRequired(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := tokenFromHeader(c.GetHeader("Authorization"))
		if key == "" {
			Fail(c, http.StatusForbidden, ErrLoginRequired)
			c.Abort()
			return
		}

		user, err := resolver.UserByToken(c.Request.Context(), key)
		if err != nil || user == nil || !user.IsActive {
			Fail(c, http.StatusForbidden, ErrLoginRequired)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// ShopRequired gates partner endpoints. Must run after AuthRequired.
func ShopRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Type != model.UserTypeShop {
			Fail(c, http.StatusForbidden, ErrShopsOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

func tokenFromHeader(header string) string {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(header, scheme))
		}
	}
	return ""
}
