package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ActorIdentity resolves the acting user for audited operations from a Bearer
// token when one is presented. Token validation failures do not abort the
// request: downstream handlers still require an actor for mutating use cases
// and reject anonymous ones.
func ActorIdentity(jwtSecret string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			logger.WithError(err).Warn("Invalid bearer token")
			c.Next()
			return
		}

		if subject, err := token.Claims.GetSubject(); err == nil && subject != "" {
			c.Set("user_id", subject)
		}

		c.Next()
	}
}
