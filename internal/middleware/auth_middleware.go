package middleware

import (
	"net/http"
	"strings"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const actorContextKey = "actor"

// JWTClaims carries the authenticated actor's identity and role.
type JWTClaims struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token and puts the resolved Actor on
// the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token required")
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
			c.Abort()
			return
		}

		actorID, err := primitive.ObjectIDFromHex(claims.ActorID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid actor id in token")
			c.Abort()
			return
		}

		role := models.Role(claims.Role)
		switch role {
		case models.RoleClient, models.RoleDriver, models.RoleAdmin:
		default:
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "unknown role in token")
			c.Abort()
			return
		}

		c.Set(actorContextKey, models.Actor{ID: actorID, Role: role})
		c.Next()
	}
}

// GetActor retrieves the Actor placed by AuthRequired.
func GetActor(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

func requireRole(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}
		if actor.Role != role {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, "admin access required")
}

func DriverRequired() gin.HandlerFunc {
	return requireRole(models.RoleDriver, "driver access required")
}

func ClientRequired() gin.HandlerFunc {
	return requireRole(models.RoleClient, "client access required")
}
