package auth

import (
	"fmt"
	"strings"

	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey      = "user_id"
	CtxUserRoleKey    = "user_role"
	CtxCommunityIDKey = "community_id"
)

// loopback addresses allowed to use the X-Testing bypass. Anything not on
// this list (including an unresolved origin) is treated as remote.
var loopbackAddrs = map[string]bool{
	"127.0.0.1": true,
	"::1":       true,
	"localhost": true,
}

func IsLoopback(addr string) bool {
	return loopbackAddrs[addr]
}

// AuthMiddleware resolves the actor identity for every protected route.
// A bearer token is the normal path. When the testing bypass is enabled in
// config AND the request originates from loopback, "X-Testing: true"
// substitutes a synthetic master identity instead. Everything else is 401.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")

		if authHeader == "" {
			if cfg.EnableTestingBypass && c.Get("X-Testing") == "true" && IsLoopback(c.IP()) {
				c.Locals(CtxUserIDKey, uint(0))
				c.Locals(CtxUserRoleKey, models.RoleMaster)
				c.Locals(CtxCommunityIDKey, (*uint)(nil))
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization format must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCommunityIDKey, claims.CommunityID)

		return c.Next()
	}
}

// RequirePermission gates a route on the role table. Passing this gate only
// proves the role may attempt the action; handlers still verify ownership of
// the specific resource before mutating it.
func RequirePermission(perms *Permissions, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Could not resolve role")
		}

		if !perms.Allows(role, action) {
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
		}
		return c.Next()
	}
}

// RequireRole restricts a route to one exact role.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok || current != role {
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
		}
		return c.Next()
	}
}

// Actor is the identity the middleware resolved for the current request.
type Actor struct {
	UserID      uint
	Role        models.UserRole
	CommunityID *uint
}

func CurrentActor(c *fiber.Ctx) (Actor, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Could not resolve user")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Could not resolve role")
	}
	communityID, _ := c.Locals(CtxCommunityIDKey).(*uint)
	return Actor{UserID: userID, Role: role, CommunityID: communityID}, nil
}
