package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localsIdentity = "identity"

// Claims are issued by the account service; only the identity is used here.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Identity struct {
	UserID string
	Email  string
}

var validMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// JWTMiddleware validates bearer tokens, rejects logged-out users and stores
// the caller's Identity in locals. sessions may be nil. An empty secret
// rejects every token.
func JWTMiddleware(secret string, sessions *Sessions) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth header not present")
		}
		token := bearerFromHeader(header)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "only 'Bearer' auth is supported")
		}

		if len(secretBytes) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid jwt")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods(validMethods))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid jwt")
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid jwt")
		}

		loggedOut, err := sessions.LoggedOut(c.UserContext(), claims.UserID)
		if err != nil {
			return fmt.Errorf("session lookup for %s: %w", claims.UserID, err)
		}
		if loggedOut {
			return fiber.NewError(fiber.StatusUnauthorized, "user with id "+claims.UserID+" was logged out!")
		}

		SetIdentity(c, Identity{UserID: claims.UserID, Email: claims.Email})
		return c.Next()
	}
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(localsIdentity, id)
}

// IdentityFrom returns the identity stored by JWTMiddleware.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(localsIdentity).(Identity)
	return id, ok
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
