package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/domain"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Token required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("Token required")
	}

	claims, ok := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if !ok {
		return apperrors.NewUnauthorized("Invalid or expired token")
	}

	principal, ok := PrincipalFromClaims(claims)
	if !ok {
		return apperrors.NewUnauthorized("Invalid token subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromClaims reads the numeric technician id from sub, which may
// be encoded as a string or a number.
func PrincipalFromClaims(claims map[string]any) (*domain.Principal, bool) {
	var id int64
	switch sub := claims["sub"].(type) {
	case string:
		parsed, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return nil, false
		}
		id = parsed
	case float64:
		id = int64(sub)
	default:
		return nil, false
	}
	if id <= 0 {
		return nil, false
	}

	principal := &domain.Principal{TechnicianID: id, Claims: claims}
	principal.Username, _ = claims["username"].(string)
	principal.Role, _ = claims["role"].(string)
	return principal, true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
