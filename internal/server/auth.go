package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"uniwiz/internal/middleware"
	"uniwiz/internal/models"
	"uniwiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "uniwiz-api"
	tokenAudience = "uniwiz-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// generateToken issues an HS256 token for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken validates signature, issuer, audience and expiry and returns the user ID.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errors.New("invalid user ID in token")
	}
	return uint(userID), nil
}

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthRequired returns the authentication middleware.
// The role comes from the stored user, not the token, so role and status
// changes apply to tokens already issued.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		// Browsers cannot set headers on websocket upgrades.
		if tokenString == "" && strings.HasPrefix(c.Path(), "/api/ws") {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		user, err := s.userRepo.GetCachedByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !user.IsActive() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account is blocked"))
		}

		c.Locals("userID", user.ID)
		c.Locals("userRole", user.Role)
		middleware.EnrichUserContext(c)

		return c.Next()
	}
}

// RoleRequired rejects users whose role is not listed with 403.
// Must be placed after AuthRequired.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(models.UserRole)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Insufficient permissions"))
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}

// currentActor returns the authenticated caller set by AuthRequired.
func currentActor(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("userRole").(models.UserRole)
	return service.Actor{ID: id, Role: role}
}

// optionalActor resolves the caller on public routes without enforcing auth.
// Invalid tokens and blocked users are treated as anonymous.
func (s *Server) optionalActor(c *fiber.Ctx) *service.Actor {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil
	}
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	user, err := s.userRepo.GetCachedByID(c.UserContext(), userID)
	if err != nil || !user.IsActive() {
		return nil
	}
	return &service.Actor{ID: user.ID, Role: user.Role}
}
