package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const contextKey = "user"

type Handler struct {
	service *Service
	log     *zap.Logger
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/auth/sign-in", h.signIn)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/auth/me", h.me)
}

func (h *Handler) me(c *fiber.Ctx) error {
	sub, err := SubjectFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"username": sub})
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Authenticate(payload.Username, payload.Password); err != nil {
		h.log.Warn("sign-in rejected", zap.String("username", payload.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	}

	signed, expires, err := h.service.IssueToken(payload.Username)
	if err != nil {
		h.log.Error("sign token failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     signed,
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}

// Middleware rejects requests without a valid bearer token with 401.
func (s *Service) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		ContextKey: contextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing or invalid token"})
		},
	})
}

// SubjectFromCtx returns the sub claim of the token the middleware accepted.
func SubjectFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals(contextKey).(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
