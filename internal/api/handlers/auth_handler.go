package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/internal/api/presenters"
	"Grocery-Receipt-Tracker/pkg/jwt"
)

type (
	AuthHandler interface {
		CreateToken(c *fiber.Ctx) error
	}

	authHandler struct {
		jwtService jwt.JWTService
		validator  *validator.Validate
	}
)

func NewAuthHandler(jwtService jwt.JWTService, validator *validator.Validate) AuthHandler {
	return &authHandler{
		jwtService: jwtService,
		validator:  validator,
	}
}

// CreateToken issues a bearer token for a username. Users themselves are
// created lazily on their first ingested receipt, so there is no registration
// step in front of this.
func (h *authHandler) CreateToken(c *fiber.Ctx) error {
	req := new(domain.CreateTokenRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateToken, err)
	}

	token := h.jwtService.GenerateToken(req.Username)

	return presenters.SuccessResponse(c, domain.CreateTokenResponse{
		Username: req.Username,
		Token:    token,
	}, fiber.StatusOK, domain.MessageSuccessCreateToken)
}
