package handlers

import (
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler giriş ve bireysel kayıt.
type AuthHandler struct {
	identity     *services.JWTIdentityService
	provisioning services.IProvisioningService
}

func NewAuthHandler(c *services.Container) *AuthHandler {
	return &AuthHandler{identity: c.Identity, provisioning: c.Provisioning}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	token, user, err := h.identity.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"token": token, "user": user})
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register bireysel hesap ve ana kartını oluşturur.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body registerBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	result, err := h.provisioning.RegisterIndependent(c.UserContext(), body.Name, body.Email, body.Password)
	if err != nil {
		return response.Error(c, err)
	}
	token, err := h.identity.Issue(result.User)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"token": token, "user": result.User, "main_card": result.MainCard})
}
