package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler operatörün kurumlar arası kullanıcı ve kart işlemleri.
type UserHandler struct {
	provisioning services.IProvisioningService
	cards        services.ICardService
}

func NewUserHandler(c *services.Container) *UserHandler {
	return &UserHandler{provisioning: c.Provisioning, cards: c.Cards}
}

// MoveUser kullanıcıyı kuruma alır, kurumdan çıkarır veya başka kuruma taşır.
func (h *UserHandler) MoveUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	var in services.MoveUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	user, err := h.provisioning.MoveUser(c.UserContext(), actor, id, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}

type subLicenseBody struct {
	SubLicenses int `json:"sub_licenses"`
}

func (h *UserHandler) SetSubLicenses(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	var body subLicenseBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	user, err := h.provisioning.SetUserSubLicenses(c.UserContext(), actor, id, body.SubLicenses)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}

type reassignBody struct {
	UserID uint `json:"user_id"`
}

func (h *UserHandler) ReassignCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kart ID.")
	}
	var body reassignBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	card, err := h.cards.ReassignCard(c.UserContext(), actor, id, body.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, card)
}
