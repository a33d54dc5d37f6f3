package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// CardHandler kurum yöneticilerinin yönettikleri kullanıcıların kartları üzerindeki işlemleri.
type CardHandler struct {
	cards services.ICardService
}

func NewCardHandler(c *services.Container) *CardHandler {
	return &CardHandler{cards: c.Cards}
}

func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	cards, err := h.cards.ListCards(c.UserContext(), actor)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, cards)
}

type productCardBody struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CreateProductCard :id kullanıcısı adına ürün kartı oluşturur.
func (h *CardHandler) CreateProductCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	userID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	var body productCardBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	card, err := h.cards.CreateProductCard(c.UserContext(), actor, userID, body.Title, body.Slug)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, card)
}

type reassignBody struct {
	UserID uint `json:"user_id"`
}

func (h *CardHandler) ReassignCard(c *fiber.Ctx) error {
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

func (h *CardHandler) SuspendCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kart ID.")
	}
	card, err := h.cards.SuspendCard(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, card)
}

func (h *CardHandler) ReactivateCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kart ID.")
	}
	card, err := h.cards.ReactivateCard(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, card)
}

func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kart ID.")
	}
	if err := h.cards.DeleteCard(c.UserContext(), actor, id); err != nil {
		return response.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
