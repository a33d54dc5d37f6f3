package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// PanelCardHandler kullanıcının kendi kartları.
type PanelCardHandler struct {
	cards services.ICardService
}

func NewPanelCardHandler(c *services.Container) *PanelCardHandler {
	return &PanelCardHandler{cards: c.Cards}
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// Me oturumdaki kullanıcıyı ve aktör türünü döndürür.
func (h *PanelCardHandler) Me(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	return response.OK(c, fiber.Map{
		"user":      middlewares.UserFrom(c),
		"principal": actor.Kind().String(),
	})
}

func (h *PanelCardHandler) ListCards(c *fiber.Ctx) error {
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

// CreateCard kullanıcının kendi ana kartı altında ürün kartı oluşturur.
func (h *PanelCardHandler) CreateCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	var body productCardBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	card, err := h.cards.CreateProductCard(c.UserContext(), actor, actor.UserID(), body.Title, body.Slug)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, card)
}

func (h *PanelCardHandler) GetCard(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kart ID.")
	}
	card, err := h.cards.GetCard(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, card)
}

func (h *PanelCardHandler) SuspendCard(c *fiber.Ctx) error {
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

func (h *PanelCardHandler) ReactivateCard(c *fiber.Ctx) error {
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

func (h *PanelCardHandler) DeleteCard(c *fiber.Ctx) error {
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
