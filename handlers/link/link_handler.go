package handlers

import (
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// LinkHandler herkese açık /c/:slug istekleri.
type LinkHandler struct {
	cards       services.ICardService
	connections services.IConnectionService
}

func NewLinkHandler(c *services.Container) *LinkHandler {
	return &LinkHandler{cards: c.Cards, connections: c.Connections}
}

// publicCard kart sayfası için dışarı açılan alanlar. Kota ve kurum bilgisi verilmez.
type publicCard struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	OwnerName string `json:"owner_name"`
	IsMain    bool   `json:"is_main"`
}

// HandleLink aktif kartı slug ile döndürür; askıdaki kartlar 404'tür.
func (h *LinkHandler) HandleLink(c *fiber.Ctx) error {
	card, owner, err := h.cards.GetPublicCard(c.UserContext(), c.Params("slug"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, publicCard{
		Slug:      card.Slug,
		Title:     card.Title,
		OwnerName: owner.Name,
		IsMain:    card.IsMain(),
	})
}

// CaptureConnection ziyaretçinin iletişim bilgisini kart sahibine kaydeder.
func (h *LinkHandler) CaptureConnection(c *fiber.Ctx) error {
	var lead services.LeadInput
	if err := c.BodyParser(&lead); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	conn, err := h.connections.Capture(c.UserContext(), c.Params("slug"), lead)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"id": conn.ID})
}
