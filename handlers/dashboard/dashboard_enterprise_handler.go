package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// EnterpriseHandler platform operatörünün kurum işlemleri.
type EnterpriseHandler struct {
	enterprises  services.IEnterpriseService
	provisioning services.IProvisioningService
	cards        services.ICardService
}

func NewEnterpriseHandler(c *services.Container) *EnterpriseHandler {
	return &EnterpriseHandler{
		enterprises:  c.Enterprises,
		provisioning: c.Provisioning,
		cards:        c.Cards,
	}
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// CreateEnterprise kurum, ilk super_admin ve ana kartını oluşturur.
func (h *EnterpriseHandler) CreateEnterprise(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	var in services.CreateEnterpriseInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	result, err := h.provisioning.CreateEnterprise(c.UserContext(), actor, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *EnterpriseHandler) ListEnterprises(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	list, err := h.enterprises.List(c.UserContext(), actor)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, list)
}

func (h *EnterpriseHandler) GetEnterprise(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kurum ID.")
	}
	ent, err := h.enterprises.Get(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, ent)
}

// SetCapacity kapasiteyi talep olmadan doğrudan değiştirir.
func (h *EnterpriseHandler) SetCapacity(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kurum ID.")
	}
	var in services.SetCapacityInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	ent, err := h.enterprises.SetCapacity(c.UserContext(), actor, id, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, ent)
}

func (h *EnterpriseHandler) Usage(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kurum ID.")
	}
	usage, err := h.enterprises.Usage(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, usage)
}

func (h *EnterpriseHandler) ListCards(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kurum ID.")
	}
	cards, err := h.cards.ListEnterpriseCards(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, cards)
}

// ProvisionUser operatörün herhangi bir kurumda hesap açması.
func (h *EnterpriseHandler) ProvisionUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kurum ID.")
	}
	var in services.ProvisionUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	in.EnterpriseID = id
	result, err := h.provisioning.ProvisionUser(c.UserContext(), actor, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}
