package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/models"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// LicenseRequestHandler operatörün lisans taleplerini sonuçlandırması.
type LicenseRequestHandler struct {
	requests services.ILicenseRequestService
}

func NewLicenseRequestHandler(c *services.Container) *LicenseRequestHandler {
	return &LicenseRequestHandler{requests: c.LicenseRequests}
}

// ListRequests ?status=pending|approved|rejected ile filtrelenebilir.
func (h *LicenseRequestHandler) ListRequests(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	list, err := h.requests.List(c.UserContext(), actor, models.LicenseRequestStatus(c.Query("status")))
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, list)
}

func (h *LicenseRequestHandler) Approve(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz talep ID.")
	}
	req, err := h.requests.Approve(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, req)
}

func (h *LicenseRequestHandler) Reject(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz talep ID.")
	}
	req, err := h.requests.Reject(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, req)
}
