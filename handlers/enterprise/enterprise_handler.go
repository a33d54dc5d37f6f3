package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/models"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// EnterpriseHandler kurum yöneticilerinin (super_admin, admin) kendi kurumları için işlemleri.
type EnterpriseHandler struct {
	enterprises services.IEnterpriseService
	requests    services.ILicenseRequestService
}

func NewEnterpriseHandler(c *services.Container) *EnterpriseHandler {
	return &EnterpriseHandler{enterprises: c.Enterprises, requests: c.LicenseRequests}
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *EnterpriseHandler) GetEnterprise(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	entID, _ := actor.EnterpriseID()
	ent, err := h.enterprises.Get(c.UserContext(), actor, entID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, ent)
}

// UpdateEnterprise sadece ad ve logo; kapasite operatördedir.
func (h *EnterpriseHandler) UpdateEnterprise(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	var in services.UpdateEnterpriseInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	entID, _ := actor.EnterpriseID()
	ent, err := h.enterprises.Update(c.UserContext(), actor, entID, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, ent)
}

func (h *EnterpriseHandler) Usage(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	entID, _ := actor.EnterpriseID()
	usage, err := h.enterprises.Usage(c.UserContext(), actor, entID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, usage)
}

type licenseRequestBody struct {
	RequestType string `json:"request_type"`
	Amount      int    `json:"amount"`
	Message     string `json:"message"`
}

func (h *EnterpriseHandler) SubmitLicenseRequest(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	var body licenseRequestBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	req, err := h.requests.Submit(c.UserContext(), actor, models.LicenseRequestType(body.RequestType), body.Amount, body.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, req)
}

func (h *EnterpriseHandler) ListLicenseRequests(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	list, err := h.requests.List(c.UserContext(), actor, models.LicenseRequestStatus(c.Query("status")))
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, list)
}
