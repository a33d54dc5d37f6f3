package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler kurum içi hesap yönetimi.
type UserHandler struct {
	provisioning services.IProvisioningService
}

func NewUserHandler(c *services.Container) *UserHandler {
	return &UserHandler{provisioning: c.Provisioning}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	users, err := h.provisioning.ListUsers(c.UserContext(), actor)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, users)
}

// CreateUser admin veya staff hesabı açar. Parola verilmezse geçici parola yanıtta bir kez döner.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	var in services.ProvisionUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	in.EnterpriseID = 0
	result, err := h.provisioning.ProvisionUser(c.UserContext(), actor, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
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

func (h *UserHandler) SuspendUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	user, err := h.provisioning.SuspendUser(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}

func (h *UserHandler) ReactivateUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	user, err := h.provisioning.ReactivateUser(c.UserContext(), actor, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}

// DeleteUser ?detach=true ile kartlar silinmek yerine sahipsiz bırakılır.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	if err := h.provisioning.DeleteUser(c.UserContext(), actor, id, c.QueryBool("detach", false)); err != nil {
		return response.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Geçersiz kullanıcı ID.")
	}
	var in services.ChangeRoleInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Geçersiz istek gövdesi.")
	}
	user, err := h.provisioning.ChangeRole(c.UserContext(), actor, id, in)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}
