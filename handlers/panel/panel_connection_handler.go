package handlers

import (
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// PanelConnectionHandler kullanıcının kartları üzerinden gelen bağlantılar.
type PanelConnectionHandler struct {
	connections services.IConnectionService
}

func NewPanelConnectionHandler(c *services.Container) *PanelConnectionHandler {
	return &PanelConnectionHandler{connections: c.Connections}
}

func (h *PanelConnectionHandler) ListConnections(c *fiber.Ctx) error {
	actor, _ := middlewares.PrincipalFrom(c)
	list, err := h.connections.ListPersonal(c.UserContext(), actor)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, list)
}
