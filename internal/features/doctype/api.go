package doctype

import (
	"github.com/gofiber/fiber/v2"
)

type DocTypeApi struct{}

func NewDocTypeApi() *DocTypeApi {
	return &DocTypeApi{}
}

func (h *DocTypeApi) Setup(app *fiber.App) {
	app.Get("/api/config/document-types", h.getDocumentTypes)
}

// getDocumentTypes godoc
// @Summary      Document type to category mapping
// @Tags         config
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/config/document-types [get]
func (h *DocTypeApi) getDocumentTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"document_types": Categories,
	})
}
