package document

import (
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
}

func NewDocumentApi(controller *DocumentController, config *config.Config) *DocumentApi {
	return &DocumentApi{
		controller: controller,
		config:     config,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	docs := app.Group("/api/documents", middleware.AuthMiddleware(h.config.SkipAuth))

	docs.Post("/upload", h.controller.Upload)
	docs.Get("/", h.controller.List)
	docs.Get("/:id", h.controller.Get)
	docs.Get("/:id/download", h.controller.Download)
}
