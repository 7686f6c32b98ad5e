package search

import (
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SearchApi struct {
	controller *SearchController
	config     *config.Config
}

func NewSearchApi(controller *SearchController, config *config.Config) *SearchApi {
	return &SearchApi{
		controller: controller,
		config:     config,
	}
}

func (h *SearchApi) Setup(app *fiber.App) {
	app.Get("/api/search", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Search)
}
