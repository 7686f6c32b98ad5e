package dashboard

import (
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	config     *config.Config
}

func NewDashboardApi(controller *DashboardController, config *config.Config) *DashboardApi {
	return &DashboardApi{
		controller: controller,
		config:     config,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	app.Get("/api/dashboard", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Summary)
}
