package audit

import (
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit", middleware.AuthMiddleware(h.config.SkipAuth))

	audit.Get("/", middleware.RequireAction(middleware.ActionAuditRead, h.controller.UserRepo), h.controller.ListLogs)
	audit.Get("/export", middleware.RequireAction(middleware.ActionAuditExport, h.controller.UserRepo), h.controller.ExportLogs)
}
