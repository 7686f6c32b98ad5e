package approval

import (
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) *ApprovalApi {
	return &ApprovalApi{
		controller: controller,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	docs := app.Group("/api/documents", middleware.AuthMiddleware(h.config.SkipAuth))

	docs.Post("/:id/approve", h.controller.Approve)
	docs.Post("/:id/reject", h.controller.Reject)
	docs.Post("/:id/sign", h.controller.Sign)
}
