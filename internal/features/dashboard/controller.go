package dashboard

import (
	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

// Summary godoc
// @Summary      Dashboard aggregates
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} Summary
// @Security     BearerAuth
// @Router       /api/dashboard [get]
func (ctrl *DashboardController) Summary(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	summary, err := ctrl.Service.Summary(c.UserContext(), claims.UserID)
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(summary)
}
