package search

import (
	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	Service SearchService
}

func NewSearchController(service SearchService) *SearchController {
	return &SearchController{Service: service}
}

// Search godoc
// @Summary      Search documents
// @Description  Case-insensitive substring match over title, description and tags
// @Tags         search
// @Produce      json
// @Param        q query string true "Query text"
// @Param        document_type query string false "Filter by type"
// @Success      200 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/search [get]
func (ctrl *SearchController) Search(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	query := c.Query("q")

	results, err := ctrl.Service.Search(c.UserContext(), claims.UserID, query, c.Query("document_type"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"results": results,
		"query":   query,
	})
}
