package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserFinder resolves token claims back to a credential store record.
type UserFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
}

type AuditController struct {
	Service  AuditService
	UserRepo UserFinder
}

func NewAuditController(service AuditService, userRepo UserFinder) *AuditController {
	return &AuditController{Service: service, UserRepo: userRepo}
}

// ListLogs godoc
// @Summary      Query the audit trail
// @Description  Paged audit entries, newest first. Admin and QualityManager only.
// @Tags         audit
// @Produce      json
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Param        resource_id query string false "Filter by resource id"
// @Param        action query string false "Filter by action tag"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/audit [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)

	logs, total, err := ctrl.Service.ListLogs(c.UserContext(), c.Query("resource_id"), c.Query("action"), skip, limit)
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": total,
		"skip":  skip,
		"limit": limit,
	})
}

// ExportLogs godoc
// @Summary      Export the audit trail as XLSX
// @Tags         audit
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        resource_id query string false "Filter by resource id"
// @Param        action query string false "Filter by action tag"
// @Success      200 {file} file
// @Failure      403 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/audit/export [get]
func (ctrl *AuditController) ExportLogs(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	actor, err := ctrl.UserRepo.FindByUserID(c.UserContext(), claims.UserID)
	if err != nil {
		return apperr.Fail(c, apperr.ErrUnauthorized)
	}

	data, err := ctrl.Service.ExportXLSX(c.UserContext(), c.Query("resource_id"), c.Query("action"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	ctrl.Service.Record(c.UserContext(), actor, models.AuditActionAuditExported, models.ResourceAudit, "audit_logs", map[string]interface{}{
		"resource_id": c.Query("resource_id"),
		"action":      c.Query("action"),
	})

	filename := fmt.Sprintf("audit-trail-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
