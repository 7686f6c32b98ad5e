package approval

import (
	"strconv"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{Service: service}
}

// Approve godoc
// @Summary      Approve one workflow step
// @Tags         approval
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        step_index query int true "Zero-based step index"
// @Param        comments query string false "Reviewer comments"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/{id}/approve [post]
func (ctrl *ApprovalController) Approve(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	stepIndex, err := strconv.Atoi(c.Query("step_index", "-1"))
	if err != nil {
		return apperr.Fail(c, apperr.ErrBadRequest)
	}

	status, err := ctrl.Service.ApproveStep(c.UserContext(), claims.UserID, c.Params("id"), stepIndex, c.Query("comments"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	message := "Document step approved"
	if status == document.StatusApproved {
		message = "Document approved"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"status":  status,
	})
}

// Reject godoc
// @Summary      Reject a document
// @Tags         approval
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        reason query string true "Rejection reason"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/{id}/reject [post]
func (ctrl *ApprovalController) Reject(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	reason := c.Query("reason")
	if err := ctrl.Service.Reject(c.UserContext(), claims.UserID, c.Params("id"), reason); err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Document rejected",
		"reason":  reason,
	})
}

// Sign godoc
// @Summary      Electronically sign a document
// @Description  Re-verifies the caller's password before appending the signature
// @Tags         approval
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        reason query string true "Signing reason"
// @Param        password query string true "Account password"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/{id}/sign [post]
func (ctrl *ApprovalController) Sign(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	sig, err := ctrl.Service.Sign(c.UserContext(), claims.UserID, c.Params("id"), c.Query("reason"), c.Query("password"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Document signed successfully",
		"signature_id": sig.SignatureHash,
	})
}
