package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/syffus01/BioGED/internal/common/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type AuditService interface {
	// Record appends an audit entry. It never returns an error: a failed
	// audit write must not roll back the operation it describes, but it is
	// logged at Error level so operators see the gap.
	Record(ctx context.Context, actor *models.User, action models.AuditAction, resourceType, resourceID string, details map[string]interface{})

	ListLogs(ctx context.Context, resourceID, action string, skip, limit int64) ([]models.AuditLog, int64, error)
	ExportXLSX(ctx context.Context, resourceID, action string) ([]byte, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *AuditServiceImpl) Record(ctx context.Context, actor *models.User, action models.AuditAction, resourceType, resourceID string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}

	entry := models.AuditLog{
		EntryID:      uuid.NewString(),
		UserID:       actor.UserID,
		UserName:     actor.FullName,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    time.Now(),
	}
	if ip, ok := ctx.Value(models.IPAddressKey).(string); ok {
		entry.IPAddress = ip
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		// A missing audit entry is a compliance defect in itself
		s.Logger.Error("audit write failed",
			zap.String("action", string(action)),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.String("user_id", actor.UserID),
			zap.Error(err),
		)
	}
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, resourceID, action string, skip, limit int64) ([]models.AuditLog, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 100
	}

	filters := map[string]interface{}{
		"resource_id": resourceID,
		"action":      action,
	}

	logs, err := s.Repo.List(ctx, filters, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ExportXLSX renders the matching audit trail as a spreadsheet for offline
// compliance review. The export itself is audited by the caller.
func (s *AuditServiceImpl) ExportXLSX(ctx context.Context, resourceID, action string) ([]byte, error) {
	filters := map[string]interface{}{
		"resource_id": resourceID,
		"action":      action,
	}

	// Exports are bounded: one workbook per 10k entries is plenty for review
	logs, err := s.Repo.List(ctx, filters, 10000, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Trail"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Timestamp", "User", "User ID", "Action", "Resource Type", "Resource ID", "IP Address", "Details"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, entry := range logs {
		values := []interface{}{
			entry.Timestamp.Format(time.RFC3339),
			entry.UserName,
			entry.UserID,
			string(entry.Action),
			entry.ResourceType,
			entry.ResourceID,
			entry.IPAddress,
			fmt.Sprintf("%v", entry.Details),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
