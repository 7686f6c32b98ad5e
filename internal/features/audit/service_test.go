package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/syffus01/BioGED/internal/common/models"

	"go.uber.org/zap"
)

type memAuditRepo struct {
	entries []models.AuditLog

	failCreate error
	lastLimit  int64
	lastOffset int64
	lastFilter map[string]interface{}
}

func (m *memAuditRepo) Create(ctx context.Context, entry models.AuditLog) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAuditRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]models.AuditLog, error) {
	m.lastFilter = filters
	m.lastLimit = limit
	m.lastOffset = offset
	return m.entries, nil
}

func (m *memAuditRepo) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	return int64(len(m.entries)), nil
}

func actor() *models.User {
	return &models.User{UserID: "u-1", FullName: "Jane Doe", Role: models.RoleAdmin}
}

func TestRecordFillsEntry(t *testing.T) {
	repo := &memAuditRepo{}
	svc := &AuditServiceImpl{Repo: repo, Logger: zap.NewNop()}

	ctx := context.WithValue(context.Background(), models.IPAddressKey, "10.0.0.7")
	svc.Record(ctx, actor(), models.AuditActionDocumentViewed, models.ResourceDocument, "doc-1", nil)

	if len(repo.entries) != 1 {
		t.Fatalf("stored %d entries, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.EntryID == "" {
		t.Error("entry has no id")
	}
	if e.UserID != "u-1" || e.UserName != "Jane Doe" {
		t.Errorf("actor fields wrong: %+v", e)
	}
	if e.Action != models.AuditActionDocumentViewed {
		t.Errorf("action = %s, want DOCUMENT_VIEWED", e.Action)
	}
	if e.IPAddress != "10.0.0.7" {
		t.Errorf("ip = %q, want request ip", e.IPAddress)
	}
	if e.Details == nil {
		t.Error("nil details must be stored as an empty map")
	}
	if e.Timestamp.IsZero() {
		t.Error("entry has no timestamp")
	}
}

func TestRecordSwallowsRepositoryFailure(t *testing.T) {
	repo := &memAuditRepo{failCreate: errors.New("mongo down")}
	svc := &AuditServiceImpl{Repo: repo, Logger: zap.NewNop()}

	// Must not panic and must not surface the error to the caller.
	svc.Record(context.Background(), actor(), models.AuditActionUserLogin, models.ResourceUser, "u-1", nil)

	if len(repo.entries) != 0 {
		t.Error("nothing should have been stored")
	}
}

func TestListLogsDefaults(t *testing.T) {
	repo := &memAuditRepo{}
	svc := &AuditServiceImpl{Repo: repo, Logger: zap.NewNop()}

	if _, _, err := svc.ListLogs(context.Background(), "", "", -5, 0); err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if repo.lastOffset != 0 {
		t.Errorf("offset = %d, want 0", repo.lastOffset)
	}
	if repo.lastLimit != 100 {
		t.Errorf("limit = %d, want default 100", repo.lastLimit)
	}
}

func TestListLogsPassesFilters(t *testing.T) {
	repo := &memAuditRepo{}
	svc := &AuditServiceImpl{Repo: repo, Logger: zap.NewNop()}

	if _, _, err := svc.ListLogs(context.Background(), "doc-1", "DOCUMENT_VIEWED", 10, 25); err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if repo.lastFilter["resource_id"] != "doc-1" || repo.lastFilter["action"] != "DOCUMENT_VIEWED" {
		t.Errorf("filters = %v", repo.lastFilter)
	}
	if repo.lastOffset != 10 || repo.lastLimit != 25 {
		t.Errorf("pagination = (%d, %d), want (10, 25)", repo.lastOffset, repo.lastLimit)
	}
}

func TestExportXLSXProducesWorkbook(t *testing.T) {
	repo := &memAuditRepo{}
	svc := &AuditServiceImpl{Repo: repo, Logger: zap.NewNop()}

	svc.Record(context.Background(), actor(), models.AuditActionDocumentUploaded, models.ResourceDocument, "doc-1", map[string]interface{}{"title": "SOP-17"})

	data, err := svc.ExportXLSX(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("export produced no bytes")
	}
	// XLSX files are zip archives.
	if data[0] != 'P' || data[1] != 'K' {
		t.Errorf("export does not look like a zip archive: % x", data[:4])
	}
}
