package search

import (
	"context"
	"errors"
	"testing"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/document"
)

type stubDocRepo struct {
	lastQuery string
	lastType  string
	lastLimit int64
	results   []document.Document
}

func (s *stubDocRepo) Create(ctx context.Context, doc *document.Document) error { return nil }
func (s *stubDocRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	return nil, apperr.ErrNotFound
}
func (s *stubDocRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]document.Document, int64, error) {
	return nil, 0, nil
}
func (s *stubDocRepo) Search(ctx context.Context, query, documentType string, limit int64) ([]document.Document, error) {
	s.lastQuery = query
	s.lastType = documentType
	s.lastLimit = limit
	return s.results, nil
}
func (s *stubDocRepo) Recent(ctx context.Context, limit int64) ([]document.Document, error) {
	return nil, nil
}
func (s *stubDocRepo) CountByStatus(ctx context.Context, status document.DocumentStatus) (int64, error) {
	return 0, nil
}
func (s *stubDocRepo) CountAll(ctx context.Context) (int64, error) { return 0, nil }
func (s *stubDocRepo) GroupByType(ctx context.Context) ([]document.TypeCount, error) {
	return nil, nil
}
func (s *stubDocRepo) ReplaceWorkflow(ctx context.Context, id string, rev int64, steps []document.WorkflowStep, status document.DocumentStatus) error {
	return nil
}
func (s *stubDocRepo) AppendSignature(ctx context.Context, id string, rev int64, sig document.ElectronicSignature) error {
	return nil
}
func (s *stubDocRepo) SetStatus(ctx context.Context, id string, status document.DocumentStatus) error {
	return nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, u *models.User) error { return nil }
func (stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, apperr.ErrNotFound
}
func (stubUserRepo) FindByUserID(ctx context.Context, id string) (*models.User, error) {
	if id != "u-1" {
		return nil, apperr.ErrNotFound
	}
	return &models.User{UserID: "u-1", FullName: "Jane Doe", Role: models.RoleUser}, nil
}
func (stubUserRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	return 0, nil
}

type recordingAudit struct {
	entries []models.AuditLog
}

func (r *recordingAudit) Record(ctx context.Context, actor *models.User, action models.AuditAction, resourceType, resourceID string, details map[string]interface{}) {
	r.entries = append(r.entries, models.AuditLog{
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	})
}
func (r *recordingAudit) ListLogs(ctx context.Context, resourceID, action string, skip, limit int64) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}
func (r *recordingAudit) ExportXLSX(ctx context.Context, resourceID, action string) ([]byte, error) {
	return nil, nil
}

func TestSearchCapsResultsAndAuditsQuery(t *testing.T) {
	repo := &stubDocRepo{results: []document.Document{{DocumentID: "doc-1", Title: "Cleaning SOP"}}}
	auditSvc := &recordingAudit{}
	svc := &SearchServiceImpl{DocRepo: repo, UserRepo: stubUserRepo{}, AuditService: auditSvc}

	docs, err := svc.Search(context.Background(), "u-1", "cleaning", "SOP")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("got %d results, want 1", len(docs))
	}
	if repo.lastLimit != maxResults {
		t.Errorf("repo asked for %d results, want cap %d", repo.lastLimit, maxResults)
	}
	if repo.lastQuery != "cleaning" || repo.lastType != "SOP" {
		t.Errorf("repo saw query %q type %q", repo.lastQuery, repo.lastType)
	}

	if len(auditSvc.entries) != 1 {
		t.Fatalf("audited %d times, want 1", len(auditSvc.entries))
	}
	entry := auditSvc.entries[0]
	if entry.Action != models.AuditActionSearchPerformed {
		t.Errorf("action = %s, want SEARCH_PERFORMED", entry.Action)
	}
	if entry.Details["query"] != "cleaning" {
		t.Errorf("query text missing from trail: %v", entry.Details)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	auditSvc := &recordingAudit{}
	svc := &SearchServiceImpl{DocRepo: &stubDocRepo{}, UserRepo: stubUserRepo{}, AuditService: auditSvc}

	_, err := svc.Search(context.Background(), "u-1", "", "")
	if !errors.Is(err, apperr.ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
	if len(auditSvc.entries) != 0 {
		t.Error("a rejected search must not be audited")
	}
}

func TestSearchUnknownActor(t *testing.T) {
	svc := &SearchServiceImpl{DocRepo: &stubDocRepo{}, UserRepo: stubUserRepo{}, AuditService: &recordingAudit{}}

	_, err := svc.Search(context.Background(), "ghost", "anything", "")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
