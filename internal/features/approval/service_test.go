package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/pkg/utils"
)

// fakeDocRepo keeps documents in memory and honours the revision check the
// way the Mongo repository does, so the retry loop can be exercised.
type fakeDocRepo struct {
	docs map[string]*document.Document

	// conflictsLeft forces that many ErrConflict results out of the
	// revision-checked writes before they start succeeding.
	conflictsLeft int
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[string]*document.Document{}}
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *document.Document) error {
	f.docs[doc.DocumentID] = doc
	return nil
}

func (f *fakeDocRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *doc
	cp.Workflow = append([]document.WorkflowStep(nil), doc.Workflow...)
	cp.Signatures = append([]document.ElectronicSignature(nil), doc.Signatures...)
	return &cp, nil
}

func (f *fakeDocRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]document.Document, int64, error) {
	return nil, 0, nil
}
func (f *fakeDocRepo) Search(ctx context.Context, query, documentType string, limit int64) ([]document.Document, error) {
	return nil, nil
}
func (f *fakeDocRepo) Recent(ctx context.Context, limit int64) ([]document.Document, error) {
	return nil, nil
}
func (f *fakeDocRepo) CountByStatus(ctx context.Context, status document.DocumentStatus) (int64, error) {
	return 0, nil
}
func (f *fakeDocRepo) CountAll(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeDocRepo) GroupByType(ctx context.Context) ([]document.TypeCount, error) {
	return nil, nil
}

func (f *fakeDocRepo) ReplaceWorkflow(ctx context.Context, id string, revision int64, steps []document.WorkflowStep, status document.DocumentStatus) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		f.docs[id].Revision++ // someone else won the race
		return apperr.ErrConflict
	}
	doc, ok := f.docs[id]
	if !ok || doc.Revision != revision {
		return apperr.ErrConflict
	}
	doc.Workflow = steps
	doc.Status = status
	doc.Revision++
	return nil
}

func (f *fakeDocRepo) AppendSignature(ctx context.Context, id string, revision int64, sig document.ElectronicSignature) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		f.docs[id].Revision++
		return apperr.ErrConflict
	}
	doc, ok := f.docs[id]
	if !ok || doc.Revision != revision {
		return apperr.ErrConflict
	}
	doc.Signatures = append(doc.Signatures, sig)
	doc.Revision++
	return nil
}

func (f *fakeDocRepo) SetStatus(ctx context.Context, id string, status document.DocumentStatus) error {
	doc, ok := f.docs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	doc.Status = status
	doc.Revision++
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, apperr.ErrNotFound
}
func (f *fakeUserRepo) FindByUserID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}
func (f *fakeUserRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	return 0, nil
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Record(ctx context.Context, actor *models.User, action models.AuditAction, resourceType, resourceID string, details map[string]interface{}) {
	f.actions = append(f.actions, action)
}
func (f *fakeAudit) ListLogs(ctx context.Context, resourceID, action string, skip, limit int64) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeAudit) ExportXLSX(ctx context.Context, resourceID, action string) ([]byte, error) {
	return nil, nil
}

func setup(t *testing.T) (*ApprovalServiceImpl, *fakeDocRepo, *fakeAudit) {
	t.Helper()

	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	users := &fakeUserRepo{users: map[string]*models.User{
		"qm-1":    {UserID: "qm-1", FullName: "Q. Manager", Role: models.RoleQualityManager, Password: hash},
		"ra-1":    {UserID: "ra-1", FullName: "R. Affairs", Role: models.RoleRegulatoryAffairs, Password: hash},
		"admin-1": {UserID: "admin-1", FullName: "A. Min", Role: models.RoleAdmin, Password: hash},
		"user-1":  {UserID: "user-1", FullName: "B. User", Role: models.RoleUser, Password: hash},
	}}
	docs := newFakeDocRepo()
	auditSvc := &fakeAudit{}
	svc := &ApprovalServiceImpl{
		DocRepo:      docs,
		UserRepo:     users,
		AuditService: auditSvc,
	}
	return svc, docs, auditSvc
}

func seedDoc(repo *fakeDocRepo, docType string) *document.Document {
	doc := &document.Document{
		DocumentID:   "doc-1",
		Title:        "Batch record SOP",
		DocumentType: docType,
		Status:       document.StatusDraft,
		Workflow:     document.SeedWorkflow(docType),
		Signatures:   []document.ElectronicSignature{},
	}
	repo.docs[doc.DocumentID] = doc
	return doc
}

func TestApproveProtocolToCompletion(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "Protocol")

	status, err := svc.ApproveStep(context.Background(), "qm-1", "doc-1", 0, "reviewed")
	if err != nil {
		t.Fatalf("first approval error = %v", err)
	}
	if status != document.StatusUnderReview {
		t.Fatalf("after first approval status = %s, want UnderReview", status)
	}

	status, err = svc.ApproveStep(context.Background(), "admin-1", "doc-1", 1, "")
	if err != nil {
		t.Fatalf("second approval error = %v", err)
	}
	if status != document.StatusApproved {
		t.Fatalf("after last approval status = %s, want Approved", status)
	}

	stored := repo.docs["doc-1"]
	if stored.Status != document.StatusApproved {
		t.Errorf("persisted status = %s, want Approved", stored.Status)
	}
	step := stored.Workflow[0]
	if step.Status != document.StepCompleted || step.AssigneeID != "qm-1" || step.CompletedAt == nil {
		t.Errorf("completed step not fully recorded: %+v", step)
	}
	if step.Comments != "reviewed" {
		t.Errorf("step comments = %q, want %q", step.Comments, "reviewed")
	}
}

func TestApproveOutOfOrderIsAllowed(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "CTD")

	// The final Admin step can complete before the earlier ones.
	status, err := svc.ApproveStep(context.Background(), "admin-1", "doc-1", 2, "")
	if err != nil {
		t.Fatalf("ApproveStep() error = %v", err)
	}
	if status != document.StatusUnderReview {
		t.Errorf("status = %s, want UnderReview", status)
	}
	if repo.docs["doc-1"].Workflow[0].Status != document.StepPending {
		t.Error("earlier steps must stay pending")
	}
}

func TestApproveWrongRoleForbidden(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "SOP")

	// Step 0 belongs to QualityManager; a plain user may not take it.
	_, err := svc.ApproveStep(context.Background(), "user-1", "doc-1", 0, "")
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if repo.docs["doc-1"].Workflow[0].Status != document.StepPending {
		t.Error("step must not be touched on a forbidden approval")
	}
}

func TestApproveAdminOverridesAnyStep(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "CTD")

	// Step 1 belongs to RegulatoryAffairs but Admin can take any step.
	if _, err := svc.ApproveStep(context.Background(), "admin-1", "doc-1", 1, ""); err != nil {
		t.Fatalf("ApproveStep() error = %v", err)
	}
	if repo.docs["doc-1"].Workflow[1].AssigneeID != "admin-1" {
		t.Error("admin approval not recorded on the step")
	}
}

func TestApproveStepIndexOutOfRange(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "SOP")

	for _, idx := range []int{-1, 2, 99} {
		_, err := svc.ApproveStep(context.Background(), "admin-1", "doc-1", idx, "")
		if !errors.Is(err, apperr.ErrBadRequest) {
			t.Errorf("index %d: error = %v, want ErrBadRequest", idx, err)
		}
	}
}

func TestApproveUnknownDocument(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.ApproveStep(context.Background(), "admin-1", "missing", 0, "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestApproveRetriesThroughConflicts(t *testing.T) {
	svc, repo, auditSvc := setup(t)
	seedDoc(repo, "SOP")
	repo.conflictsLeft = casAttempts - 1

	if _, err := svc.ApproveStep(context.Background(), "qm-1", "doc-1", 0, ""); err != nil {
		t.Fatalf("expected retry to absorb %d conflicts, got %v", casAttempts-1, err)
	}
	if len(auditSvc.actions) != 1 {
		t.Errorf("retried approval audited %d times, want once", len(auditSvc.actions))
	}
}

func TestApproveGivesUpAfterRepeatedConflicts(t *testing.T) {
	svc, repo, auditSvc := setup(t)
	seedDoc(repo, "SOP")
	repo.conflictsLeft = casAttempts

	_, err := svc.ApproveStep(context.Background(), "qm-1", "doc-1", 0, "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	if len(auditSvc.actions) != 0 {
		t.Error("a failed approval must not be audited as approved")
	}
}

func TestRejectSetsStatusAndKeepsSteps(t *testing.T) {
	svc, repo, auditSvc := setup(t)
	doc := seedDoc(repo, "CTD")
	doc.Workflow[0].Status = document.StepCompleted

	// Rejection carries no role restriction, so even a plain user can do it.
	if err := svc.Reject(context.Background(), "user-1", "doc-1", "wrong template"); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	stored := repo.docs["doc-1"]
	if stored.Status != document.StatusRejected {
		t.Errorf("status = %s, want Rejected", stored.Status)
	}
	if stored.Workflow[0].Status != document.StepCompleted {
		t.Error("rejection must not rewrite the step list")
	}
	if len(auditSvc.actions) != 1 || auditSvc.actions[0] != models.AuditActionDocumentRejected {
		t.Errorf("audit actions = %v, want one DOCUMENT_REJECTED", auditSvc.actions)
	}
}

func TestRejectUnknownDocument(t *testing.T) {
	svc, _, _ := setup(t)

	err := svc.Reject(context.Background(), "user-1", "missing", "n/a")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSignAppendsOneSignature(t *testing.T) {
	svc, repo, auditSvc := setup(t)
	doc := seedDoc(repo, "SOP")
	doc.Status = document.StatusUnderReview

	sig, err := svc.Sign(context.Background(), "qm-1", "doc-1", "approved per SOP-001", "s3cret")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	stored := repo.docs["doc-1"]
	if len(stored.Signatures) != 1 {
		t.Fatalf("document carries %d signatures, want 1", len(stored.Signatures))
	}
	if stored.Status != document.StatusUnderReview {
		t.Error("signing must not change document status")
	}
	if sig.SignerID != "qm-1" || sig.SignerRole != "QualityManager" {
		t.Errorf("signer fields wrong: %+v", sig)
	}
	want := SignatureHash("qm-1", "doc-1", "approved per SOP-001", sig.SignedAt)
	if sig.SignatureHash != want {
		t.Errorf("signature hash = %s, want %s", sig.SignatureHash, want)
	}
	if len(auditSvc.actions) != 1 || auditSvc.actions[0] != models.AuditActionDocumentSigned {
		t.Errorf("audit actions = %v, want one DOCUMENT_SIGNED", auditSvc.actions)
	}
}

func TestSignWrongPassword(t *testing.T) {
	svc, repo, _ := setup(t)
	seedDoc(repo, "SOP")

	_, err := svc.Sign(context.Background(), "qm-1", "doc-1", "reason", "not-the-password")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if len(repo.docs["doc-1"].Signatures) != 0 {
		t.Error("failed signature attempt must not be stored")
	}
}

func TestSignatureHashBindsAllFields(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	base := SignatureHash("signer", "doc", "reason", at)
	if base != SignatureHash("signer", "doc", "reason", at) {
		t.Fatal("hash is not deterministic")
	}

	variants := []string{
		SignatureHash("other", "doc", "reason", at),
		SignatureHash("signer", "other", "reason", at),
		SignatureHash("signer", "doc", "other", at),
		SignatureHash("signer", "doc", "reason", at.Add(time.Nanosecond)),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d did not change the hash", i)
		}
	}
}
