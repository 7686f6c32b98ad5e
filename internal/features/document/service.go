package document

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/audit"
	"github.com/syffus01/BioGED/internal/features/doctype"
	"github.com/syffus01/BioGED/internal/features/user"

	"github.com/google/uuid"
)

// UploadInput carries the multipart form fields plus the stored-file facts
// the controller produced when it wrote the upload to disk.
type UploadInput struct {
	Title        string
	Description  string
	DocumentType string
	Category     string
	Tags         []string
	FilePath     string
	FileName     string
	FileSize     int64
	MimeType     string
}

type DocumentService interface {
	Upload(ctx context.Context, actorID string, in UploadInput) (*Document, error)
	ListDocuments(ctx context.Context, actorID, documentType, status string, skip, limit int64) ([]Document, int64, error)
	GetDocument(ctx context.Context, actorID, documentID string) (*Document, error)
	Download(ctx context.Context, actorID, documentID string) (*Document, error)
}

type DocumentServiceImpl struct {
	Repo         DocumentRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewDocumentService(repo DocumentRepository, userRepo user.UserRepository, auditService audit.AuditService) DocumentService {
	return &DocumentServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *DocumentServiceImpl) resolveActor(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := s.UserRepo.FindByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("actor no longer resolves: %w", apperr.ErrUnauthorized)
	}
	return actor, nil
}

func (s *DocumentServiceImpl) Upload(ctx context.Context, actorID string, in UploadInput) (*Document, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !doctype.ValidType(in.DocumentType) {
		return nil, fmt.Errorf("unknown document type %q: %w", in.DocumentType, apperr.ErrBadRequest)
	}
	if !doctype.ValidCategory(in.DocumentType, in.Category) {
		return nil, fmt.Errorf("category %q is not valid for type %s: %w", in.Category, in.DocumentType, apperr.ErrBadRequest)
	}

	if in.Tags == nil {
		in.Tags = []string{}
	}

	now := time.Now()
	doc := &Document{
		DocumentID:   uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		DocumentType: in.DocumentType,
		Category:     in.Category,
		Version:      "1.0",
		Status:       StatusDraft,
		FilePath:     in.FilePath,
		FileName:     in.FileName,
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
		UploadedBy:   actor.UserID,
		CreatedAt:    now,
		ModifiedAt:   now,
		Metadata: map[string]interface{}{
			"uploaded_by_name":       actor.FullName,
			"uploaded_by_role":       string(actor.Role),
			"uploaded_by_department": actor.Department,
		},
		Tags:       in.Tags,
		Workflow:   SeedWorkflow(in.DocumentType),
		Signatures: []ElectronicSignature{},
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, actor, models.AuditActionDocumentUploaded, models.ResourceDocument, doc.DocumentID, map[string]interface{}{
		"title": doc.Title,
		"type":  doc.DocumentType,
	})

	return doc, nil
}

func (s *DocumentServiceImpl) ListDocuments(ctx context.Context, actorID, documentType, status string, skip, limit int64) ([]Document, int64, error) {
	if _, err := s.resolveActor(ctx, actorID); err != nil {
		return nil, 0, err
	}

	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 50
	}

	filters := map[string]interface{}{
		"document_type": documentType,
		"status":        status,
	}
	return s.Repo.List(ctx, filters, limit, skip)
}

func (s *DocumentServiceImpl) GetDocument(ctx context.Context, actorID, documentID string) (*Document, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Every successful read is tracked; compliance, not optional
	s.AuditService.Record(ctx, actor, models.AuditActionDocumentViewed, models.ResourceDocument, documentID, nil)

	return doc, nil
}

func (s *DocumentServiceImpl) Download(ctx context.Context, actorID, documentID string) (*Document, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	doc, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(doc.FilePath); err != nil {
		return nil, fmt.Errorf("stored file for document %s: %w", documentID, apperr.ErrNotFound)
	}

	s.AuditService.Record(ctx, actor, models.AuditActionDocumentDownloaded, models.ResourceDocument, documentID, nil)

	return doc, nil
}
