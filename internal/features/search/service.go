package search

import (
	"context"
	"fmt"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/audit"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/internal/features/user"
)

// maxResults caps every search; there is no ranking, just a substring filter.
const maxResults = 20

type SearchService interface {
	Search(ctx context.Context, actorID, query, documentType string) ([]document.Document, error)
}

type SearchServiceImpl struct {
	DocRepo      document.DocumentRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewSearchService(docRepo document.DocumentRepository, userRepo user.UserRepository, auditService audit.AuditService) SearchService {
	return &SearchServiceImpl{
		DocRepo:      docRepo,
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *SearchServiceImpl) Search(ctx context.Context, actorID, query, documentType string) ([]document.Document, error) {
	// An empty pattern matches everything; the query text is mandatory.
	if query == "" {
		return nil, fmt.Errorf("query text required: %w", apperr.ErrBadRequest)
	}

	actor, err := s.UserRepo.FindByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("actor no longer resolves: %w", apperr.ErrUnauthorized)
	}

	docs, err := s.DocRepo.Search(ctx, query, documentType, maxResults)
	if err != nil {
		return nil, err
	}

	// The query text itself is part of the trail
	s.AuditService.Record(ctx, actor, models.AuditActionSearchPerformed, models.ResourceSearch, query, map[string]interface{}{
		"query": query,
		"type":  documentType,
	})

	return docs, nil
}
