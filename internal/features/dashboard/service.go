package dashboard

import (
	"context"
	"fmt"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/internal/features/user"
)

// Summary is the dashboard payload: status counts, the ten most recent
// documents and a per-type breakdown.
type Summary struct {
	Stats           Stats                `json:"stats"`
	RecentDocuments []document.Document  `json:"recent_documents"`
	DocumentTypes   []document.TypeCount `json:"document_types"`
}

type Stats struct {
	TotalDocuments    int64 `json:"total_documents"`
	PendingApprovals  int64 `json:"pending_approvals"`
	ApprovedDocuments int64 `json:"approved_documents"`
	DraftDocuments    int64 `json:"draft_documents"`
}

type DashboardService interface {
	Summary(ctx context.Context, actorID string) (*Summary, error)
}

type DashboardServiceImpl struct {
	DocRepo  document.DocumentRepository
	UserRepo user.UserRepository
}

func NewDashboardService(docRepo document.DocumentRepository, userRepo user.UserRepository) DashboardService {
	return &DashboardServiceImpl{DocRepo: docRepo, UserRepo: userRepo}
}

func (s *DashboardServiceImpl) Summary(ctx context.Context, actorID string) (*Summary, error) {
	if _, err := s.UserRepo.FindByUserID(ctx, actorID); err != nil {
		return nil, fmt.Errorf("actor no longer resolves: %w", apperr.ErrUnauthorized)
	}

	total, err := s.DocRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.DocRepo.CountByStatus(ctx, document.StatusUnderReview)
	if err != nil {
		return nil, err
	}
	approved, err := s.DocRepo.CountByStatus(ctx, document.StatusApproved)
	if err != nil {
		return nil, err
	}
	drafts, err := s.DocRepo.CountByStatus(ctx, document.StatusDraft)
	if err != nil {
		return nil, err
	}

	recent, err := s.DocRepo.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}

	byType, err := s.DocRepo.GroupByType(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Stats: Stats{
			TotalDocuments:    total,
			PendingApprovals:  pending,
			ApprovedDocuments: approved,
			DraftDocuments:    drafts,
		},
		RecentDocuments: recent,
		DocumentTypes:   byType,
	}, nil
}
