package approval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/internal/features/audit"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/internal/features/user"
	"github.com/syffus01/BioGED/pkg/utils"
)

// casAttempts bounds the read-modify-write retries when two approvals race
// on the same document.
const casAttempts = 3

type ApprovalService interface {
	// ApproveStep completes one workflow step and recomputes the document
	// status. Any step may be approved regardless of the others' state; the
	// document becomes Approved once every step is Completed.
	ApproveStep(ctx context.Context, actorID, documentID string, stepIndex int, comments string) (document.DocumentStatus, error)

	// Reject sets the document to Rejected without touching the step list.
	// Rejection carries no role restriction and is not reversible here.
	Reject(ctx context.Context, actorID, documentID, reason string) error

	// Sign re-verifies the actor's password and appends an electronic
	// signature. Signatures never alter status or workflow.
	Sign(ctx context.Context, actorID, documentID, reason, password string) (*document.ElectronicSignature, error)
}

type ApprovalServiceImpl struct {
	DocRepo      document.DocumentRepository
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewApprovalService(docRepo document.DocumentRepository, userRepo user.UserRepository, auditService audit.AuditService) ApprovalService {
	return &ApprovalServiceImpl{
		DocRepo:      docRepo,
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *ApprovalServiceImpl) resolveActor(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := s.UserRepo.FindByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("actor no longer resolves: %w", apperr.ErrUnauthorized)
	}
	return actor, nil
}

func (s *ApprovalServiceImpl) ApproveStep(ctx context.Context, actorID, documentID string, stepIndex int, comments string) (document.DocumentStatus, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return "", err
	}

	var status document.DocumentStatus
	for attempt := 0; attempt < casAttempts; attempt++ {
		doc, err := s.DocRepo.Get(ctx, documentID)
		if err != nil {
			return "", err
		}

		if stepIndex < 0 || stepIndex >= len(doc.Workflow) {
			return "", fmt.Errorf("workflow step %d out of range: %w", stepIndex, apperr.ErrBadRequest)
		}

		step := doc.Workflow[stepIndex]
		if step.AssigneeRole != string(actor.Role) && actor.Role != models.RoleAdmin {
			return "", fmt.Errorf("role %s may not approve step %q: %w", actor.Role, step.StepName, apperr.ErrForbidden)
		}

		now := time.Now()
		doc.Workflow[stepIndex].Status = document.StepCompleted
		doc.Workflow[stepIndex].AssigneeID = actor.UserID
		doc.Workflow[stepIndex].CompletedAt = &now
		doc.Workflow[stepIndex].Comments = comments

		status = document.ComputeStatus(doc.Workflow)

		err = s.DocRepo.ReplaceWorkflow(ctx, documentID, doc.Revision, doc.Workflow, status)
		if errors.Is(err, apperr.ErrConflict) {
			continue // someone else moved the document; re-read and retry
		}
		if err != nil {
			return "", err
		}

		s.AuditService.Record(ctx, actor, models.AuditActionDocumentApproved, models.ResourceDocument, documentID, map[string]interface{}{
			"step":     stepIndex,
			"comments": comments,
		})
		return status, nil
	}

	return "", fmt.Errorf("document %s kept changing underneath the approval: %w", documentID, apperr.ErrConflict)
}

func (s *ApprovalServiceImpl) Reject(ctx context.Context, actorID, documentID, reason string) error {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	if _, err := s.DocRepo.Get(ctx, documentID); err != nil {
		return err
	}

	if err := s.DocRepo.SetStatus(ctx, documentID, document.StatusRejected); err != nil {
		return err
	}

	s.AuditService.Record(ctx, actor, models.AuditActionDocumentRejected, models.ResourceDocument, documentID, map[string]interface{}{
		"reason": reason,
	})
	return nil
}

func (s *ApprovalServiceImpl) Sign(ctx context.Context, actorID, documentID, reason, password string) (*document.ElectronicSignature, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(password, actor.Password) {
		return nil, fmt.Errorf("invalid password for signature: %w", apperr.ErrUnauthorized)
	}

	sig := document.ElectronicSignature{
		SignerID:   actor.UserID,
		SignerName: actor.FullName,
		SignerRole: string(actor.Role),
		SignedAt:   time.Now(),
		Reason:     reason,
		Location:   "Digital",
	}
	sig.SignatureHash = SignatureHash(actor.UserID, documentID, reason, sig.SignedAt)

	for attempt := 0; attempt < casAttempts; attempt++ {
		doc, err := s.DocRepo.Get(ctx, documentID)
		if err != nil {
			return nil, err
		}

		err = s.DocRepo.AppendSignature(ctx, documentID, doc.Revision, sig)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.AuditService.Record(ctx, actor, models.AuditActionDocumentSigned, models.ResourceDocument, documentID, map[string]interface{}{
			"reason": reason,
		})
		return &sig, nil
	}

	return nil, fmt.Errorf("document %s kept changing underneath the signature: %w", documentID, apperr.ErrConflict)
}

// SignatureHash stamps signer, document, reason and signing time into a
// sha256 digest. Tamper-evident, not tamper-proof: the hash binds the
// signature record to its fields, nothing chains records together.
func SignatureHash(signerID, documentID, reason string, signedAt time.Time) string {
	payload := signerID + documentID + reason + signedAt.Format(time.RFC3339Nano)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
