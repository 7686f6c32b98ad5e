package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentStatus string

const (
	StatusDraft       DocumentStatus = "Draft"
	StatusUnderReview DocumentStatus = "UnderReview"
	StatusApproved    DocumentStatus = "Approved"
	StatusRejected    DocumentStatus = "Rejected"
	StatusArchived    DocumentStatus = "Archived"
)

type StepStatus string

const (
	StepPending    StepStatus = "Pending"
	StepInProgress StepStatus = "InProgress"
	StepCompleted  StepStatus = "Completed"
	StepRejected   StepStatus = "Rejected"
)

// WorkflowStep is one checkpoint in a document's approval sequence, owned by
// a role. Steps are ordered by position in the slice.
type WorkflowStep struct {
	StepID       string     `bson:"step_id" json:"step_id"`
	StepName     string     `bson:"step_name" json:"step_name"`
	AssigneeRole string     `bson:"assignee_role" json:"assignee_role"`
	AssigneeID   string     `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	Status       StepStatus `bson:"status" json:"status"`
	CompletedAt  *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Comments     string     `bson:"comments,omitempty" json:"comments,omitempty"`
}

// ElectronicSignature is an append-only attestation, distinct from workflow
// approval. The hash stamps signer, document, reason and signing time.
type ElectronicSignature struct {
	SignerID      string    `bson:"signer_id" json:"signer_id"`
	SignerName    string    `bson:"signer_name" json:"signer_name"`
	SignerRole    string    `bson:"signer_role" json:"signer_role"`
	SignatureHash string    `bson:"signature_hash" json:"signature_hash"`
	SignedAt      time.Time `bson:"signed_at" json:"signed_at"`
	Reason        string    `bson:"reason" json:"reason"`
	Location      string    `bson:"location" json:"location"`
}

// Document is the stored metadata record. Revision is an optimistic lock
// guarding the embedded workflow and signature lists: two concurrent
// read-modify-write cycles cannot both land on the same revision.
type Document struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"-"`
	DocumentID   string                 `bson:"id" json:"id"`
	Title        string                 `bson:"title" json:"title"`
	Description  string                 `bson:"description,omitempty" json:"description,omitempty"`
	DocumentType string                 `bson:"document_type" json:"document_type"`
	Category     string                 `bson:"category" json:"category"`
	Version      string                 `bson:"version" json:"version"`
	Status       DocumentStatus         `bson:"status" json:"status"`
	FilePath     string                 `bson:"file_path" json:"file_path"`
	FileName     string                 `bson:"file_name" json:"file_name"`
	FileSize     int64                  `bson:"file_size" json:"file_size"`
	MimeType     string                 `bson:"mime_type" json:"mime_type"`
	UploadedBy   string                 `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time              `bson:"created_at" json:"created_at"`
	ModifiedAt   time.Time              `bson:"modified_at" json:"modified_at"`
	Metadata     map[string]interface{} `bson:"metadata" json:"metadata"`
	Tags         []string               `bson:"tags" json:"tags"`
	Workflow     []WorkflowStep         `bson:"approval_workflow" json:"approval_workflow"`
	Signatures   []ElectronicSignature  `bson:"signatures" json:"signatures"`
	Revision     int64                  `bson:"revision" json:"-"`
}
