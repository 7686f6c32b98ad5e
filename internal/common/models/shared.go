package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	// IPAddressKey carries the request source address into the service
	// layer so audit entries can record it.
	IPAddressKey ContextKey = "ip_address"
)

// Role names are fixed; there is no dynamic role store.
type Role string

const (
	RoleAdmin             Role = "Admin"
	RoleQualityManager    Role = "QualityManager"
	RoleRegulatoryAffairs Role = "RegulatoryAffairs"
	RoleClinicalResearch  Role = "ClinicalResearch"
	RoleManufacturing     Role = "Manufacturing"
	RoleUser              Role = "User"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleQualityManager, RoleRegulatoryAffairs,
		RoleClinicalResearch, RoleManufacturing, RoleUser:
		return true
	}
	return false
}

type AuditAction string

const (
	AuditActionUserRegistered     AuditAction = "USER_REGISTERED"
	AuditActionUserLogin          AuditAction = "USER_LOGIN"
	AuditActionDocumentUploaded   AuditAction = "DOCUMENT_UPLOADED"
	AuditActionDocumentViewed     AuditAction = "DOCUMENT_VIEWED"
	AuditActionDocumentDownloaded AuditAction = "DOCUMENT_DOWNLOADED"
	AuditActionDocumentApproved   AuditAction = "DOCUMENT_APPROVED"
	AuditActionDocumentRejected   AuditAction = "DOCUMENT_REJECTED"
	AuditActionDocumentSigned     AuditAction = "DOCUMENT_SIGNED"
	AuditActionSearchPerformed    AuditAction = "SEARCH_PERFORMED"
	AuditActionAuditExported      AuditAction = "AUDIT_EXPORTED"
)

// Resource type tags for audit entries
const (
	ResourceUser     = "User"
	ResourceDocument = "Document"
	ResourceSearch   = "Search"
	ResourceAudit    = "Audit"
)

// User is the credential store record. The bcrypt hash never leaves the
// backend: bson only, no json tag.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     string             `bson:"id" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	FullName   string             `bson:"full_name" json:"full_name"`
	Role       Role               `bson:"role" json:"role"`
	Department string             `bson:"department" json:"department"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// AuditLog is one append-only audit trail entry. Entries are never updated
// or deleted once written.
type AuditLog struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"-"`
	EntryID      string                 `bson:"id" json:"id"`
	UserID       string                 `bson:"user_id" json:"user_id"`
	UserName     string                 `bson:"user_name" json:"user_name"`
	Action       AuditAction            `bson:"action" json:"action"`
	ResourceType string                 `bson:"resource_type" json:"resource_type"`
	ResourceID   string                 `bson:"resource_id" json:"resource_id"`
	Details      map[string]interface{} `bson:"details" json:"details"`
	Timestamp    time.Time              `bson:"timestamp" json:"timestamp"`
	IPAddress    string                 `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}

// Log is the record shape for application logs teed into Mongo by the
// async zap writer.
type Log struct {
	Message      string    `bson:"message"`
	IpAddress    string    `bson:"ip_address,omitempty"`
	Caller       string    `bson:"caller,omitempty"`
	AppId        string    `bson:"app_id"`
	LogLevelId   int       `bson:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
