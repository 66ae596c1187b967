package entities

import "time"

// Comment status ids mirror the pv_estadoComentario catalog.
const (
	CommentStatusPendingReview int64 = 1
	CommentStatusRejected      int64 = 2
)

// Analysis job states for pv_iaAnalisis rows.
const (
	AnalysisStatusPending   int64 = 1
	AnalysisStatusCompleted int64 = 2
)

// Sensitive comment bodies are archived as documents of this type before the
// analysis pipeline picks them up.
const (
	DocumentTypeSensitiveComment int64 = 99
	DocumentStatusDraft          int64 = 1
)

// CommentDetail is the authored content. Body holds ciphertext when the
// comment was flagged sensitive, plaintext otherwise; Encrypted records which.
type CommentDetail struct {
	DetailID       int64
	Title          string
	Body           []byte
	Encrypted      bool
	PublishedAt    time.Time
	UserID         int64
	OrganizationID int64
}

// CommentLink ties a detail row to a proposal with its moderation status.
type CommentLink struct {
	CommentID  int64
	DetailID   int64
	StatusID   int64
	ProposalID int64
}

// SensitiveDocument is the archived copy of a sensitive comment body.
type SensitiveDocument struct {
	DocumentID   int64
	Name         string
	CreatedAt    time.Time
	TypeID       int64
	StatusID     int64
	LastModified time.Time
	Current      bool
	LegalID      string
	Checksum     []byte
}

// AnalysisJob tracks the asynchronous review of a sensitive comment.
type AnalysisJob struct {
	JobID       int64
	RequestedAt time.Time
	StatusID    int64
	StartedAt   time.Time
	FinishedAt  *time.Time
	DetailID    int64
	ContextID   int64
	DocumentID  int64
}

type AuditEntry struct {
	Description string
	Timestamp   time.Time
	Computer    string
	User        string
	Trace       string
	RefID1      *int64
	RefID2      *int64
	Value1      string
	Value2      string
	Checksum    []byte
	TypeID      int
	OriginID    int
	SeverityID  int
}
