package entities

import "time"

// Proposal lifecycle states in pv_estadoPropuesta.
const (
	ProposalStatusInReview int64 = 1
	ProposalStatusApproved int64 = 2
	ProposalStatusRejected int64 = 3
)

// Review outcomes accepted from reviewers.
const (
	ReviewOutcomeApproved = "Aprobada"
	ReviewOutcomeRejected = "Rechazada"
)

// AttachmentDraft is a document reference submitted alongside a proposal.
type AttachmentDraft struct {
	Name    string
	TypeID  int64
	LegalID string
}

// ProposalDraft is the submitted shape before persistence. ProposalID zero
// means a brand-new proposal.
type ProposalDraft struct {
	ProposalID       int64
	CategoryID       int64
	Description      string
	ImageURL         string
	StartsAt         *time.Time
	EndsAt           time.Time
	CommentsAllowed  bool
	TypeID           int64
	OrganizationID   int64
	UserID           int64
	OriginTeam       string
	TargetSegmentIDs []int64
	ImpactSegmentIDs []int64
	Attachments      []AttachmentDraft
}

// Proposal is the persisted record with its version counter and integrity
// checksum.
type Proposal struct {
	ProposalID      int64
	CategoryID      int64
	Description     string
	ImageURL        string
	StartsAt        *time.Time
	EndsAt          time.Time
	CommentsAllowed bool
	TypeID          int64
	OrganizationID  int64
	UserID          int64
	StatusID        int64
	Version         int64
	Checksum        []byte
	LastModified    time.Time
}

// ReviewRecord is the outcome of a proposal revision pass.
type ReviewRecord struct {
	ReviewID   int64
	ProposalID int64
	ReviewerID int64
	Outcome    string
	Comments   string
	ReviewType string
	ReviewedAt time.Time
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
