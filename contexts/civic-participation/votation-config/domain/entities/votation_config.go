package entities

import "time"

// VotationStatusPrepared is the initial lifecycle state for a configured
// votation. It only becomes open to ballots once the ballot window starts
// and an operator promotes the status.
const VotationStatusPrepared int64 = 1

// VotationDraft captures a votation as submitted by a proposal owner, before
// any row exists for it.
type VotationDraft struct {
	ProposalID  int64
	UserID      int64
	TypeID      int64
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Private     bool
	Secret      bool
	SegmentIDs  []int64
	QuestionIDs []int64
}

// ConfiguredVotation is the persisted result of a draft.
type ConfiguredVotation struct {
	VotationID   int64
	ProposalID   int64
	TypeID       int64
	Title        string
	Description  string
	StartsAt     time.Time
	EndsAt       time.Time
	StatusID     int64
	LastModified time.Time
	Private      bool
	Secret       bool
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
