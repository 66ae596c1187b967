package entities

import "time"

// Investment is a settled contribution to a crowdlending project.
type Investment struct {
	TransactionID       int64
	ProjectID           int64
	Amount              float64
	Currency            string
	UserID              int64
	OrganizationID      *int64
	PaymentMethod       string
	Reference           string
	AuthorizationNumber string
	InvestedAt          time.Time
}

// DividendRound summarizes one dividend distribution pass over all settled
// investments.
type DividendRound struct {
	RoundID          int64
	ExecutedAt       time.Time
	InvestorCount    int
	TotalDistributed float64
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
