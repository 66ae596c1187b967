package entities

import "time"

// Voter is the registered participant, looked up by national identification.
// Immutable for the purposes of this module.
type Voter struct {
	UserID         int64
	Identification string
	Name           string
	FirstSurname   string
	SecondSurname  string
}

// VoterKey is an opaque encrypted blob bound to one voter. Only the most
// recently modified active key is ever used; rotation happens externally.
type VoterKey struct {
	KeyID        int64
	UserID       int64
	EncryptedKey []byte
	Active       bool
	Deleted      bool
	LastModified time.Time
}

type Votation struct {
	VotationID   int64
	TypeID       int64
	Title        string
	Description  string
	StartsAt     time.Time
	EndsAt       time.Time
	StatusID     int64
	Private      bool
	Secret       bool
	LastModified time.Time
	Questions    []Question
}

// OpenAt reports whether the instant falls inside the votation's window,
// boundaries included.
func (v Votation) OpenAt(now time.Time) bool {
	instant := now.UTC()
	return !instant.Before(v.StartsAt.UTC()) && !instant.After(v.EndsAt.UTC())
}

func (v Votation) Question(questionID int64) (Question, bool) {
	for _, question := range v.Questions {
		if question.QuestionID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

type Question struct {
	QuestionID int64
	Prompt     string
	Answers    []Answer
}

func (q Question) Answer(answerID int64) (Answer, bool) {
	for _, answer := range q.Answers {
		if answer.AnswerID == answerID {
			return answer, true
		}
	}
	return Answer{}, false
}

type Answer struct {
	AnswerID   int64
	QuestionID int64
	Label      string
	Value      string
}

// VoteRecord is the persisted ballot entry. LinkageToken binds the record to
// its voter without storing the voter id in clear; VoterDigest is the
// deterministic keyed hash used for queryable duplicate detection. Records
// are created exactly once per (voter, question) and never changed.
type VoteRecord struct {
	VoteID       int64
	QuestionID   int64
	AnswerID     int64
	Value        string
	WeightID     int64
	TokenGUID    string
	CastAt       time.Time
	Checksum     []byte
	LinkageToken []byte
	VoterDigest  string
}

// LivenessProof is recorded as a generic document row on every authenticated
// attempt, independently of the vote outcome.
type LivenessProof struct {
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

const (
	DocumentTypeLivenessProof int64 = 10
	DocumentStatusAccepted    int64 = 4
)

// AuditEntry is the append-only record of a security-relevant event.
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

const (
	AuditSeverityInfo     = 1
	AuditSeverityNotice   = 2
	AuditSeverityWarning  = 3
	AuditSeverityCritical = 5
)

const (
	AuditTypeAuth       = 1
	AuditTypeCredential = 2
	AuditTypeDataAccess = 3
)

const (
	AuditOriginAPI      = 1
	AuditOriginEndpoint = 2
)
