package ports

import (
	"context"
	"time"

	"civica/contexts/civic-participation/vote-casting/domain/entities"
)

type VoterDirectory interface {
	GetVoterByIdentification(ctx context.Context, identification string) (entities.Voter, bool, error)
	GetActiveKey(ctx context.Context, userID int64) (entities.VoterKey, bool, error)
}

// KeyCipher is the reversible passphrase-based primitive. Decrypt returns a
// nil plaintext with a nil error on passphrase mismatch; errors are reserved
// for malformed blobs and cipher failures.
type KeyCipher interface {
	Encrypt(passphrase string, plaintext []byte) ([]byte, error)
	Decrypt(passphrase string, blob []byte) ([]byte, error)
}

type BallotCatalog interface {
	// ResolveVotationByQuestion returns the full votation a question belongs
	// to, sibling questions and answers included.
	ResolveVotationByQuestion(ctx context.Context, questionID int64) (entities.Votation, bool, error)
}

// CastBallot is the denormalized listing row for a voter's prior votes.
type CastBallot struct {
	VoteID        int64
	QuestionID    int64
	AnswerID      int64
	QuestionText  string
	AnswerText    string
	VotationTitle string
	CastAt        time.Time
}

type VoteRepository interface {
	HasVote(ctx context.Context, voterDigest string, questionID int64) (bool, error)
	// SaveVote returns the module's duplicate-vote error when the
	// (voter digest, question) uniqueness constraint rejects the insert.
	SaveVote(ctx context.Context, record entities.VoteRecord) error
	ListVotesByDigest(ctx context.Context, voterDigest string, limit int) ([]CastBallot, error)
}

type LivenessRecorder interface {
	// RecordLivenessProof commits the document independently of any vote
	// transaction; it is never rolled back.
	RecordLivenessProof(ctx context.Context, proof entities.LivenessProof) (int64, error)
}

type AuditLog interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

type Clock interface {
	Now() time.Time
}

type TokenGenerator interface {
	NewToken(ctx context.Context) (string, error)
}
