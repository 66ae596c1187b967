package ports

import (
	"context"
	"time"

	"civica/contexts/civic-participation/comment-service/domain/entities"
)

// CommenterDirectory answers whether a user holds the comment permission.
type CommenterDirectory interface {
	HasCommentPermission(ctx context.Context, userID int64) (bool, error)
}

// ProposalGate reports whether a proposal exists and accepts comments.
type ProposalGate interface {
	CommentsAllowed(ctx context.Context, proposalID int64) (allowed bool, found bool, err error)
}

// CommentRepository persists the detail row and its proposal link together.
type CommentRepository interface {
	SaveComment(ctx context.Context, detail entities.CommentDetail, statusID int64, proposalID int64) (entities.CommentLink, error)
}

// DocumentStore archives sensitive comment bodies.
type DocumentStore interface {
	SaveDocument(ctx context.Context, document entities.SensitiveDocument) (int64, error)
}

// AnalysisJobs queues and drains sensitive-comment review jobs.
type AnalysisJobs interface {
	EnqueueAnalysis(ctx context.Context, job entities.AnalysisJob) (int64, error)
	ListPendingJobs(ctx context.Context, limit int) ([]entities.AnalysisJob, error)
	CompleteJob(ctx context.Context, jobID int64, finishedAt time.Time) error
}

// BodyCipher encrypts sensitive comment bodies at rest. Implemented by the
// same passphrase cipher that protects voter keys.
type BodyCipher interface {
	Encrypt(passphrase string, plaintext []byte) ([]byte, error)
}

type AuditLog interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

type Clock interface {
	Now() time.Time
}

// EventEnvelope is the canonical message shape on the bus.
type EventEnvelope struct {
	EventID       string
	EventType     string
	OccurredAt    time.Time
	SourceService string
	TraceID       string
	SchemaVersion int
	PartitionKey  string
	Data          []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
