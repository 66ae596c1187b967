package ports

import (
	"context"
	"time"

	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
)

// ProposalRepository persists proposals, their version history, segment
// links and attachments. CreateProposal and UpdateProposal write the whole
// draft atomically; UpdateProposal also appends a version row.
type ProposalRepository interface {
	GetProposal(ctx context.Context, proposalID int64) (entities.Proposal, bool, error)
	CreateProposal(ctx context.Context, draft entities.ProposalDraft, checksum []byte) (entities.Proposal, error)
	UpdateProposal(ctx context.Context, draft entities.ProposalDraft, checksum []byte, version int64) (entities.Proposal, error)
}

// ReviewRepository records review outcomes and moves the proposal status.
type ReviewRepository interface {
	RecordReview(ctx context.Context, review entities.ReviewRecord, newStatusID int64) (entities.ReviewRecord, error)
}

type AuditLog interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

type Clock interface {
	Now() time.Time
}
