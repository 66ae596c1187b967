package ports

import (
	"context"
	"time"

	"civica/contexts/civic-participation/votation-config/domain/entities"
)

// ProposalOwnership answers whether a user is the registered owner of a
// proposal. Configuration is owner-only.
type ProposalOwnership interface {
	IsProposalOwner(ctx context.Context, proposalID int64, userID int64) (bool, error)
}

// QuestionCatalog reports which ballot questions exist. Links to unknown
// questions are rejected before any row is written.
type QuestionCatalog interface {
	QuestionExists(ctx context.Context, questionID int64) (bool, error)
}

// VotationWriter persists a draft atomically: the votation row, its link to
// the proposal, the target segment links and the question links either all
// land or none do.
type VotationWriter interface {
	CreateVotation(ctx context.Context, draft entities.VotationDraft) (entities.ConfiguredVotation, error)
}

type AuditLog interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

type Clock interface {
	Now() time.Time
}
