package commands

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"civica/contexts/proposal-lifecycle/proposal-service/application"
	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	domainerrors "civica/contexts/proposal-lifecycle/proposal-service/domain/errors"
	"civica/contexts/proposal-lifecycle/proposal-service/ports"
)

const (
	auditTypeDataAccess = 3
	auditOriginAPI      = 1
	auditSeverityInfo   = 1
)

type UpsertProposalCommand struct {
	Draft entities.ProposalDraft
}

type UpsertProposalResult struct {
	Proposal entities.Proposal
	Created  bool
}

type UpsertProposalUseCase struct {
	Proposals ports.ProposalRepository
	Audit     ports.AuditLog
	Clock     ports.Clock
	Logger    *slog.Logger
}

// UpsertProposal creates a proposal when the draft carries no id, and
// otherwise updates it after confirming the acting user is its proponent.
// Every write recomputes the integrity checksum and bumps the version.
func (uc UpsertProposalUseCase) UpsertProposal(ctx context.Context, cmd UpsertProposalCommand) (UpsertProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	draft := cmd.Draft
	if draft.UserID <= 0 || strings.TrimSpace(draft.Description) == "" || draft.EndsAt.IsZero() {
		return UpsertProposalResult{}, domainerrors.ErrInvalidProposalInput
	}

	checksum := proposalChecksum(draft)

	if draft.ProposalID == 0 {
		proposal, err := uc.Proposals.CreateProposal(ctx, draft, checksum)
		if err != nil {
			logger.Error("proposal creation failed",
				"event", "proposal_create_failed",
				"module", "proposal-lifecycle/proposal-service",
				"layer", "application",
				"error", err.Error(),
			)
			return UpsertProposalResult{}, domainerrors.ErrInternal
		}
		uc.auditWrite(ctx, "Propuesta creada", draft.UserID, proposal)
		logger.Info("proposal created",
			"event", "proposal_created",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"proposal_id", proposal.ProposalID,
		)
		return UpsertProposalResult{Proposal: proposal, Created: true}, nil
	}

	existing, found, err := uc.Proposals.GetProposal(ctx, draft.ProposalID)
	if err != nil {
		logger.Error("proposal lookup failed",
			"event", "proposal_lookup_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"proposal_id", draft.ProposalID,
			"error", err.Error(),
		)
		return UpsertProposalResult{}, domainerrors.ErrInternal
	}
	if !found {
		return UpsertProposalResult{}, domainerrors.ErrProposalNotFound
	}
	if existing.UserID != draft.UserID {
		return UpsertProposalResult{}, domainerrors.ErrNotProponent
	}

	proposal, err := uc.Proposals.UpdateProposal(ctx, draft, checksum, existing.Version+1)
	if err != nil {
		logger.Error("proposal update failed",
			"event", "proposal_update_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"proposal_id", draft.ProposalID,
			"error", err.Error(),
		)
		return UpsertProposalResult{}, domainerrors.ErrInternal
	}
	uc.auditWrite(ctx, "Propuesta actualizada", draft.UserID, proposal)
	logger.Info("proposal updated",
		"event", "proposal_updated",
		"module", "proposal-lifecycle/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"version", proposal.Version,
	)
	return UpsertProposalResult{Proposal: proposal}, nil
}

func (uc UpsertProposalUseCase) auditWrite(ctx context.Context, description string, userID int64, proposal entities.Proposal) {
	now := uc.Clock.Now().UTC()
	entry := entities.AuditEntry{
		Description: description,
		Timestamp:   now,
		Computer:    "crearActualizarPropuesta/endpoint",
		User:        strconv.FormatInt(userID, 10),
		Trace:       fmt.Sprintf("PropuestaID=%d;Version=%d", proposal.ProposalID, proposal.Version),
		RefID1:      &proposal.ProposalID,
		Value1:      proposal.Description,
		Checksum:    auditChecksum(description, userID, now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	}
	if err := uc.Audit.Append(ctx, entry); err != nil {
		application.ResolveLogger(uc.Logger).Error("audit append failed",
			"event", "proposal_audit_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func proposalChecksum(draft entities.ProposalDraft) []byte {
	start := ""
	if draft.StartsAt != nil {
		start = draft.StartsAt.UTC().Format(time.RFC3339)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s|%d|%d",
		draft.CategoryID,
		draft.Description,
		start,
		draft.EndsAt.UTC().Format(time.RFC3339),
		draft.TypeID,
		draft.OrganizationID,
	)))
	return sum[:]
}

func auditChecksum(description string, userID int64, at time.Time) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", description, userID, at.Format(time.RFC3339))))
	return sum[:]
}
