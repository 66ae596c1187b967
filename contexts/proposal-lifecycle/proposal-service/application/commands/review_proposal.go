package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"civica/contexts/proposal-lifecycle/proposal-service/application"
	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	domainerrors "civica/contexts/proposal-lifecycle/proposal-service/domain/errors"
	"civica/contexts/proposal-lifecycle/proposal-service/ports"
)

type ReviewProposalCommand struct {
	ProposalID int64
	ReviewerID int64
	Outcome    string
	Comments   string
	ReviewType string
}

type ReviewProposalResult struct {
	Review  entities.ReviewRecord
	Message string
}

type ReviewProposalUseCase struct {
	Proposals ports.ProposalRepository
	Reviews   ports.ReviewRepository
	Audit     ports.AuditLog
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ReviewProposalUseCase) ReviewProposal(ctx context.Context, cmd ReviewProposalCommand) (ReviewProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.ProposalID <= 0 || cmd.ReviewerID <= 0 {
		return ReviewProposalResult{}, domainerrors.ErrInvalidProposalInput
	}

	var newStatusID int64
	switch strings.TrimSpace(cmd.Outcome) {
	case entities.ReviewOutcomeApproved:
		newStatusID = entities.ProposalStatusApproved
	case entities.ReviewOutcomeRejected:
		newStatusID = entities.ProposalStatusRejected
	default:
		return ReviewProposalResult{}, domainerrors.ErrInvalidReviewOutcome
	}

	_, found, err := uc.Proposals.GetProposal(ctx, cmd.ProposalID)
	if err != nil {
		logger.Error("proposal lookup failed",
			"event", "proposal_review_lookup_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return ReviewProposalResult{}, domainerrors.ErrInternal
	}
	if !found {
		return ReviewProposalResult{}, domainerrors.ErrProposalNotFound
	}

	now := uc.Clock.Now().UTC()
	review, err := uc.Reviews.RecordReview(ctx, entities.ReviewRecord{
		ProposalID: cmd.ProposalID,
		ReviewerID: cmd.ReviewerID,
		Outcome:    cmd.Outcome,
		Comments:   cmd.Comments,
		ReviewType: cmd.ReviewType,
		ReviewedAt: now,
	}, newStatusID)
	if err != nil {
		logger.Error("review persistence failed",
			"event", "proposal_review_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return ReviewProposalResult{}, domainerrors.ErrInternal
	}

	description := "Propuesta revisada: " + cmd.Outcome
	if err := uc.Audit.Append(ctx, entities.AuditEntry{
		Description: description,
		Timestamp:   now,
		Computer:    "revisarPropuesta/endpoint",
		User:        strconv.FormatInt(cmd.ReviewerID, 10),
		Trace:       fmt.Sprintf("PropuestaID=%d;Resultado=%s", cmd.ProposalID, cmd.Outcome),
		RefID1:      &cmd.ProposalID,
		RefID2:      &cmd.ReviewerID,
		Value1:      cmd.ReviewType,
		Value2:      cmd.Comments,
		Checksum:    auditChecksum(description, cmd.ReviewerID, now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	}); err != nil {
		logger.Error("audit append failed",
			"event", "proposal_review_audit_failed",
			"module", "proposal-lifecycle/proposal-service",
			"layer", "application",
			"error", err.Error(),
		)
	}

	logger.Info("proposal reviewed",
		"event", "proposal_reviewed",
		"module", "proposal-lifecycle/proposal-service",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"outcome", cmd.Outcome,
	)
	return ReviewProposalResult{
		Review:  review,
		Message: fmt.Sprintf("Propuesta %d marcada como %s", cmd.ProposalID, cmd.Outcome),
	}, nil
}
