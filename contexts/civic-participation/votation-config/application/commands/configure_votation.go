package commands

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"civica/contexts/civic-participation/votation-config/application"
	"civica/contexts/civic-participation/votation-config/domain/entities"
	domainerrors "civica/contexts/civic-participation/votation-config/domain/errors"
	"civica/contexts/civic-participation/votation-config/ports"
)

const (
	auditTypeDataAccess = 3
	auditOriginAPI      = 1
	auditSeverityInfo   = 1
	auditSeverityNotice = 2
)

type ConfigureVotationCommand struct {
	UserID      int64
	ProposalID  int64
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

type ConfigureVotationResult struct {
	Votation entities.ConfiguredVotation
}

type ConfigureVotationUseCase struct {
	Proposals ports.ProposalOwnership
	Questions ports.QuestionCatalog
	Writer    ports.VotationWriter
	Audit     ports.AuditLog
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ConfigureVotationUseCase) ConfigureVotation(ctx context.Context, cmd ConfigureVotationCommand) (ConfigureVotationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.UserID <= 0 || cmd.ProposalID <= 0 || strings.TrimSpace(cmd.Title) == "" {
		return ConfigureVotationResult{}, domainerrors.ErrInvalidConfigInput
	}
	if !cmd.EndsAt.After(cmd.StartsAt) {
		return ConfigureVotationResult{}, domainerrors.ErrInvalidConfigInput
	}
	if len(cmd.QuestionIDs) == 0 {
		return ConfigureVotationResult{}, domainerrors.ErrInvalidConfigInput
	}

	owner, err := uc.Proposals.IsProposalOwner(ctx, cmd.ProposalID, cmd.UserID)
	if err != nil {
		logger.Error("proposal ownership check failed",
			"event", "votation_config_ownership_check_failed",
			"module", "civic-participation/votation-config",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return ConfigureVotationResult{}, domainerrors.ErrInternal
	}
	if !owner {
		now := uc.Clock.Now().UTC()
		uc.appendAudit(ctx, entities.AuditEntry{
			Description: "Configuración de votación rechazada: usuario no es dueño",
			Timestamp:   now,
			Computer:    "configurarVotacion/endpoint",
			User:        strconv.FormatInt(cmd.UserID, 10),
			RefID1:      &cmd.ProposalID,
			Checksum:    configChecksum("Configuración de votación rechazada: usuario no es dueño", cmd.UserID, now),
			TypeID:      auditTypeDataAccess,
			OriginID:    auditOriginAPI,
			SeverityID:  auditSeverityNotice,
		})
		return ConfigureVotationResult{}, domainerrors.ErrNotProposalOwner
	}

	for _, questionID := range cmd.QuestionIDs {
		exists, err := uc.Questions.QuestionExists(ctx, questionID)
		if err != nil {
			logger.Error("question existence check failed",
				"event", "votation_config_question_check_failed",
				"module", "civic-participation/votation-config",
				"layer", "application",
				"question_id", questionID,
				"error", err.Error(),
			)
			return ConfigureVotationResult{}, domainerrors.ErrInternal
		}
		if !exists {
			return ConfigureVotationResult{}, domainerrors.ErrUnknownQuestion
		}
	}

	votation, err := uc.Writer.CreateVotation(ctx, entities.VotationDraft{
		ProposalID:  cmd.ProposalID,
		UserID:      cmd.UserID,
		TypeID:      cmd.TypeID,
		Title:       cmd.Title,
		Description: cmd.Description,
		StartsAt:    cmd.StartsAt.UTC(),
		EndsAt:      cmd.EndsAt.UTC(),
		Private:     cmd.Private,
		Secret:      cmd.Secret,
		SegmentIDs:  cmd.SegmentIDs,
		QuestionIDs: cmd.QuestionIDs,
	})
	if err != nil {
		logger.Error("votation creation failed",
			"event", "votation_config_create_failed",
			"module", "civic-participation/votation-config",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return ConfigureVotationResult{}, domainerrors.ErrInternal
	}

	now := uc.Clock.Now().UTC()
	uc.appendAudit(ctx, entities.AuditEntry{
		Description: "Votación configurada",
		Timestamp:   now,
		Computer:    "configurarVotacion/endpoint",
		User:        strconv.FormatInt(cmd.UserID, 10),
		Trace:       fmt.Sprintf("VotacionID=%d;PropuestaID=%d", votation.VotationID, cmd.ProposalID),
		RefID1:      &cmd.ProposalID,
		RefID2:      &votation.VotationID,
		Value1:      cmd.Title,
		Checksum:    configChecksum("Votación configurada", cmd.UserID, now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	})

	logger.Info("votation configured",
		"event", "votation_config_created",
		"module", "civic-participation/votation-config",
		"layer", "application",
		"votation_id", votation.VotationID,
		"proposal_id", cmd.ProposalID,
		"question_count", len(cmd.QuestionIDs),
	)
	return ConfigureVotationResult{Votation: votation}, nil
}

func (uc ConfigureVotationUseCase) appendAudit(ctx context.Context, entry entities.AuditEntry) {
	if err := uc.Audit.Append(ctx, entry); err != nil {
		application.ResolveLogger(uc.Logger).Error("audit append failed",
			"event", "votation_config_audit_failed",
			"module", "civic-participation/votation-config",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func configChecksum(description string, userID int64, at time.Time) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", description, userID, at.Format(time.RFC3339))))
	return sum[:]
}
