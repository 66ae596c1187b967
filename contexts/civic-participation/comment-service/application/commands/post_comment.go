package commands

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"civica/contexts/civic-participation/comment-service/application"
	"civica/contexts/civic-participation/comment-service/domain/entities"
	domainerrors "civica/contexts/civic-participation/comment-service/domain/errors"
	"civica/contexts/civic-participation/comment-service/ports"
)

const (
	minBodyLength     = 10
	analysisContextID = 1

	auditTypeDataAccess = 3
	auditOriginAPI      = 1
	auditSeverityInfo   = 1
)

// sensitivePattern flags comments that reference sensitive documents; those
// bodies are encrypted at rest and queued for analysis instead of being
// stored in the clear.
var sensitivePattern = regexp.MustCompile(`(?i)documento\s+sensibl(e|es)`)

type PostCommentCommand struct {
	Title          string
	Body           string
	UserID         int64
	OrganizationID int64
	ProposalID     int64
}

// PostCommentResult reports the moderation outcome. A rejected comment is
// still persisted with the rejected status so moderators can inspect it.
type PostCommentResult struct {
	CommentID int64
	Accepted  bool
	Reason    string
	Sensitive bool
}

type PostCommentUseCase struct {
	Commenters ports.CommenterDirectory
	Proposals  ports.ProposalGate
	Comments   ports.CommentRepository
	Documents  ports.DocumentStore
	Jobs       ports.AnalysisJobs
	Cipher     ports.BodyCipher
	Audit      ports.AuditLog
	Clock      ports.Clock
	Passphrase string
	Logger     *slog.Logger
}

func (uc PostCommentUseCase) PostComment(ctx context.Context, cmd PostCommentCommand) (PostCommentResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.UserID <= 0 || cmd.ProposalID <= 0 || strings.TrimSpace(cmd.Title) == "" {
		return PostCommentResult{}, domainerrors.ErrInvalidCommentInput
	}

	allowed, err := uc.Commenters.HasCommentPermission(ctx, cmd.UserID)
	if err != nil {
		logger.Error("comment permission check failed",
			"event", "comment_permission_check_failed",
			"module", "civic-participation/comment-service",
			"layer", "application",
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return PostCommentResult{}, domainerrors.ErrInternal
	}
	if !allowed {
		return PostCommentResult{}, domainerrors.ErrCommenterNotAllowed
	}

	commentsAllowed, found, err := uc.Proposals.CommentsAllowed(ctx, cmd.ProposalID)
	if err != nil {
		logger.Error("proposal comment gate failed",
			"event", "comment_proposal_gate_failed",
			"module", "civic-participation/comment-service",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return PostCommentResult{}, domainerrors.ErrInternal
	}
	if !found {
		return PostCommentResult{}, domainerrors.ErrProposalNotFound
	}
	if !commentsAllowed {
		return PostCommentResult{}, domainerrors.ErrCommentsNotAllowed
	}

	now := uc.Clock.Now().UTC()
	valid := len(strings.TrimSpace(cmd.Body)) >= minBodyLength
	sensitive := valid && sensitivePattern.MatchString(cmd.Body)

	body := []byte(cmd.Body)
	if sensitive {
		body, err = uc.Cipher.Encrypt(uc.Passphrase, []byte(cmd.Body))
		if err != nil {
			logger.Error("comment body encryption failed",
				"event", "comment_body_encrypt_failed",
				"module", "civic-participation/comment-service",
				"layer", "application",
				"proposal_id", cmd.ProposalID,
				"error", err.Error(),
			)
			return PostCommentResult{}, domainerrors.ErrInternal
		}
	}

	statusID := entities.CommentStatusPendingReview
	if !valid {
		statusID = entities.CommentStatusRejected
	}

	link, err := uc.Comments.SaveComment(ctx, entities.CommentDetail{
		Title:          cmd.Title,
		Body:           body,
		Encrypted:      sensitive,
		PublishedAt:    now,
		UserID:         cmd.UserID,
		OrganizationID: cmd.OrganizationID,
	}, statusID, cmd.ProposalID)
	if err != nil {
		logger.Error("comment persistence failed",
			"event", "comment_save_failed",
			"module", "civic-participation/comment-service",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return PostCommentResult{}, domainerrors.ErrInternal
	}

	if sensitive {
		checksum := sha256.Sum256(body)
		documentID, err := uc.Documents.SaveDocument(ctx, entities.SensitiveDocument{
			Name:         fmt.Sprintf("comentario_%d.txt", link.DetailID),
			CreatedAt:    now,
			TypeID:       entities.DocumentTypeSensitiveComment,
			StatusID:     entities.DocumentStatusDraft,
			LastModified: now,
			Current:      true,
			LegalID:      fmt.Sprintf("%d_%d", cmd.UserID, link.DetailID),
			Checksum:     checksum[:],
		})
		if err != nil {
			logger.Error("sensitive document archival failed",
				"event", "comment_document_save_failed",
				"module", "civic-participation/comment-service",
				"layer", "application",
				"detail_id", link.DetailID,
				"error", err.Error(),
			)
			return PostCommentResult{}, domainerrors.ErrInternal
		}
		if _, err := uc.Jobs.EnqueueAnalysis(ctx, entities.AnalysisJob{
			RequestedAt: now,
			StatusID:    entities.AnalysisStatusPending,
			StartedAt:   now,
			DetailID:    link.DetailID,
			ContextID:   analysisContextID,
			DocumentID:  documentID,
		}); err != nil {
			logger.Error("analysis job enqueue failed",
				"event", "comment_analysis_enqueue_failed",
				"module", "civic-participation/comment-service",
				"layer", "application",
				"detail_id", link.DetailID,
				"error", err.Error(),
			)
			return PostCommentResult{}, domainerrors.ErrInternal
		}
	}

	description := "Comentario registrado"
	sensitivity := "Normal"
	reason := ""
	if !valid {
		description = "Comentario rechazado"
		reason = "El cuerpo es demasiado corto"
	}
	if sensitive {
		sensitivity = "Sensible"
	}
	uc.appendAudit(ctx, entities.AuditEntry{
		Description: description,
		Timestamp:   now,
		Computer:    "API-Comentarios",
		User:        strconv.FormatInt(cmd.UserID, 10),
		Trace:       fmt.Sprintf("ComentarioID=%d;EstadoID=%d", link.DetailID, statusID),
		RefID1:      &cmd.ProposalID,
		RefID2:      &link.DetailID,
		Value1:      cmd.Title,
		Value2:      sensitivity,
		Checksum:    commentChecksum(cmd.UserID, cmd.ProposalID, now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	})

	logger.Info("comment processed",
		"event", "comment_processed",
		"module", "civic-participation/comment-service",
		"layer", "application",
		"comment_id", link.CommentID,
		"proposal_id", cmd.ProposalID,
		"accepted", valid,
		"sensitive", sensitive,
	)
	return PostCommentResult{
		CommentID: link.CommentID,
		Accepted:  valid,
		Reason:    reason,
		Sensitive: sensitive,
	}, nil
}

func (uc PostCommentUseCase) appendAudit(ctx context.Context, entry entities.AuditEntry) {
	if err := uc.Audit.Append(ctx, entry); err != nil {
		application.ResolveLogger(uc.Logger).Error("audit append failed",
			"event", "comment_audit_failed",
			"module", "civic-participation/comment-service",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func commentChecksum(userID int64, proposalID int64, at time.Time) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s", userID, proposalID, at.Format(time.RFC3339))))
	return sum[:]
}
