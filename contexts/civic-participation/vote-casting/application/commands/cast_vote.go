package commands

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "civica/contexts/civic-participation/vote-casting/application"
	"civica/contexts/civic-participation/vote-casting/domain/entities"
	domainerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	"civica/contexts/civic-participation/vote-casting/ports"
)

const castVoteOrigin = "votar/endpoint"

// CastVoteCommand is the write-model input of the vote casting protocol.
type CastVoteCommand struct {
	QuestionID     int64
	AnswerID       int64
	Value          string
	WeightID       int64
	Identification string
	Password       string
	LivenessProof  string
}

type CastVoteResult struct {
	Vote entities.VoteRecord
}

// CastVoteUseCase orchestrates the protocol: authenticate, record liveness,
// resolve the votation, validate its window, reject duplicates, and persist
// the vote with an encrypted voter-linkage token. Duplicate detection is
// enforced twice: an application-level existence check on the voter digest as
// the fast path, and the repository's uniqueness constraint as the authority
// under concurrent casts.
type CastVoteUseCase struct {
	Auth    application.Authenticator
	Catalog ports.BallotCatalog
	Votes   ports.VoteRepository
	Audit   ports.AuditLog
	Cipher  ports.KeyCipher
	Clock   ports.Clock
	Tokens  ports.TokenGenerator
	Logger  *slog.Logger
}

func (uc CastVoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "vote_cast_started",
		"module", "civic-participation/vote-casting",
		"layer", "application",
		"question_id", cmd.QuestionID,
	)
	if cmd.QuestionID <= 0 || cmd.AnswerID <= 0 ||
		strings.TrimSpace(cmd.Identification) == "" ||
		cmd.Password == "" ||
		len(cmd.Value) > 100 {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	voter, err := uc.Auth.Authenticate(ctx, cmd.Identification, cmd.Password, cmd.LivenessProof, castVoteOrigin)
	if err != nil {
		return CastVoteResult{}, err
	}

	votation, found, err := uc.Catalog.ResolveVotationByQuestion(ctx, cmd.QuestionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !found {
		return CastVoteResult{}, domainerrors.ErrQuestionNotFound
	}
	question, ok := votation.Question(cmd.QuestionID)
	if !ok {
		return CastVoteResult{}, domainerrors.ErrQuestionNotFound
	}
	if _, ok := question.Answer(cmd.AnswerID); !ok {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	now := uc.Clock.Now().UTC()
	if !votation.OpenAt(now) {
		uc.auditRejection(ctx, voter, "Voto rechazado: votación fuera de ventana", cmd.QuestionID, now)
		logger.Warn("votation outside window",
			"event", "vote_cast_votation_closed",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"votation_id", votation.VotationID,
			"question_id", cmd.QuestionID,
		)
		return CastVoteResult{}, domainerrors.ErrVotationClosed
	}

	if exists, err := uc.Votes.HasVote(ctx, voter.Digest, cmd.QuestionID); err != nil {
		return CastVoteResult{}, err
	} else if exists {
		uc.auditRejection(ctx, voter, "Voto rechazado: pregunta ya contestada", cmd.QuestionID, now)
		return CastVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	linkage, err := uc.Cipher.Encrypt(voter.KeyToken, []byte(strconv.FormatInt(voter.Voter.UserID, 10)))
	if err != nil {
		return CastVoteResult{}, err
	}
	token, err := uc.Tokens.NewToken(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}

	record := entities.VoteRecord{
		QuestionID:   cmd.QuestionID,
		AnswerID:     cmd.AnswerID,
		Value:        cmd.Value,
		WeightID:     cmd.WeightID,
		TokenGUID:    token,
		CastAt:       now,
		Checksum:     voteChecksum(cmd.QuestionID, cmd.AnswerID, cmd.Value, token),
		LinkageToken: linkage,
		VoterDigest:  voter.Digest,
	}
	if err := uc.Votes.SaveVote(ctx, record); err != nil {
		// The uniqueness constraint is the loser-detection path for two
		// concurrent casts on the same (voter, question).
		if errors.Is(err, domainerrors.ErrAlreadyVoted) {
			uc.auditRejection(ctx, voter, "Voto rechazado: pregunta ya contestada", cmd.QuestionID, now)
		}
		return CastVoteResult{}, err
	}

	uc.append(ctx, entities.AuditEntry{
		Description: "Voto registrado",
		Timestamp:   now,
		Computer:    castVoteOrigin,
		User:        strconv.FormatInt(voter.Voter.UserID, 10),
		Trace:       castVoteOrigin,
		RefID1:      &voter.Voter.UserID,
		RefID2:      &cmd.QuestionID,
		Value1:      token,
		Checksum:    voteChecksum(cmd.QuestionID, cmd.AnswerID, cmd.Value, token),
		TypeID:      entities.AuditTypeDataAccess,
		OriginID:    entities.AuditOriginEndpoint,
		SeverityID:  entities.AuditSeverityInfo,
	})
	logger.Info("vote recorded",
		"event", "vote_cast_recorded",
		"module", "civic-participation/vote-casting",
		"layer", "application",
		"votation_id", votation.VotationID,
		"question_id", cmd.QuestionID,
		"token", token,
	)
	return CastVoteResult{Vote: record}, nil
}

func (uc CastVoteUseCase) auditRejection(
	ctx context.Context,
	voter application.AuthenticatedVoter,
	description string,
	questionID int64,
	now time.Time,
) {
	uc.append(ctx, entities.AuditEntry{
		Description: description,
		Timestamp:   now,
		Computer:    castVoteOrigin,
		User:        strconv.FormatInt(voter.Voter.UserID, 10),
		Trace:       castVoteOrigin,
		RefID1:      &voter.Voter.UserID,
		RefID2:      &questionID,
		Checksum:    voteChecksum(questionID, 0, description, ""),
		TypeID:      entities.AuditTypeDataAccess,
		OriginID:    entities.AuditOriginEndpoint,
		SeverityID:  entities.AuditSeverityNotice,
	})
}

func (uc CastVoteUseCase) append(ctx context.Context, entry entities.AuditEntry) {
	if err := uc.Audit.Append(ctx, entry); err != nil {
		application.ResolveLogger(uc.Logger).Error("audit append failed",
			"event", "vote_audit_append_failed",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func voteChecksum(questionID int64, answerID int64, value string, token string) []byte {
	composed := strconv.FormatInt(questionID, 10) + "|" +
		strconv.FormatInt(answerID, 10) + "|" +
		value + "|" + token
	sum := sha256.Sum256([]byte(composed))
	return sum[:]
}
