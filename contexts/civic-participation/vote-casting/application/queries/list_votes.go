package queries

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"strconv"

	application "civica/contexts/civic-participation/vote-casting/application"
	"civica/contexts/civic-participation/vote-casting/domain/entities"
	"civica/contexts/civic-participation/vote-casting/ports"
)

const (
	listVotesOrigin = "listarVotos/endpoint"

	// Listing is capped to the most recent entries, matching the public
	// vote-history contract.
	recentVotesLimit = 5
)

type ListVotesQuery struct {
	Identification string
	Password       string
	LivenessProof  string
}

type VoterVotes struct {
	Voter   entities.Voter
	Ballots []ports.CastBallot
}

// ListVotesUseCase runs the same authentication and liveness sequence as the
// cast command, then returns the voter's recent ballots resolved through the
// voter digest. Linkage tokens never leave the repository layer.
type ListVotesUseCase struct {
	Auth   application.Authenticator
	Votes  ports.VoteRepository
	Audit  ports.AuditLog
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc ListVotesUseCase) ListVotes(ctx context.Context, query ListVotesQuery) (VoterVotes, error) {
	logger := application.ResolveLogger(uc.Logger)

	voter, err := uc.Auth.Authenticate(ctx, query.Identification, query.Password, query.LivenessProof, listVotesOrigin)
	if err != nil {
		return VoterVotes{}, err
	}

	ballots, err := uc.Votes.ListVotesByDigest(ctx, voter.Digest, recentVotesLimit)
	if err != nil {
		return VoterVotes{}, err
	}

	now := uc.Clock.Now().UTC()
	checksum := sha256.Sum256([]byte("Respuestas obtenidas exitosamente|" + strconv.FormatInt(voter.Voter.UserID, 10)))
	if err := uc.Audit.Append(ctx, entities.AuditEntry{
		Description: "Respuestas obtenidas exitosamente",
		Timestamp:   now,
		Computer:    listVotesOrigin,
		User:        strconv.FormatInt(voter.Voter.UserID, 10),
		Trace:       listVotesOrigin,
		RefID1:      &voter.Voter.UserID,
		Checksum:    checksum[:],
		TypeID:      entities.AuditTypeDataAccess,
		OriginID:    entities.AuditOriginEndpoint,
		SeverityID:  entities.AuditSeverityInfo,
	}); err != nil {
		logger.Error("audit append failed",
			"event", "vote_audit_append_failed",
			"module", "civic-participation/vote-casting",
			"layer", "application",
			"error", err.Error(),
		)
	}

	logger.Info("vote history resolved",
		"event", "vote_list_resolved",
		"module", "civic-participation/vote-casting",
		"layer", "application",
		"user_id", voter.Voter.UserID,
		"count", len(ballots),
	)
	return VoterVotes{Voter: voter.Voter, Ballots: ballots}, nil
}
