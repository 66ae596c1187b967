package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"civica/contexts/civic-participation/vote-casting/application/commands"
	"civica/contexts/civic-participation/vote-casting/application/queries"
	httptransport "civica/contexts/civic-participation/vote-casting/transport/http"
)

type Handler struct {
	Votes    commands.CastVoteUseCase
	Listings queries.ListVotesUseCase
	Logger   *slog.Logger
}

func (h Handler) CastVoteHandler(ctx context.Context, req httptransport.CastVoteRequest) (httptransport.CastVoteResponse, error) {
	_, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		QuestionID:     req.QuestionID,
		AnswerID:       req.AnswerID,
		Value:          req.Value,
		WeightID:       req.WeightID,
		Identification: req.Identification,
		Password:       req.Password,
		LivenessProof:  req.LivenessProof,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{Msg: "Voto registrado"}, nil
}

func (h Handler) ListVotesHandler(ctx context.Context, req httptransport.ListVotesRequest) (httptransport.ListVotesResponse, error) {
	result, err := h.Listings.ListVotes(ctx, queries.ListVotesQuery{
		Identification: req.Identification,
		Password:       req.Password,
		LivenessProof:  req.LivenessProof,
	})
	if err != nil {
		return httptransport.ListVotesResponse{}, err
	}

	votes := make([]httptransport.VoteSummary, 0, len(result.Ballots))
	for _, ballot := range result.Ballots {
		votes = append(votes, httptransport.VoteSummary{
			VoteID:        ballot.VoteID,
			QuestionID:    ballot.QuestionID,
			QuestionText:  ballot.QuestionText,
			AnswerID:      ballot.AnswerID,
			AnswerText:    ballot.AnswerText,
			VotationTitle: ballot.VotationTitle,
			CastAt:        ballot.CastAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListVotesResponse{
		UserID:        result.Voter.UserID,
		Name:          result.Voter.Name,
		FirstSurname:  result.Voter.FirstSurname,
		SecondSurname: result.Voter.SecondSurname,
		Votes:         votes,
	}, nil
}
