package httpadapter

import (
	"context"
	"log/slog"

	"civica/contexts/civic-participation/votation-config/application/commands"
	httptransport "civica/contexts/civic-participation/votation-config/transport/http"
)

type Handler struct {
	Configs commands.ConfigureVotationUseCase
	Logger  *slog.Logger
}

func (h Handler) ConfigureVotationHandler(ctx context.Context, req httptransport.ConfigureVotationRequest) (httptransport.ConfigureVotationResponse, error) {
	questionIDs := make([]int64, 0, len(req.Questions))
	for _, question := range req.Questions {
		questionIDs = append(questionIDs, question.QuestionID)
	}

	result, err := h.Configs.ConfigureVotation(ctx, commands.ConfigureVotationCommand{
		UserID:      req.UserID,
		ProposalID:  req.ProposalID,
		TypeID:      req.TypeID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Private:     req.Private,
		Secret:      req.Secret,
		SegmentIDs:  req.SegmentIDs,
		QuestionIDs: questionIDs,
	})
	if err != nil {
		return httptransport.ConfigureVotationResponse{}, err
	}
	return httptransport.ConfigureVotationResponse{
		Message:    "Votación configurada",
		VotationID: result.Votation.VotationID,
	}, nil
}
