package httpadapter

import (
	"context"
	"log/slog"

	"civica/contexts/civic-participation/comment-service/application/commands"
	httptransport "civica/contexts/civic-participation/comment-service/transport/http"
)

type Handler struct {
	Comments commands.PostCommentUseCase
	Logger   *slog.Logger
}

// PostCommentHandler returns the use-case result verbatim; the transport
// layer decides the status code from Accepted.
func (h Handler) PostCommentHandler(ctx context.Context, req httptransport.PostCommentRequest) (commands.PostCommentResult, error) {
	return h.Comments.PostComment(ctx, commands.PostCommentCommand{
		Title:          req.Title,
		Body:           req.Body,
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		ProposalID:     req.ProposalID,
	})
}
