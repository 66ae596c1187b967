package httpserver

import (
	"errors"
	"net/http"

	commenterrors "civica/contexts/civic-participation/comment-service/domain/errors"
	commenthttp "civica/contexts/civic-participation/comment-service/transport/http"
)

// handlePostComment godoc
//
//	@Summary	Submit a comment on a proposal
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		commenthttp.PostCommentRequest	true	"comment payload"
//	@Success	201		{object}	commenthttp.PostCommentResponse
//	@Failure	400		{object}	commenthttp.PostCommentResponse
//	@Failure	403		{object}	commenthttp.ErrorResponse
//	@Failure	404		{object}	commenthttp.ErrorResponse
//	@Router		/api/comentar [post]
func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var req commenthttp.PostCommentRequest
	if !s.decodeAndValidate(w, r, &req, writeCommentError) {
		return
	}

	result, err := s.comments.Handler.PostCommentHandler(r.Context(), req)
	if err != nil {
		writeCommentDomainError(w, err)
		return
	}

	// Rejected comments are persisted for moderator review, but the caller
	// still receives the rejection reason.
	if !result.Accepted {
		writeJSON(w, http.StatusBadRequest, commenthttp.PostCommentResponse{
			Msg:    "Comentario rechazado",
			Reason: result.Reason,
		})
		return
	}
	writeJSON(w, http.StatusCreated, commenthttp.PostCommentResponse{
		Msg: "Comentario registrado correctamente",
	})
}

func writeCommentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, commenterrors.ErrInvalidCommentInput):
		writeCommentError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, commenterrors.ErrCommenterNotAllowed),
		errors.Is(err, commenterrors.ErrCommentsNotAllowed):
		writeCommentError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, commenterrors.ErrProposalNotFound):
		writeCommentError(w, http.StatusNotFound, err.Error())
	default:
		writeCommentError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeCommentError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, commenthttp.ErrorResponse{Error: message})
}
