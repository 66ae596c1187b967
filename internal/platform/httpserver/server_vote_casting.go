package httpserver

import (
	"errors"
	"net/http"

	votingerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	votinghttp "civica/contexts/civic-participation/vote-casting/transport/http"
)

// handleCastVote godoc
//
//	@Summary	Cast a vote on a votation question
//	@Tags		vote-casting
//	@Accept		json
//	@Produce	json
//	@Param		request	body		votinghttp.CastVoteRequest	true	"vote payload"
//	@Success	200		{object}	votinghttp.CastVoteResponse
//	@Failure	400		{object}	votinghttp.ErrorResponse
//	@Failure	401		{object}	votinghttp.ErrorResponse
//	@Failure	403		{object}	votinghttp.ErrorResponse
//	@Failure	409		{object}	votinghttp.ErrorResponse
//	@Failure	500		{object}	votinghttp.ErrorResponse
//	@Router		/api/votar [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.CastVoteRequest
	if !s.decodeAndValidate(w, r, &req, writeVotingError) {
		return
	}

	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListVotes godoc
//
//	@Summary	List the authenticated voter's cast ballots
//	@Tags		vote-casting
//	@Accept		json
//	@Produce	json
//	@Param		request	body		votinghttp.ListVotesRequest	true	"voter credentials"
//	@Success	200		{object}	votinghttp.ListVotesResponse
//	@Failure	401		{object}	votinghttp.ErrorResponse
//	@Router		/api/listarVotos [post]
func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.ListVotesRequest
	if !s.decodeAndValidate(w, r, &req, writeVotingError) {
		return
	}

	resp, err := s.voting.Handler.ListVotesHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, votingerrors.ErrVoterNotFound):
		// Same body as a failed passphrase so callers cannot enumerate
		// which identifications exist.
		writeVotingError(w, http.StatusUnauthorized, votingerrors.ErrInvalidCredentials.Error())
	case errors.Is(err, votingerrors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, votinghttp.ErrorResponse{
			Error:  votingerrors.ErrInvalidCredentials.Error(),
			Codigo: "AUTH_FAILED",
		})
	case errors.Is(err, votingerrors.ErrVotationClosed):
		writeVotingError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, votingerrors.ErrQuestionNotFound):
		writeVotingError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyVoted):
		writeVotingError(w, http.StatusConflict, err.Error())
	default:
		// ErrNoActiveKey is a key-issuance fault on our side, not a caller
		// error; it lands here with the rest of the opaque failures.
		writeVotingError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Error: message})
}
