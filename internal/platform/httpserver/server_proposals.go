package httpserver

import (
	"errors"
	"net/http"

	proposalerrors "civica/contexts/proposal-lifecycle/proposal-service/domain/errors"
	proposalhttp "civica/contexts/proposal-lifecycle/proposal-service/transport/http"
)

// handleUpsertProposal godoc
//
//	@Summary	Create a proposal or publish a new version of an existing one
//	@Tags		proposals
//	@Accept		json
//	@Produce	json
//	@Param		request	body		proposalhttp.UpsertProposalRequest	true	"proposal payload"
//	@Success	201		{object}	proposalhttp.UpsertProposalResponse
//	@Failure	400		{object}	proposalhttp.ErrorResponse
//	@Failure	403		{object}	proposalhttp.ErrorResponse
//	@Failure	404		{object}	proposalhttp.ErrorResponse
//	@Router		/api/propuestas [post]
func (s *Server) handleUpsertProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalhttp.UpsertProposalRequest
	if !s.decodeAndValidate(w, r, &req, writeProposalError) {
		return
	}

	resp, err := s.proposals.Handler.UpsertProposalHandler(r.Context(), req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleReviewProposal godoc
//
//	@Summary	Record a review verdict for a proposal
//	@Tags		proposals
//	@Accept		json
//	@Produce	json
//	@Param		request	body		proposalhttp.ReviewProposalRequest	true	"review verdict"
//	@Success	200		{object}	proposalhttp.ReviewProposalResponse
//	@Failure	400		{object}	proposalhttp.ErrorResponse
//	@Failure	404		{object}	proposalhttp.ErrorResponse
//	@Router		/api/revisarPropuesta [post]
func (s *Server) handleReviewProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalhttp.ReviewProposalRequest
	if !s.decodeAndValidate(w, r, &req, writeProposalError) {
		return
	}

	resp, err := s.proposals.Handler.ReviewProposalHandler(r.Context(), req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeProposalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, proposalerrors.ErrInvalidProposalInput),
		errors.Is(err, proposalerrors.ErrInvalidReviewOutcome):
		writeProposalError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, proposalerrors.ErrNotProponent):
		writeProposalError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, proposalerrors.ErrProposalNotFound):
		writeProposalError(w, http.StatusNotFound, err.Error())
	default:
		writeProposalError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeProposalError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, proposalhttp.ErrorResponse{Error: message})
}
