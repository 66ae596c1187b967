package httpserver

import (
	"errors"
	"net/http"

	configerrors "civica/contexts/civic-participation/votation-config/domain/errors"
	confighttp "civica/contexts/civic-participation/votation-config/transport/http"
)

// handleConfigureVotation godoc
//
//	@Summary	Create a votation for a proposal and bind its questions
//	@Tags		votation-config
//	@Accept		json
//	@Produce	json
//	@Param		request	body		confighttp.ConfigureVotationRequest	true	"votation configuration"
//	@Success	201		{object}	confighttp.ConfigureVotationResponse
//	@Failure	400		{object}	confighttp.ErrorResponse
//	@Failure	403		{object}	confighttp.ErrorResponse
//	@Failure	404		{object}	confighttp.ErrorResponse
//	@Router		/api/configurarVotacion [post]
func (s *Server) handleConfigureVotation(w http.ResponseWriter, r *http.Request) {
	var req confighttp.ConfigureVotationRequest
	if !s.decodeAndValidate(w, r, &req, writeVotationConfigError) {
		return
	}

	resp, err := s.votations.Handler.ConfigureVotationHandler(r.Context(), req)
	if err != nil {
		writeVotationConfigDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writeVotationConfigDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, configerrors.ErrInvalidConfigInput):
		writeVotationConfigError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, configerrors.ErrNotProposalOwner):
		writeVotationConfigError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, configerrors.ErrUnknownQuestion):
		writeVotationConfigError(w, http.StatusNotFound, err.Error())
	default:
		writeVotationConfigError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeVotationConfigError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, confighttp.ErrorResponse{Error: message})
}
