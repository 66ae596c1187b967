package httpserver

import (
	"errors"
	"net/http"

	investmenterrors "civica/contexts/finance-core/investment-service/domain/errors"
	investmenthttp "civica/contexts/finance-core/investment-service/transport/http"
)

// handleInvest godoc
//
//	@Summary	Register an investment in a project
//	@Tags		investments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		investmenthttp.InvestRequest	true	"investment payload"
//	@Success	201		{object}	investmenthttp.InvestResponse
//	@Failure	400		{object}	investmenthttp.ErrorResponse
//	@Failure	401		{object}	investmenthttp.ErrorResponse
//	@Failure	404		{object}	investmenthttp.ErrorResponse
//	@Router		/api/invertir [post]
func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req investmenthttp.InvestRequest
	if !s.decodeAndValidate(w, r, &req, writeInvestmentError) {
		return
	}

	resp, err := s.investments.Handler.InvestHandler(r.Context(), req)
	if err != nil {
		writeInvestmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleDistributeDividends godoc
//
//	@Summary	Distribute the pending dividend round across investors
//	@Tags		investments
//	@Produce	json
//	@Success	200	{object}	investmenthttp.DistributeDividendsResponse
//	@Failure	500	{object}	investmenthttp.ErrorResponse
//	@Router		/api/repartirDividendos [post]
func (s *Server) handleDistributeDividends(w http.ResponseWriter, r *http.Request) {
	resp, err := s.investments.Handler.DistributeDividendsHandler(r.Context())
	if err != nil {
		writeInvestmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeInvestmentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, investmenterrors.ErrInvalidInvestmentInput):
		writeInvestmentError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, investmenterrors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, investmenthttp.ErrorResponse{
			Error:  err.Error(),
			Codigo: "AUTH_FAILED",
		})
	case errors.Is(err, investmenterrors.ErrProjectNotFound):
		writeInvestmentError(w, http.StatusNotFound, err.Error())
	default:
		writeInvestmentError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeInvestmentError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, investmenthttp.ErrorResponse{Error: message})
}
