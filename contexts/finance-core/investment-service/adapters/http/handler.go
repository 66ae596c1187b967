package httpadapter

import (
	"context"
	"log/slog"

	"civica/contexts/finance-core/investment-service/application/commands"
	transport "civica/contexts/finance-core/investment-service/transport/http"
)

// Handler exposes the investment operations to the HTTP server. It maps
// transport payloads to commands and keeps no business rules of its own.
type Handler struct {
	Investments commands.InvestUseCase
	Dividends   commands.DistributeDividendsUseCase
	Logger      *slog.Logger
}

func (h Handler) InvestHandler(ctx context.Context, req transport.InvestRequest) (transport.InvestResponse, error) {
	result, err := h.Investments.Invest(ctx, commands.InvestCommand{
		ProjectID:      req.ProjectID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Identification: req.Identification,
		Password:       req.Password,
		OrganizationID: req.OrganizationID,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return transport.InvestResponse{}, err
	}
	return transport.InvestResponse{
		Msg:                 "Inversión registrada exitosamente",
		TransactionID:       result.Investment.TransactionID,
		Reference:           result.Investment.Reference,
		AmountInvested:      result.Investment.Amount,
		AuthorizationNumber: result.Investment.AuthorizationNumber,
	}, nil
}

func (h Handler) DistributeDividendsHandler(ctx context.Context) (transport.DistributeDividendsResponse, error) {
	result, err := h.Dividends.DistributeDividends(ctx)
	if err != nil {
		return transport.DistributeDividendsResponse{}, err
	}
	return transport.DistributeDividendsResponse{
		Msg:              "Dividendos repartidos exitosamente",
		InvestorCount:    result.Round.InvestorCount,
		TotalDistributed: result.Round.TotalDistributed,
	}, nil
}
