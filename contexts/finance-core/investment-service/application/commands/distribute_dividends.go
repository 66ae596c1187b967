package commands

import (
	"context"
	"fmt"
	"log/slog"

	"civica/contexts/finance-core/investment-service/application"
	"civica/contexts/finance-core/investment-service/domain/entities"
	domainerrors "civica/contexts/finance-core/investment-service/domain/errors"
	"civica/contexts/finance-core/investment-service/ports"
)

type DistributeDividendsResult struct {
	Round entities.DividendRound
}

type DistributeDividendsUseCase struct {
	Investments ports.InvestmentRepository
	Audit       ports.AuditLog
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc DistributeDividendsUseCase) DistributeDividends(ctx context.Context) (DistributeDividendsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	round, err := uc.Investments.DistributeDividends(ctx, now)
	if err != nil {
		logger.Error("dividend distribution failed",
			"event", "dividend_distribution_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"error", err.Error(),
		)
		return DistributeDividendsResult{}, domainerrors.ErrInternal
	}

	if err := uc.Audit.Append(ctx, entities.AuditEntry{
		Description: "Dividendos repartidos",
		Timestamp:   now,
		Computer:    "repartirDividendos/endpoint",
		User:        "sistema",
		Trace:       fmt.Sprintf("RondaID=%d;Inversionistas=%d", round.RoundID, round.InvestorCount),
		RefID1:      &round.RoundID,
		Value1:      fmt.Sprintf("%.2f", round.TotalDistributed),
		Checksum:    investChecksum("Dividendos repartidos", "sistema", now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	}); err != nil {
		logger.Error("audit append failed",
			"event", "dividend_audit_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"error", err.Error(),
		)
	}

	logger.Info("dividend round completed",
		"event", "dividend_round_completed",
		"module", "finance-core/investment-service",
		"layer", "application",
		"round_id", round.RoundID,
		"investor_count", round.InvestorCount,
		"total_distributed", round.TotalDistributed,
	)
	return DistributeDividendsResult{Round: round}, nil
}
