package ports

import (
	"context"
	"time"

	"civica/contexts/finance-core/investment-service/domain/entities"
)

// CredentialVerifier authenticates an investor by identification and
// passphrase, resolving the internal user id on success.
type CredentialVerifier interface {
	VerifyInvestor(ctx context.Context, identification string, password string) (userID int64, ok bool, err error)
}

// ProjectCatalog reports which investable projects exist.
type ProjectCatalog interface {
	ProjectExists(ctx context.Context, projectID int64) (bool, error)
}

// InvestmentRepository persists settled investments and runs dividend
// distribution passes over them.
type InvestmentRepository interface {
	SaveInvestment(ctx context.Context, investment entities.Investment) (entities.Investment, error)
	DistributeDividends(ctx context.Context, executedAt time.Time) (entities.DividendRound, error)
}

type AuditLog interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

type Clock interface {
	Now() time.Time
}

type TokenGenerator interface {
	NewToken(ctx context.Context) (string, error)
}
