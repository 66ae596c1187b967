package investmentservice

import (
	"log/slog"

	httpadapter "civica/contexts/finance-core/investment-service/adapters/http"
	"civica/contexts/finance-core/investment-service/adapters/memory"
	"civica/contexts/finance-core/investment-service/application/commands"
	"civica/contexts/finance-core/investment-service/ports"
)

// Module bundles the investment use cases behind the HTTP handler.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Credentials ports.CredentialVerifier
	Projects    ports.ProjectCatalog
	Investments ports.InvestmentRepository
	Audit       ports.AuditLog
	Clock       ports.Clock
	Tokens      ports.TokenGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	invest := commands.InvestUseCase{
		Credentials: deps.Credentials,
		Projects:    deps.Projects,
		Investments: deps.Investments,
		Audit:       deps.Audit,
		Clock:       deps.Clock,
		Tokens:      deps.Tokens,
		Logger:      deps.Logger,
	}
	dividends := commands.DistributeDividendsUseCase{
		Investments: deps.Investments,
		Audit:       deps.Audit,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Investments: invest,
			Dividends:   dividends,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store. Used by
// tests and local runs without a database.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Credentials: store,
		Projects:    store,
		Investments: store,
		Audit:       store,
		Clock:       store,
		Tokens:      store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
