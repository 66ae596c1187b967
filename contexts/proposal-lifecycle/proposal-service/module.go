// Package proposalservice owns the proposal lifecycle: creation, versioned
// updates by the proponent, and reviewer decisions.
package proposalservice

import (
	"log/slog"

	httpadapter "civica/contexts/proposal-lifecycle/proposal-service/adapters/http"
	"civica/contexts/proposal-lifecycle/proposal-service/adapters/memory"
	"civica/contexts/proposal-lifecycle/proposal-service/application/commands"
	"civica/contexts/proposal-lifecycle/proposal-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals ports.ProposalRepository
	Reviews   ports.ReviewRepository
	Audit     ports.AuditLog
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	upsertUseCase := commands.UpsertProposalUseCase{
		Proposals: deps.Proposals,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	reviewUseCase := commands.ReviewProposalUseCase{
		Proposals: deps.Proposals,
		Reviews:   deps.Reviews,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Upserts: upsertUseCase,
			Reviews: reviewUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals: store,
		Reviews:   store,
		Audit:     store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
