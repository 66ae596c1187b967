// Package votationconfig lets proposal owners attach a ballot window,
// target segments and a question set to their proposal.
package votationconfig

import (
	"log/slog"

	httpadapter "civica/contexts/civic-participation/votation-config/adapters/http"
	"civica/contexts/civic-participation/votation-config/adapters/memory"
	"civica/contexts/civic-participation/votation-config/application/commands"
	"civica/contexts/civic-participation/votation-config/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals ports.ProposalOwnership
	Questions ports.QuestionCatalog
	Writer    ports.VotationWriter
	Audit     ports.AuditLog
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	configureUseCase := commands.ConfigureVotationUseCase{
		Proposals: deps.Proposals,
		Questions: deps.Questions,
		Writer:    deps.Writer,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Configs: configureUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals: store,
		Questions: store,
		Writer:    store,
		Audit:     store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
