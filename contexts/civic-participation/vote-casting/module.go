package votecasting

import (
	"log/slog"

	httpadapter "civica/contexts/civic-participation/vote-casting/adapters/http"
	"civica/contexts/civic-participation/vote-casting/adapters/memory"
	"civica/contexts/civic-participation/vote-casting/application"
	"civica/contexts/civic-participation/vote-casting/application/commands"
	"civica/contexts/civic-participation/vote-casting/application/queries"
	"civica/contexts/civic-participation/vote-casting/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Voters   ports.VoterDirectory
	Catalog  ports.BallotCatalog
	Votes    ports.VoteRepository
	Liveness ports.LivenessRecorder
	Audit    ports.AuditLog
	Cipher   ports.KeyCipher
	Clock    ports.Clock
	Tokens   ports.TokenGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	authenticator := application.Authenticator{
		Voters:   deps.Voters,
		Cipher:   deps.Cipher,
		Liveness: deps.Liveness,
		Audit:    deps.Audit,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	castVoteUseCase := commands.CastVoteUseCase{
		Auth:    authenticator,
		Catalog: deps.Catalog,
		Votes:   deps.Votes,
		Audit:   deps.Audit,
		Cipher:  deps.Cipher,
		Clock:   deps.Clock,
		Tokens:  deps.Tokens,
		Logger:  deps.Logger,
	}
	listVotesUseCase := queries.ListVotesUseCase{
		Auth:   authenticator,
		Votes:  deps.Votes,
		Audit:  deps.Audit,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:    castVoteUseCase,
			Listings: listVotesUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(cipher ports.KeyCipher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Voters:   store,
		Catalog:  store,
		Votes:    store,
		Liveness: store,
		Audit:    store,
		Cipher:   cipher,
		Clock:    store,
		Tokens:   store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
