// Package commentservice moderates and stores proposal comments. Bodies
// that mention sensitive documents are encrypted at rest and queued for
// asynchronous analysis.
package commentservice

import (
	"log/slog"

	httpadapter "civica/contexts/civic-participation/comment-service/adapters/http"
	"civica/contexts/civic-participation/comment-service/adapters/memory"
	"civica/contexts/civic-participation/comment-service/application/commands"
	"civica/contexts/civic-participation/comment-service/application/workers"
	"civica/contexts/civic-participation/comment-service/ports"
)

type Module struct {
	Handler        httpadapter.Handler
	AnalysisWorker workers.AnalysisWorker
	Store          *memory.Store
}

type Dependencies struct {
	Commenters ports.CommenterDirectory
	Proposals  ports.ProposalGate
	Comments   ports.CommentRepository
	Documents  ports.DocumentStore
	Jobs       ports.AnalysisJobs
	Cipher     ports.BodyCipher
	Audit      ports.AuditLog
	Clock      ports.Clock
	Publisher  ports.EventPublisher
	IDGen      ports.IDGenerator
	Passphrase string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	postUseCase := commands.PostCommentUseCase{
		Commenters: deps.Commenters,
		Proposals:  deps.Proposals,
		Comments:   deps.Comments,
		Documents:  deps.Documents,
		Jobs:       deps.Jobs,
		Cipher:     deps.Cipher,
		Audit:      deps.Audit,
		Clock:      deps.Clock,
		Passphrase: deps.Passphrase,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Comments: postUseCase,
			Logger:   deps.Logger,
		},
		AnalysisWorker: workers.AnalysisWorker{
			Jobs:      deps.Jobs,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			IDGen:     deps.IDGen,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(cipher ports.BodyCipher, passphrase string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Commenters: store,
		Proposals:  store,
		Comments:   store,
		Documents:  store,
		Jobs:       store,
		Cipher:     cipher,
		Audit:      store,
		Clock:      store,
		Publisher:  store,
		IDGen:      store,
		Passphrase: passphrase,
		Logger:     logger,
	})
	module.Store = store
	return module
}
