package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	commentservice "civica/contexts/civic-participation/comment-service"
	votationconfig "civica/contexts/civic-participation/votation-config"
	votecasting "civica/contexts/civic-participation/vote-casting"
	investmentservice "civica/contexts/finance-core/investment-service"
	proposalservice "civica/contexts/proposal-lifecycle/proposal-service"

	_ "civica/internal/platform/httpserver/docs"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	validate    *validator.Validate
	voting      votecasting.Module
	votations   votationconfig.Module
	comments    commentservice.Module
	proposals   proposalservice.Module
	investments investmentservice.Module
}

func New(
	voting votecasting.Module,
	votations votationconfig.Module,
	comments commentservice.Module,
	proposals proposalservice.Module,
	investments investmentservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report failures under the wire field names, not the Go ones.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		validate:    validate,
		voting:      voting,
		votations:   votations,
		comments:    comments,
		proposals:   proposals,
		investments: investments,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for integration tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /status", s.handleStatus)

	s.mux.HandleFunc("POST /api/votar", s.handleCastVote)
	s.mux.HandleFunc("POST /api/listarVotos", s.handleListVotes)
	s.mux.HandleFunc("POST /api/configurarVotacion", s.handleConfigureVotation)
	s.mux.HandleFunc("POST /api/comentar", s.handlePostComment)
	s.mux.HandleFunc("POST /api/propuestas", s.handleUpsertProposal)
	s.mux.HandleFunc("POST /api/revisarPropuesta", s.handleReviewProposal)
	s.mux.HandleFunc("POST /api/invertir", s.handleInvest)
	s.mux.HandleFunc("POST /api/repartirDividendos", s.handleDistributeDividends)
}

// handleStatus godoc
//
//	@Summary	Service liveness probe
//	@Tags		platform
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/status [get]
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
// It reports the failure to the client and returns false when the payload is
// unusable.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any, writeErr func(http.ResponseWriter, int, string)) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "request body must be valid JSON")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeErr(w, http.StatusBadRequest, validationDetail(err))
		return false
	}
	return true
}

// validationDetail flattens validator failures into one message naming each
// offending wire field and the rule it broke.
func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "request payload failed validation"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		detail := fmt.Sprintf("field '%s' failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag())
		if param := fieldErr.Param(); param != "" {
			detail = fmt.Sprintf("%s (param: %s)", detail, param)
		}
		parts = append(parts, detail)
	}
	return strings.Join(parts, "; ")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
