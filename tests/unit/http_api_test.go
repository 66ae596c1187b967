package unit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commentservice "civica/contexts/civic-participation/comment-service"
	votationconfig "civica/contexts/civic-participation/votation-config"
	votecasting "civica/contexts/civic-participation/vote-casting"
	votingentities "civica/contexts/civic-participation/vote-casting/domain/entities"
	investmentservice "civica/contexts/finance-core/investment-service"
	proposalservice "civica/contexts/proposal-lifecycle/proposal-service"
	"civica/internal/platform/httpserver"
	"civica/internal/platform/passcrypt"
)

const (
	apiVoterIdentification = "100000001"
	apiVoterPassphrase     = "CLAVE0001"
)

type testEnv struct {
	server      *httpserver.Server
	voting      votecasting.Module
	votations   votationconfig.Module
	comments    commentservice.Module
	proposals   proposalservice.Module
	investments investmentservice.Module
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	cipher := passcrypt.New()

	voting := votecasting.NewInMemoryModule(cipher, nil)
	votations := votationconfig.NewInMemoryModule(nil)
	comments := commentservice.NewInMemoryModule(cipher, "clave-archivo", nil)
	proposals := proposalservice.NewInMemoryModule(nil)
	investments := investmentservice.NewInMemoryModule(nil)

	voting.Store.SetVoter(votingentities.Voter{
		UserID:         7,
		Identification: apiVoterIdentification,
		Name:           "Ana",
		FirstSurname:   "Mora",
		SecondSurname:  "Solis",
	})
	// The issued key plaintext is the voter's numeric id rendered as text.
	blob, err := cipher.Encrypt(apiVoterPassphrase, []byte("7"))
	if err != nil {
		t.Fatalf("encrypt voter key: %v", err)
	}
	voting.Store.SetVoterKey(votingentities.VoterKey{
		KeyID:        1,
		UserID:       7,
		EncryptedKey: blob,
		Active:       true,
		LastModified: time.Now().UTC(),
	})
	now := time.Now().UTC()
	voting.Store.SetVotation(votingentities.Votation{
		VotationID: 3,
		Title:      "Plan de movilidad urbana",
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
		StatusID:   1,
		Questions: []votingentities.Question{
			{
				QuestionID: 11,
				Prompt:     "¿Aprueba el plan?",
				Answers: []votingentities.Answer{
					{AnswerID: 21, QuestionID: 11, Label: "Sí"},
					{AnswerID: 22, QuestionID: 11, Label: "No"},
				},
			},
		},
	})

	votations.Store.SetProposalOwner(40, 7)
	votations.Store.SetQuestion(11)

	comments.Store.SetCommenter(42)
	comments.Store.SetProposal(40, true)

	investments.Store.SetInvestor(apiVoterIdentification, apiVoterPassphrase, 7)
	investments.Store.SetProject(15)

	server := httpserver.New(voting, votations, comments, proposals, investments, nil, ":0")
	return testEnv{
		server:      server,
		voting:      voting,
		votations:   votations,
		comments:    comments,
		proposals:   proposals,
		investments: investments,
	}
}

func (env testEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected status body %v", body)
	}
}

func TestCastVoteEndpointLifecycle(t *testing.T) {
	env := newTestEnv(t)

	vote := map[string]any{
		"preguntaID":    11,
		"respuestaID":   21,
		"valor":         "Sí",
		"pesoRespuesta": 1,
		"cedulaUsuario": apiVoterIdentification,
		"contrasenia":   apiVoterPassphrase,
		"prueba_vida":   "selfie-frame-base64",
	}

	rec := env.postJSON(t, "/api/votar", vote)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first vote, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = env.postJSON(t, "/api/votar", vote)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate vote, got %d", rec.Code)
	}

	vote["contrasenia"] = "clave-incorrecta"
	vote["respuestaID"] = 22
	rec = env.postJSON(t, "/api/votar", vote)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on wrong passphrase, got %d", rec.Code)
	}
	var errBody map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody["codigo"] != "AUTH_FAILED" {
		t.Fatalf("expected codigo AUTH_FAILED, got %q", errBody["codigo"])
	}
}

func TestCastVoteEndpointValidatesPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/votar", map[string]any{
		"preguntaID": 11,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on incomplete payload, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode validation body: %v", err)
	}
	if !strings.Contains(body["error"], "cedulaUsuario") || !strings.Contains(body["error"], "required") {
		t.Fatalf("expected per-field validation detail, got %q", body["error"])
	}
}

func TestCastVoteEndpointCredentialErrorsShareOneBody(t *testing.T) {
	env := newTestEnv(t)

	vote := map[string]any{
		"preguntaID":    11,
		"respuestaID":   21,
		"valor":         "Sí",
		"pesoRespuesta": 1,
		"cedulaUsuario": "999999999",
		"contrasenia":   apiVoterPassphrase,
		"prueba_vida":   "selfie-frame-base64",
	}

	rec := env.postJSON(t, "/api/votar", vote)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown identification, got %d", rec.Code)
	}
	var unknownBody map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &unknownBody); err != nil {
		t.Fatalf("decode unknown-identification body: %v", err)
	}

	vote["cedulaUsuario"] = apiVoterIdentification
	vote["contrasenia"] = "clave-incorrecta"
	rec = env.postJSON(t, "/api/votar", vote)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong passphrase, got %d", rec.Code)
	}
	var badPassBody map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &badPassBody); err != nil {
		t.Fatalf("decode wrong-passphrase body: %v", err)
	}

	if unknownBody["error"] != badPassBody["error"] {
		t.Fatalf("credential failures must share one message, got %q vs %q",
			unknownBody["error"], badPassBody["error"])
	}
	if unknownBody["codigo"] != "" {
		t.Fatalf("unknown identification must not carry codigo, got %q", unknownBody["codigo"])
	}
	if badPassBody["codigo"] != "AUTH_FAILED" {
		t.Fatalf("expected codigo AUTH_FAILED on wrong passphrase, got %q", badPassBody["codigo"])
	}
}

func TestCastVoteEndpointMissingKeyIsOpaque(t *testing.T) {
	env := newTestEnv(t)
	env.voting.Store.SetVoter(votingentities.Voter{
		UserID:         8,
		Identification: "100000002",
		Name:           "Luis",
		FirstSurname:   "Rojas",
		SecondSurname:  "Campos",
	})

	rec := env.postJSON(t, "/api/votar", map[string]any{
		"preguntaID":    11,
		"respuestaID":   21,
		"valor":         "Sí",
		"pesoRespuesta": 1,
		"cedulaUsuario": "100000002",
		"contrasenia":   "CLAVE0002",
		"prueba_vida":   "selfie-frame-base64",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for voter without issued key, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode opaque error body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("expected opaque body, got %q", body["error"])
	}
}

func TestListVotesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/votar", map[string]any{
		"preguntaID":    11,
		"respuestaID":   21,
		"valor":         "Sí",
		"pesoRespuesta": 1,
		"cedulaUsuario": apiVoterIdentification,
		"contrasenia":   apiVoterPassphrase,
		"prueba_vida":   "selfie-frame-base64",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on vote, got %d", rec.Code)
	}

	rec = env.postJSON(t, "/api/listarVotos", map[string]any{
		"cedula":      apiVoterIdentification,
		"contrasenna": apiVoterPassphrase,
		"prueba_vida": "selfie-frame-base64",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on listing, got %d (%s)", rec.Code, rec.Body.String())
	}
	var listing struct {
		UserID int64 `json:"user_id"`
		Votes  []struct {
			QuestionID int64  `json:"preguntaID"`
			AnswerText string `json:"respuesta"`
		} `json:"respuestas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.UserID != 7 {
		t.Fatalf("expected user 7, got %d", listing.UserID)
	}
	if len(listing.Votes) != 1 || listing.Votes[0].QuestionID != 11 {
		t.Fatalf("unexpected ballots %+v", listing.Votes)
	}
}

func TestConfigureVotationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	payload := map[string]any{
		"usuarioID":      7,
		"propuestaID":    40,
		"tipoVotacionId": 1,
		"titulo":         "Consulta distrital",
		"descripcion":    "Primera ronda",
		"fechaInicio":    now.Add(time.Hour).Format(time.RFC3339),
		"fechaFin":       now.Add(48 * time.Hour).Format(time.RFC3339),
		"privada":        false,
		"esSecreta":      true,
		"preguntas":      []map[string]any{{"preguntaID": 11}},
	}
	rec := env.postJSON(t, "/api/configurarVotacion", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(env.votations.Store.Votations()) != 1 {
		t.Fatalf("expected one configured votation")
	}

	payload["usuarioID"] = 99
	rec = env.postJSON(t, "/api/configurarVotacion", payload)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}
}

func TestCommentEndpointModeration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/comentar", map[string]any{
		"titulo":      "Observación",
		"cuerpo":      "El presupuesto del plan debería revisarse en audiencia pública.",
		"usuarioId":   42,
		"propuestaId": 40,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on accepted comment, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = env.postJSON(t, "/api/comentar", map[string]any{
		"titulo":      "Corto",
		"cuerpo":      "no",
		"usuarioId":   42,
		"propuestaId": 40,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on rejected comment, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode rejection body: %v", err)
	}
	if body["msg"] != "Comentario rechazado" {
		t.Fatalf("unexpected rejection message %q", body["msg"])
	}

	// Persisted either way: accepted and rejected comments both land in the
	// detail table.
	if got := len(env.comments.Store.Details()); got != 2 {
		t.Fatalf("expected 2 stored comment details, got %d", got)
	}
}

func TestInvestEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/invertir", map[string]any{
		"proyecto":    15,
		"monto":       1200.50,
		"moneda":      "CRC",
		"cedula":      apiVoterIdentification,
		"contrasenna": apiVoterPassphrase,
		"metodoPago":  "SINPE",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on investment, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = env.postJSON(t, "/api/repartirDividendos", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on dividend distribution, got %d", rec.Code)
	}
	var dividends map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &dividends); err != nil {
		t.Fatalf("decode dividends body: %v", err)
	}
	if dividends["mensaje"] != "Dividendos repartidos exitosamente" {
		t.Fatalf("unexpected dividends message %v", dividends["mensaje"])
	}
}
