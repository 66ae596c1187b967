package votecasting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	votecasting "civica/contexts/civic-participation/vote-casting"
	"civica/contexts/civic-participation/vote-casting/domain/entities"
	domainerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	httptransport "civica/contexts/civic-participation/vote-casting/transport/http"
	"civica/internal/platform/passcrypt"
)

const (
	testIdentification = "100000000"
	testPassphrase     = "JUGAHE0000"
)

func newSeededModule(t *testing.T, startsAt, endsAt time.Time) votecasting.Module {
	t.Helper()

	cipher := passcrypt.Cipher{}
	module := votecasting.NewInMemoryModule(cipher, nil)

	module.Store.SetVoter(entities.Voter{
		UserID:         7,
		Identification: testIdentification,
		Name:           "Jugo",
		FirstSurname:   "Hernandez",
		SecondSurname:  "Gomez",
	})

	// Issued keys carry the voter's numeric id rendered as text.
	encryptedKey, err := cipher.Encrypt(testPassphrase, []byte("7"))
	if err != nil {
		t.Fatalf("seed key encryption failed: %v", err)
	}
	module.Store.SetVoterKey(entities.VoterKey{
		KeyID:        1,
		UserID:       7,
		EncryptedKey: encryptedKey,
		Active:       true,
		Deleted:      false,
		LastModified: time.Now().UTC(),
	})

	module.Store.SetVotation(entities.Votation{
		VotationID:  3,
		TypeID:      1,
		Title:       "Plan de movilidad urbana",
		Description: "Consulta sobre transporte",
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		StatusID:    4,
		Questions: []entities.Question{
			{
				QuestionID: 1,
				Prompt:     "¿Cuál debería ser la prioridad del cantón?",
				Answers: []entities.Answer{
					{AnswerID: 1, QuestionID: 1, Label: "Mejorar el transporte público", Value: "transporte"},
					{AnswerID: 2, QuestionID: 1, Label: "Ampliar zonas verdes", Value: "zonas-verdes"},
				},
			},
		},
	})
	return module
}

func openVotationModule(t *testing.T) votecasting.Module {
	t.Helper()
	now := time.Now().UTC()
	return newSeededModule(t, now.Add(-time.Hour), now.Add(time.Hour))
}

func castVoteRequest() httptransport.CastVoteRequest {
	return httptransport.CastVoteRequest{
		QuestionID:     1,
		AnswerID:       1,
		Value:          "Mejorar el transporte público",
		WeightID:       2,
		Identification: testIdentification,
		Password:       testPassphrase,
		LivenessProof:  "Prueba de Vida",
	}
}

func auditCount(module votecasting.Module, description string) int {
	count := 0
	for _, entry := range module.Store.AuditEntries() {
		if entry.Description == description {
			count++
		}
	}
	return count
}

func TestCastVoteThenDuplicateRejected(t *testing.T) {
	module := openVotationModule(t)

	resp, err := module.Handler.CastVoteHandler(context.Background(), castVoteRequest())
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if resp.Msg != "Voto registrado" {
		t.Fatalf("unexpected response message: %q", resp.Msg)
	}
	if got := auditCount(module, "Voto registrado"); got != 1 {
		t.Fatalf("expected one success audit entry, got %d", got)
	}

	_, err = module.Handler.CastVoteHandler(context.Background(), castVoteRequest())
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on repeat, got %v", err)
	}
	if got := auditCount(module, "Voto rechazado: pregunta ya contestada"); got != 1 {
		t.Fatalf("expected one duplicate audit entry, got %d", got)
	}

	// Both attempts authenticated, so both must leave a liveness proof.
	if got := len(module.Store.LivenessProofs()); got != 2 {
		t.Fatalf("expected two liveness proofs, got %d", got)
	}
}

func TestCastVoteStoresSingleRecordPerQuestion(t *testing.T) {
	module := openVotationModule(t)

	if _, err := module.Handler.CastVoteHandler(context.Background(), castVoteRequest()); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := module.Handler.CastVoteHandler(context.Background(), castVoteRequest()); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
			t.Fatalf("expected ErrAlreadyVoted, got %v", err)
		}
	}

	listing, err := module.Handler.ListVotesHandler(context.Background(), httptransport.ListVotesRequest{
		Identification: testIdentification,
		Password:       testPassphrase,
		LivenessProof:  "Prueba de Vida",
	})
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if len(listing.Votes) != 1 {
		t.Fatalf("expected a single stored vote, got %d", len(listing.Votes))
	}
}

func TestCastVoteUnknownIdentity(t *testing.T) {
	module := openVotationModule(t)

	req := castVoteRequest()
	req.Identification = "999999999"
	_, err := module.Handler.CastVoteHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
	if got := auditCount(module, "Usuario no encontrado en autenticación"); got != 1 {
		t.Fatalf("expected one lookup-failure audit entry, got %d", got)
	}
	if got := len(module.Store.LivenessProofs()); got != 0 {
		t.Fatalf("expected no liveness proof without authentication, got %d", got)
	}
}

func TestCastVoteWrongPassphrase(t *testing.T) {
	module := openVotationModule(t)

	req := castVoteRequest()
	req.Password = "CONTRA0000"
	_, err := module.Handler.CastVoteHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := auditCount(module, "Fallo de descifrado de llave"); got != 1 {
		t.Fatalf("expected one decrypt-failure audit entry, got %d", got)
	}
	if got := len(module.Store.LivenessProofs()); got != 0 {
		t.Fatalf("expected no liveness proof for failed credentials, got %d", got)
	}
}

func TestCastVoteClosedVotation(t *testing.T) {
	now := time.Now().UTC()
	module := newSeededModule(t, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	_, err := module.Handler.CastVoteHandler(context.Background(), castVoteRequest())
	if !errors.Is(err, domainerrors.ErrVotationClosed) {
		t.Fatalf("expected ErrVotationClosed, got %v", err)
	}
	if got := auditCount(module, "Voto rechazado: votación fuera de ventana"); got != 1 {
		t.Fatalf("expected one window-rejection audit entry, got %d", got)
	}

	listing, err := module.Handler.ListVotesHandler(context.Background(), httptransport.ListVotesRequest{
		Identification: testIdentification,
		Password:       testPassphrase,
		LivenessProof:  "Prueba de Vida",
	})
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if len(listing.Votes) != 0 {
		t.Fatalf("expected no votes after closed-window rejection, got %d", len(listing.Votes))
	}
}

func TestCastVoteUnknownQuestion(t *testing.T) {
	module := openVotationModule(t)

	req := castVoteRequest()
	req.QuestionID = 42
	_, err := module.Handler.CastVoteHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestCastVoteAnswerOutsideQuestion(t *testing.T) {
	module := openVotationModule(t)

	req := castVoteRequest()
	req.AnswerID = 99
	_, err := module.Handler.CastVoteHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("expected ErrInvalidVoteInput, got %v", err)
	}
}

func TestCastVoteRejectsOversizedValue(t *testing.T) {
	module := openVotationModule(t)

	req := castVoteRequest()
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	req.Value = string(long)
	_, err := module.Handler.CastVoteHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("expected ErrInvalidVoteInput for oversized value, got %v", err)
	}
}

func TestListVotesReturnsVoterAndBallots(t *testing.T) {
	module := openVotationModule(t)

	if _, err := module.Handler.CastVoteHandler(context.Background(), castVoteRequest()); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	listing, err := module.Handler.ListVotesHandler(context.Background(), httptransport.ListVotesRequest{
		Identification: testIdentification,
		Password:       testPassphrase,
		LivenessProof:  "Prueba de Vida",
	})
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if listing.UserID != 7 || listing.Name != "Jugo" || listing.FirstSurname != "Hernandez" {
		t.Fatalf("unexpected voter in listing: %+v", listing)
	}
	if len(listing.Votes) != 1 {
		t.Fatalf("expected one ballot, got %d", len(listing.Votes))
	}
	ballot := listing.Votes[0]
	if ballot.QuestionID != 1 || ballot.AnswerID != 1 {
		t.Fatalf("unexpected ballot identifiers: %+v", ballot)
	}
	if ballot.AnswerText != "Mejorar el transporte público" {
		t.Fatalf("unexpected answer text: %q", ballot.AnswerText)
	}
	if ballot.VotationTitle != "Plan de movilidad urbana" {
		t.Fatalf("unexpected votation title: %q", ballot.VotationTitle)
	}
	if got := auditCount(module, "Respuestas obtenidas exitosamente"); got != 1 {
		t.Fatalf("expected one listing audit entry, got %d", got)
	}
}
