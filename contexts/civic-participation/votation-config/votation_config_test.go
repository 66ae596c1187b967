package votationconfig_test

import (
	"context"
	"errors"
	"testing"
	"time"

	votationconfig "civica/contexts/civic-participation/votation-config"
	domainerrors "civica/contexts/civic-participation/votation-config/domain/errors"
	httptransport "civica/contexts/civic-participation/votation-config/transport/http"
)

func configureRequest() httptransport.ConfigureVotationRequest {
	req := httptransport.ConfigureVotationRequest{
		UserID:      789,
		ProposalID:  5,
		TypeID:      2,
		Title:       "Consulta sobre políticas públicas 2025",
		Description: "Votación para definir prioridades",
		StartsAt:    time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC),
		Secret:      true,
		SegmentIDs:  []int64{1, 3, 5},
	}
	req.Questions = append(req.Questions, struct {
		QuestionID int64 `json:"preguntaID" validate:"required,gt=0"`
	}{QuestionID: 42})
	return req
}

func TestConfigureVotation(t *testing.T) {
	module := votationconfig.NewInMemoryModule(nil)
	module.Store.SetProposalOwner(5, 789)
	module.Store.SetQuestion(42)

	resp, err := module.Handler.ConfigureVotationHandler(context.Background(), configureRequest())
	if err != nil {
		t.Fatalf("configure votation failed: %v", err)
	}
	if resp.VotationID == 0 {
		t.Fatalf("expected a generated votation id")
	}
	if resp.Message != "Votación configurada" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	votations := module.Store.Votations()
	if len(votations) != 1 {
		t.Fatalf("expected one stored votation, got %d", len(votations))
	}
	if votations[0].StatusID != 1 {
		t.Fatalf("expected prepared status, got %d", votations[0].StatusID)
	}
	links := module.Store.QuestionLinks(resp.VotationID)
	if len(links) != 1 || links[0] != 42 {
		t.Fatalf("unexpected question links: %v", links)
	}
}

func TestConfigureVotationRejectsNonOwner(t *testing.T) {
	module := votationconfig.NewInMemoryModule(nil)
	module.Store.SetProposalOwner(5, 111)
	module.Store.SetQuestion(42)

	_, err := module.Handler.ConfigureVotationHandler(context.Background(), configureRequest())
	if !errors.Is(err, domainerrors.ErrNotProposalOwner) {
		t.Fatalf("expected ErrNotProposalOwner, got %v", err)
	}
	if len(module.Store.Votations()) != 0 {
		t.Fatalf("expected no votation rows after rejection")
	}
}

func TestConfigureVotationRejectsUnknownQuestion(t *testing.T) {
	module := votationconfig.NewInMemoryModule(nil)
	module.Store.SetProposalOwner(5, 789)

	_, err := module.Handler.ConfigureVotationHandler(context.Background(), configureRequest())
	if !errors.Is(err, domainerrors.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestConfigureVotationRejectsInvertedWindow(t *testing.T) {
	module := votationconfig.NewInMemoryModule(nil)
	module.Store.SetProposalOwner(5, 789)
	module.Store.SetQuestion(42)

	req := configureRequest()
	req.EndsAt = req.StartsAt.Add(-time.Hour)
	_, err := module.Handler.ConfigureVotationHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrInvalidConfigInput) {
		t.Fatalf("expected ErrInvalidConfigInput, got %v", err)
	}
}
