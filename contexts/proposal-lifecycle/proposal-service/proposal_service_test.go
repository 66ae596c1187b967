package proposalservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	proposalservice "civica/contexts/proposal-lifecycle/proposal-service"
	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	domainerrors "civica/contexts/proposal-lifecycle/proposal-service/domain/errors"
	httptransport "civica/contexts/proposal-lifecycle/proposal-service/transport/http"
)

func upsertRequest() httptransport.UpsertProposalRequest {
	return httptransport.UpsertProposalRequest{
		CategoryID:       3,
		Description:      "Propuesta para mejorar la infraestructura",
		ImageURL:         "https://example.com/imagen.jpg",
		EndsAt:           time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		CommentsAllowed:  true,
		TypeID:           2,
		OrganizationID:   62,
		TargetSegmentsJS: "[1,2,3]",
		ImpactSegmentsJS: "[4,5]",
		AttachmentsJS:    `[{"nombre": "documento1.pdf", "tipoDocumentoID": 1, "idLegal": "123456789"}]`,
		UserID:           672,
		OriginTeam:       "ServidorApp01",
	}
}

func TestCreateProposal(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	resp, err := module.Handler.UpsertProposalHandler(context.Background(), upsertRequest())
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	if resp.ProposalID == 0 {
		t.Fatalf("expected a generated proposal id")
	}
	if resp.Version != 1 {
		t.Fatalf("expected version 1, got %d", resp.Version)
	}
	if resp.Checksum == "" {
		t.Fatalf("expected a checksum")
	}
	if resp.Message != "Propuesta creada" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestUpdateProposalBumpsVersion(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	created, err := module.Handler.UpsertProposalHandler(context.Background(), upsertRequest())
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}

	req := upsertRequest()
	req.ProposalID = &created.ProposalID
	req.Description = "Propuesta para mejorar la infraestructura vial"
	updated, err := module.Handler.UpsertProposalHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("update proposal failed: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
	if updated.Checksum == created.Checksum {
		t.Fatalf("expected checksum to change with content")
	}
}

func TestUpdateProposalByStrangerIsRejected(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	created, err := module.Handler.UpsertProposalHandler(context.Background(), upsertRequest())
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}

	req := upsertRequest()
	req.ProposalID = &created.ProposalID
	req.UserID = 999
	_, err = module.Handler.UpsertProposalHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrNotProponent) {
		t.Fatalf("expected ErrNotProponent, got %v", err)
	}
}

func TestUpsertProposalRejectsMalformedSegments(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	req := upsertRequest()
	req.TargetSegmentsJS = "{broken"
	_, err := module.Handler.UpsertProposalHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrInvalidProposalInput) {
		t.Fatalf("expected ErrInvalidProposalInput, got %v", err)
	}
}

func TestReviewProposalApproves(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	created, err := module.Handler.UpsertProposalHandler(context.Background(), upsertRequest())
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}

	resp, err := module.Handler.ReviewProposalHandler(context.Background(), httptransport.ReviewProposalRequest{
		ProposalID: created.ProposalID,
		ReviewerID: 1,
		Outcome:    "Aprobada",
		Comments:   "Cumple los requisitos",
		ReviewType: "Combinada",
	})
	if err != nil {
		t.Fatalf("review proposal failed: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}

	proposal, found, err := module.Store.GetProposal(context.Background(), created.ProposalID)
	if err != nil || !found {
		t.Fatalf("proposal lookup failed: found=%v err=%v", found, err)
	}
	if proposal.StatusID != entities.ProposalStatusApproved {
		t.Fatalf("expected approved status, got %d", proposal.StatusID)
	}
	if got := len(module.Store.Reviews()); got != 1 {
		t.Fatalf("expected one review record, got %d", got)
	}
}

func TestReviewProposalRejectsUnknownOutcome(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	created, err := module.Handler.UpsertProposalHandler(context.Background(), upsertRequest())
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}

	_, err = module.Handler.ReviewProposalHandler(context.Background(), httptransport.ReviewProposalRequest{
		ProposalID: created.ProposalID,
		ReviewerID: 1,
		Outcome:    "Pendiente",
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewOutcome) {
		t.Fatalf("expected ErrInvalidReviewOutcome, got %v", err)
	}
}

func TestReviewUnknownProposal(t *testing.T) {
	module := proposalservice.NewInMemoryModule(nil)

	_, err := module.Handler.ReviewProposalHandler(context.Background(), httptransport.ReviewProposalRequest{
		ProposalID: 404,
		ReviewerID: 1,
		Outcome:    "Rechazada",
	})
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
}
