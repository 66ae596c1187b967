package commentservice_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	commentservice "civica/contexts/civic-participation/comment-service"
	commentworkers "civica/contexts/civic-participation/comment-service/application/workers"
	"civica/contexts/civic-participation/comment-service/domain/entities"
	domainerrors "civica/contexts/civic-participation/comment-service/domain/errors"
	"civica/contexts/civic-participation/comment-service/ports"
	httptransport "civica/contexts/civic-participation/comment-service/transport/http"
	"civica/internal/platform/passcrypt"
	"civica/internal/shared/events"
)

const commentPassphrase = "clave-comentarios"

func newCommentModule(t *testing.T) commentservice.Module {
	t.Helper()
	module := commentservice.NewInMemoryModule(passcrypt.Cipher{}, commentPassphrase, nil)
	module.Store.SetCommenter(42)
	module.Store.SetProposal(40, true)
	return module
}

func commentRequest() httptransport.PostCommentRequest {
	return httptransport.PostCommentRequest{
		Title:          "Opinión sobre la propuesta X",
		Body:           "Apoyo la propuesta y sugiero ampliar el alcance al cantón vecino.",
		UserID:         42,
		OrganizationID: 1,
		ProposalID:     40,
	}
}

func TestPostCommentAccepted(t *testing.T) {
	module := newCommentModule(t)

	result, err := module.Handler.PostCommentHandler(context.Background(), commentRequest())
	if err != nil {
		t.Fatalf("post comment failed: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected comment to be accepted: %+v", result)
	}
	if result.Sensitive {
		t.Fatalf("did not expect sensitive flag")
	}

	links := module.Store.Links()
	if len(links) != 1 || links[0].StatusID != entities.CommentStatusPendingReview {
		t.Fatalf("unexpected comment links: %+v", links)
	}
	details := module.Store.Details()
	if len(details) != 1 || details[0].Encrypted {
		t.Fatalf("expected one plaintext detail row: %+v", details)
	}
}

func TestPostCommentTooShortIsRejectedButStored(t *testing.T) {
	module := newCommentModule(t)

	req := commentRequest()
	req.Body = "corto"
	result, err := module.Handler.PostCommentHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("post comment failed: %v", err)
	}
	if result.Accepted {
		t.Fatalf("expected rejection for short body")
	}
	if result.Reason == "" {
		t.Fatalf("expected a rejection reason")
	}

	links := module.Store.Links()
	if len(links) != 1 || links[0].StatusID != entities.CommentStatusRejected {
		t.Fatalf("expected a stored rejected comment: %+v", links)
	}
}

func TestPostCommentSensitiveBodyIsEncryptedAndQueued(t *testing.T) {
	module := newCommentModule(t)

	req := commentRequest()
	req.Body = "Este comentario incluye un documento sensible que debe ser analizado."
	result, err := module.Handler.PostCommentHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("post comment failed: %v", err)
	}
	if !result.Accepted || !result.Sensitive {
		t.Fatalf("expected accepted sensitive comment: %+v", result)
	}

	details := module.Store.Details()
	if len(details) != 1 {
		t.Fatalf("expected one detail row, got %d", len(details))
	}
	if !details[0].Encrypted {
		t.Fatalf("expected encrypted body")
	}
	if bytes.Contains(details[0].Body, []byte("documento sensible")) {
		t.Fatalf("sensitive body stored in the clear")
	}

	if got := len(module.Store.Documents()); got != 1 {
		t.Fatalf("expected one archived document, got %d", got)
	}
	jobs := module.Store.Jobs()
	if len(jobs) != 1 || jobs[0].StatusID != entities.AnalysisStatusPending {
		t.Fatalf("expected one pending analysis job: %+v", jobs)
	}
}

func TestAnalysisWorkerCompletesJobsAndPublishes(t *testing.T) {
	module := newCommentModule(t)

	req := commentRequest()
	req.Body = "Adjunto un documento sensible para revisión del comité."
	if _, err := module.Handler.PostCommentHandler(context.Background(), req); err != nil {
		t.Fatalf("post comment failed: %v", err)
	}

	if err := module.AnalysisWorker.RunOnce(context.Background()); err != nil {
		t.Fatalf("analysis worker failed: %v", err)
	}

	jobs := module.Store.Jobs()
	if len(jobs) != 1 || jobs[0].StatusID != entities.AnalysisStatusCompleted {
		t.Fatalf("expected completed job: %+v", jobs)
	}
	if jobs[0].FinishedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
	events := module.Store.PublishedEvents()
	if len(events) != 1 || events[0].EventType != "comment.analysis.completed" {
		t.Fatalf("unexpected published events: %+v", events)
	}
}

func TestPostCommentWithoutPermission(t *testing.T) {
	module := newCommentModule(t)

	req := commentRequest()
	req.UserID = 99
	_, err := module.Handler.PostCommentHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrCommenterNotAllowed) {
		t.Fatalf("expected ErrCommenterNotAllowed, got %v", err)
	}
}

func TestPostCommentOnClosedProposal(t *testing.T) {
	module := newCommentModule(t)
	module.Store.SetProposal(41, false)

	req := commentRequest()
	req.ProposalID = 41
	_, err := module.Handler.PostCommentHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrCommentsNotAllowed) {
		t.Fatalf("expected ErrCommentsNotAllowed, got %v", err)
	}
}

func TestPostCommentOnUnknownProposal(t *testing.T) {
	module := newCommentModule(t)

	req := commentRequest()
	req.ProposalID = 404
	_, err := module.Handler.PostCommentHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
}

type stubSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, ports.EventEnvelope) error{}
	}
	s.handlers[topic] = handler
	return nil
}

func TestAnalysisCompletedConsumerAuditsCompletion(t *testing.T) {
	module := newCommentModule(t)
	sub := &stubSubscriber{}
	consumer := commentworkers.AnalysisCompletedConsumer{
		Subscriber: sub,
		Audit:      module.Store,
	}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start analysis completed consumer failed: %v", err)
	}
	handler := sub.handlers["comment.analysis.completed"]
	if handler == nil {
		t.Fatalf("expected comment.analysis.completed handler registration")
	}

	payload, _ := json.Marshal(events.CommentAnalysisCompleted{
		JobID:       9,
		DetailID:    4,
		DocumentID:  2,
		CompletedAt: time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
	})
	if err := handler(context.Background(), ports.EventEnvelope{
		EventID:   "event-analysis-completed-1",
		EventType: "comment.analysis.completed",
		Data:      payload,
	}); err != nil {
		t.Fatalf("comment.analysis.completed handler failed: %v", err)
	}

	entries := module.Store.AuditEntries()
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	if entries[0].Description != "Análisis de comentario sensible completado" {
		t.Fatalf("unexpected audit description %q", entries[0].Description)
	}
	if entries[0].RefID1 == nil || *entries[0].RefID1 != 9 {
		t.Fatalf("expected audit RefID1 to carry the job id: %+v", entries[0])
	}
	if entries[0].RefID2 == nil || *entries[0].RefID2 != 4 {
		t.Fatalf("expected audit RefID2 to carry the detail id: %+v", entries[0])
	}
}

func TestAnalysisCompletedConsumerRejectsMalformedPayload(t *testing.T) {
	module := newCommentModule(t)
	sub := &stubSubscriber{}
	consumer := commentworkers.AnalysisCompletedConsumer{
		Subscriber: sub,
		Audit:      module.Store,
	}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start analysis completed consumer failed: %v", err)
	}
	handler := sub.handlers["comment.analysis.completed"]

	if err := handler(context.Background(), ports.EventEnvelope{
		EventID:   "event-analysis-completed-2",
		EventType: "comment.analysis.completed",
		Data:      []byte(`{"job_id":0}`),
	}); err == nil {
		t.Fatalf("expected error for payload without job id")
	}
	if got := len(module.Store.AuditEntries()); got != 0 {
		t.Fatalf("expected no audit entries for malformed payload, got %d", got)
	}
}
