package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"civica/contexts/civic-participation/comment-service/application"
	"civica/contexts/civic-participation/comment-service/domain/entities"
	"civica/contexts/civic-participation/comment-service/ports"
	"civica/internal/shared/events"
)

const defaultAnalysisConsumerGroup = "comment-service-analysis-completed-cg"

const (
	auditTypeAnalysis  = 2
	auditOriginWorker  = 2
	auditSeverityTrace = 1
)

// AnalysisCompletedConsumer mirrors finished sensitive-comment analyses into
// the audit trail so the moderation log matches the job table.
type AnalysisCompletedConsumer struct {
	Subscriber    ports.EventSubscriber
	Audit         ports.AuditLog
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c AnalysisCompletedConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultAnalysisConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, analysisCompletedTopic, group, c.handleAnalysisCompleted)
}

func (c AnalysisCompletedConsumer) handleAnalysisCompleted(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload events.CommentAnalysisCompleted
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", analysisCompletedTopic, err)
	}
	if payload.JobID <= 0 {
		return fmt.Errorf("%s payload missing job_id", analysisCompletedTopic)
	}

	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	entry := entities.AuditEntry{
		Description: "Análisis de comentario sensible completado",
		Timestamp:   now,
		Computer:    "Worker-Comentarios",
		User:        "analysis-worker",
		Trace:       fmt.Sprintf("AnalisisID=%d;DocumentoID=%d", payload.JobID, payload.DocumentID),
		RefID1:      &payload.JobID,
		RefID2:      &payload.DetailID,
		Value1:      event.EventID,
		Value2:      payload.CompletedAt,
		TypeID:      auditTypeAnalysis,
		OriginID:    auditOriginWorker,
		SeverityID:  auditSeverityTrace,
	}
	if err := c.Audit.Append(ctx, entry); err != nil {
		logger.Error("analysis completion audit append failed",
			"event", "comment_analysis_audit_failed",
			"module", "civic-participation/comment-service",
			"layer", "worker",
			"event_id", event.EventID,
			"job_id", payload.JobID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("analysis completion audited",
		"event", "comment_analysis_audited",
		"module", "civic-participation/comment-service",
		"layer", "worker",
		"event_id", event.EventID,
		"job_id", payload.JobID,
		"detail_id", payload.DetailID,
	)
	return nil
}
