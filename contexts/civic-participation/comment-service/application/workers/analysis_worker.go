package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"civica/contexts/civic-participation/comment-service/application"
	"civica/contexts/civic-participation/comment-service/ports"
	"civica/internal/shared/events"
)

const analysisCompletedTopic = "comment.analysis.completed"

// AnalysisWorker drains pending sensitive-comment analysis jobs and announces
// each completion on the bus so moderation tooling can pick it up.
type AnalysisWorker struct {
	Jobs      ports.AnalysisJobs
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce processes a bounded batch. A job is marked complete before its
// event is published; the event is advisory, the job table is authoritative.
func (w AnalysisWorker) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 50
	}

	pending, err := w.Jobs.ListPendingJobs(ctx, limit)
	if err != nil {
		logger.Error("analysis job listing failed",
			"event", "comment_analysis_list_failed",
			"module", "civic-participation/comment-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("no pending analysis jobs",
			"event", "comment_analysis_noop",
			"module", "civic-participation/comment-service",
			"layer", "worker",
		)
		return nil
	}

	now := w.now()
	for _, job := range pending {
		if err := w.Jobs.CompleteJob(ctx, job.JobID, now); err != nil {
			logger.Error("analysis job completion failed",
				"event", "comment_analysis_complete_failed",
				"module", "civic-participation/comment-service",
				"layer", "worker",
				"job_id", job.JobID,
				"error", err.Error(),
			)
			return err
		}

		eventID, err := w.IDGen.NewID(ctx)
		if err != nil {
			logger.Error("analysis event id generation failed",
				"event", "comment_analysis_event_id_failed",
				"module", "civic-participation/comment-service",
				"layer", "worker",
				"job_id", job.JobID,
				"error", err.Error(),
			)
			return err
		}
		payload, err := json.Marshal(events.CommentAnalysisCompleted{
			JobID:       job.JobID,
			DetailID:    job.DetailID,
			DocumentID:  job.DocumentID,
			CompletedAt: now.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		event := ports.EventEnvelope{
			EventID:       eventID,
			EventType:     analysisCompletedTopic,
			OccurredAt:    now,
			SourceService: "comment-service",
			TraceID:       eventID,
			SchemaVersion: 1,
			PartitionKey:  eventID,
			Data:          payload,
		}
		if err := w.Publisher.Publish(ctx, analysisCompletedTopic, event); err != nil {
			logger.Error("analysis completion publish failed",
				"event", "comment_analysis_publish_failed",
				"module", "civic-participation/comment-service",
				"layer", "worker",
				"job_id", job.JobID,
				"event_id", eventID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("analysis batch completed",
		"event", "comment_analysis_batch_completed",
		"module", "civic-participation/comment-service",
		"layer", "worker",
		"completed_count", len(pending),
	)
	return nil
}

func (w AnalysisWorker) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
