package events

// CommentAnalysisCompleted is the canonical payload carried by
// comment.analysis.completed events. Consumers outside this process decode
// against this shape, so field names are part of the contract.
type CommentAnalysisCompleted struct {
	JobID       int64  `json:"job_id"`
	DetailID    int64  `json:"detail_id"`
	DocumentID  int64  `json:"document_id"`
	CompletedAt string `json:"completed_at"`
}
