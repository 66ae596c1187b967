package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"civica/contexts/civic-participation/comment-service/domain/entities"
	"civica/contexts/civic-participation/comment-service/ports"
)

// Store backs the comment module for tests and local runs.
type Store struct {
	mu           sync.RWMutex
	commenters   map[int64]bool
	proposals    map[int64]bool
	details      []entities.CommentDetail
	links        []entities.CommentLink
	documents    []entities.SensitiveDocument
	jobs         []entities.AnalysisJob
	audit        []entities.AuditEntry
	published    []ports.EventEnvelope
	nextDetailID int64
	nextLinkID   int64
	nextDocID    int64
	nextJobID    int64
}

func NewStore() *Store {
	return &Store{
		commenters:   make(map[int64]bool),
		proposals:    make(map[int64]bool),
		nextDetailID: 1,
		nextLinkID:   1,
		nextDocID:    1,
		nextJobID:    1,
	}
}

func (s *Store) SetCommenter(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commenters[userID] = true
}

func (s *Store) SetProposal(proposalID int64, commentsAllowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposalID] = commentsAllowed
}

func (s *Store) HasCommentPermission(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commenters[userID], nil
}

func (s *Store) CommentsAllowed(_ context.Context, proposalID int64) (bool, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed, found := s.proposals[proposalID]
	return allowed, found, nil
}

func (s *Store) SaveComment(_ context.Context, detail entities.CommentDetail, statusID int64, proposalID int64) (entities.CommentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail.DetailID = s.nextDetailID
	s.nextDetailID++
	s.details = append(s.details, detail)

	link := entities.CommentLink{
		CommentID:  s.nextLinkID,
		DetailID:   detail.DetailID,
		StatusID:   statusID,
		ProposalID: proposalID,
	}
	s.nextLinkID++
	s.links = append(s.links, link)
	return link, nil
}

func (s *Store) SaveDocument(_ context.Context, document entities.SensitiveDocument) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document.DocumentID = s.nextDocID
	s.nextDocID++
	s.documents = append(s.documents, document)
	return document.DocumentID, nil
}

func (s *Store) EnqueueAnalysis(_ context.Context, job entities.AnalysisJob) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.JobID = s.nextJobID
	s.nextJobID++
	s.jobs = append(s.jobs, job)
	return job.JobID, nil
}

func (s *Store) ListPendingJobs(_ context.Context, limit int) ([]entities.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]entities.AnalysisJob, 0, limit)
	for _, job := range s.jobs {
		if job.StatusID != entities.AnalysisStatusPending {
			continue
		}
		pending = append(pending, job)
		if len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) CompleteJob(_ context.Context, jobID int64, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].JobID == jobID {
			s.jobs[i].StatusID = entities.AnalysisStatusCompleted
			finished := finishedAt.UTC()
			s.jobs[i].FinishedAt = &finished
			return nil
		}
	}
	return nil
}

func (s *Store) Append(_ context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

func (s *Store) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, event)
	return nil
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) Details() []entities.CommentDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.CommentDetail(nil), s.details...)
}

func (s *Store) Links() []entities.CommentLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.CommentLink(nil), s.links...)
}

func (s *Store) Documents() []entities.SensitiveDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.SensitiveDocument(nil), s.documents...)
}

func (s *Store) Jobs() []entities.AnalysisJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AnalysisJob(nil), s.jobs...)
}

func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

func (s *Store) PublishedEvents() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.EventEnvelope(nil), s.published...)
}

var _ ports.CommenterDirectory = (*Store)(nil)
var _ ports.ProposalGate = (*Store)(nil)
var _ ports.CommentRepository = (*Store)(nil)
var _ ports.DocumentStore = (*Store)(nil)
var _ ports.AnalysisJobs = (*Store)(nil)
var _ ports.AuditLog = (*Store)(nil)
var _ ports.EventPublisher = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
