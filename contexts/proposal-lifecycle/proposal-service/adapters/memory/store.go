package memory

import (
	"context"
	"sync"
	"time"

	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	"civica/contexts/proposal-lifecycle/proposal-service/ports"
)

// Store backs the proposal module for tests and local runs.
type Store struct {
	mu             sync.RWMutex
	proposals      map[int64]entities.Proposal
	reviews        []entities.ReviewRecord
	audit          []entities.AuditEntry
	nextProposalID int64
	nextReviewID   int64
}

func NewStore() *Store {
	return &Store{
		proposals:      make(map[int64]entities.Proposal),
		nextProposalID: 1,
		nextReviewID:   1,
	}
}

func (s *Store) SetProposal(proposal entities.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ProposalID] = proposal
	if proposal.ProposalID >= s.nextProposalID {
		s.nextProposalID = proposal.ProposalID + 1
	}
}

func (s *Store) GetProposal(_ context.Context, proposalID int64) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	return proposal, ok, nil
}

func (s *Store) CreateProposal(_ context.Context, draft entities.ProposalDraft, checksum []byte) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal := proposalFromDraft(draft, checksum)
	proposal.ProposalID = s.nextProposalID
	proposal.StatusID = entities.ProposalStatusInReview
	proposal.Version = 1
	s.nextProposalID++
	s.proposals[proposal.ProposalID] = proposal
	return proposal, nil
}

func (s *Store) UpdateProposal(_ context.Context, draft entities.ProposalDraft, checksum []byte, version int64) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal := proposalFromDraft(draft, checksum)
	proposal.ProposalID = draft.ProposalID
	proposal.StatusID = s.proposals[draft.ProposalID].StatusID
	proposal.Version = version
	s.proposals[proposal.ProposalID] = proposal
	return proposal, nil
}

func (s *Store) RecordReview(_ context.Context, review entities.ReviewRecord, newStatusID int64) (entities.ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review.ReviewID = s.nextReviewID
	s.nextReviewID++
	s.reviews = append(s.reviews, review)

	if proposal, ok := s.proposals[review.ProposalID]; ok {
		proposal.StatusID = newStatusID
		proposal.LastModified = review.ReviewedAt
		s.proposals[review.ProposalID] = proposal
	}
	return review, nil
}

func (s *Store) Append(_ context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) Reviews() []entities.ReviewRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ReviewRecord(nil), s.reviews...)
}

func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

func proposalFromDraft(draft entities.ProposalDraft, checksum []byte) entities.Proposal {
	return entities.Proposal{
		CategoryID:      draft.CategoryID,
		Description:     draft.Description,
		ImageURL:        draft.ImageURL,
		StartsAt:        draft.StartsAt,
		EndsAt:          draft.EndsAt,
		CommentsAllowed: draft.CommentsAllowed,
		TypeID:          draft.TypeID,
		OrganizationID:  draft.OrganizationID,
		UserID:          draft.UserID,
		Checksum:        append([]byte(nil), checksum...),
		LastModified:    time.Now().UTC(),
	}
}

var _ ports.ProposalRepository = (*Store)(nil)
var _ ports.ReviewRepository = (*Store)(nil)
var _ ports.AuditLog = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
