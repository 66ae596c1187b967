package memory

import (
	"context"
	"sync"
	"time"

	"civica/contexts/civic-participation/votation-config/domain/entities"
	"civica/contexts/civic-participation/votation-config/ports"
)

// Store backs the votation-config module for tests and local runs.
type Store struct {
	mu             sync.RWMutex
	proposalOwners map[int64]int64
	questions      map[int64]bool
	votations      []entities.ConfiguredVotation
	questionLinks  map[int64][]int64
	segmentLinks   map[int64][]int64
	audit          []entities.AuditEntry
	nextVotationID int64
}

func NewStore() *Store {
	return &Store{
		proposalOwners: make(map[int64]int64),
		questions:      make(map[int64]bool),
		questionLinks:  make(map[int64][]int64),
		segmentLinks:   make(map[int64][]int64),
		nextVotationID: 1,
	}
}

func (s *Store) SetProposalOwner(proposalID int64, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposalOwners[proposalID] = userID
}

func (s *Store) SetQuestion(questionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[questionID] = true
}

func (s *Store) IsProposalOwner(_ context.Context, proposalID int64, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.proposalOwners[proposalID]
	return ok && owner == userID, nil
}

func (s *Store) QuestionExists(_ context.Context, questionID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions[questionID], nil
}

func (s *Store) CreateVotation(_ context.Context, draft entities.VotationDraft) (entities.ConfiguredVotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votation := entities.ConfiguredVotation{
		VotationID:   s.nextVotationID,
		ProposalID:   draft.ProposalID,
		TypeID:       draft.TypeID,
		Title:        draft.Title,
		Description:  draft.Description,
		StartsAt:     draft.StartsAt,
		EndsAt:       draft.EndsAt,
		StatusID:     entities.VotationStatusPrepared,
		LastModified: time.Now().UTC(),
		Private:      draft.Private,
		Secret:       draft.Secret,
	}
	s.nextVotationID++
	s.votations = append(s.votations, votation)
	s.questionLinks[votation.VotationID] = append([]int64(nil), draft.QuestionIDs...)
	s.segmentLinks[votation.VotationID] = append([]int64(nil), draft.SegmentIDs...)
	return votation, nil
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

func (s *Store) Votations() []entities.ConfiguredVotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ConfiguredVotation(nil), s.votations...)
}

func (s *Store) QuestionLinks(votationID int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.questionLinks[votationID]...)
}

func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

var _ ports.ProposalOwnership = (*Store)(nil)
var _ ports.QuestionCatalog = (*Store)(nil)
var _ ports.VotationWriter = (*Store)(nil)
var _ ports.AuditLog = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
