package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"civica/contexts/civic-participation/vote-casting/domain/entities"
	domainerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	"civica/contexts/civic-participation/vote-casting/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter backing tests and local wiring. It enforces
// the same (voter digest, question) uniqueness invariant as the postgres
// unique index, under its mutex.
type Store struct {
	mu sync.RWMutex

	voters    map[string]entities.Voter
	keys      map[int64][]entities.VoterKey
	votations map[int64]entities.Votation

	votes     []entities.VoteRecord
	documents []entities.LivenessProof
	audit     []entities.AuditEntry

	nextVoteID     int64
	nextDocumentID int64
}

func NewStore() *Store {
	return &Store{
		voters:         make(map[string]entities.Voter),
		keys:           make(map[int64][]entities.VoterKey),
		votations:      make(map[int64]entities.Votation),
		nextVoteID:     1,
		nextDocumentID: 1,
	}
}

func (s *Store) SetVoter(voter entities.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(voter.Identification)] = voter
}

func (s *Store) SetVoterKey(key entities.VoterKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key.UserID] = append(s.keys[key.UserID], key)
}

func (s *Store) SetVotation(votation entities.Votation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votations[votation.VotationID] = votation
}

func (s *Store) GetVoterByIdentification(_ context.Context, identification string) (entities.Voter, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[strings.TrimSpace(identification)]
	return voter, ok, nil
}

func (s *Store) GetActiveKey(_ context.Context, userID int64) (entities.VoterKey, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latest entities.VoterKey
		found  bool
	)
	for _, key := range s.keys[userID] {
		if !key.Active || key.Deleted {
			continue
		}
		if !found || key.LastModified.After(latest.LastModified) {
			latest = key
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) ResolveVotationByQuestion(_ context.Context, questionID int64) (entities.Votation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, votation := range s.votations {
		if _, ok := votation.Question(questionID); ok {
			return votation, true, nil
		}
	}
	return entities.Votation{}, false, nil
}

func (s *Store) HasVote(_ context.Context, voterDigest string, questionID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasVoteLocked(voterDigest, questionID), nil
}

func (s *Store) SaveVote(_ context.Context, record entities.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasVoteLocked(record.VoterDigest, record.QuestionID) {
		return domainerrors.ErrAlreadyVoted
	}
	record.VoteID = s.nextVoteID
	s.nextVoteID++
	s.votes = append(s.votes, record)
	return nil
}

func (s *Store) ListVotesByDigest(_ context.Context, voterDigest string, limit int) ([]ports.CastBallot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ballots []ports.CastBallot
	for _, record := range s.votes {
		if record.VoterDigest != voterDigest {
			continue
		}
		ballots = append(ballots, s.resolveBallotLocked(record))
	}
	sort.Slice(ballots, func(i, j int) bool {
		return ballots[i].CastAt.After(ballots[j].CastAt)
	})
	if limit > 0 && len(ballots) > limit {
		ballots = ballots[:limit]
	}
	return ballots, nil
}

func (s *Store) RecordLivenessProof(_ context.Context, proof entities.LivenessProof) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proof.DocumentID = s.nextDocumentID
	s.nextDocumentID++
	s.documents = append(s.documents, proof)
	return proof.DocumentID, nil
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

func (s *Store) NewToken(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Inspection helpers for tests.

func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

func (s *Store) LivenessProofs() []entities.LivenessProof {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.LivenessProof(nil), s.documents...)
}

func (s *Store) VoteCount(voterDigest string, questionID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, record := range s.votes {
		if record.VoterDigest == voterDigest && record.QuestionID == questionID {
			count++
		}
	}
	return count
}

func (s *Store) hasVoteLocked(voterDigest string, questionID int64) bool {
	for _, record := range s.votes {
		if record.VoterDigest == voterDigest && record.QuestionID == questionID {
			return true
		}
	}
	return false
}

func (s *Store) resolveBallotLocked(record entities.VoteRecord) ports.CastBallot {
	ballot := ports.CastBallot{
		VoteID:     record.VoteID,
		QuestionID: record.QuestionID,
		AnswerID:   record.AnswerID,
		CastAt:     record.CastAt,
	}
	for _, votation := range s.votations {
		question, ok := votation.Question(record.QuestionID)
		if !ok {
			continue
		}
		ballot.VotationTitle = votation.Title
		ballot.QuestionText = question.Prompt
		if answer, ok := question.Answer(record.AnswerID); ok {
			ballot.AnswerText = answer.Label
		}
		break
	}
	return ballot
}

var _ ports.VoterDirectory = (*Store)(nil)
var _ ports.BallotCatalog = (*Store)(nil)
var _ ports.VoteRepository = (*Store)(nil)
var _ ports.LivenessRecorder = (*Store)(nil)
var _ ports.AuditLog = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.TokenGenerator = (*Store)(nil)
