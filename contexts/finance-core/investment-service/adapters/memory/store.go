package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"civica/contexts/finance-core/investment-service/domain/entities"
	"civica/contexts/finance-core/investment-service/ports"
)

// dividendRate is the flat payout applied per distribution pass.
const dividendRate = 0.05

// Store backs the investment module for tests and local runs.
type Store struct {
	mu          sync.RWMutex
	credentials map[string]investorCredential
	projects    map[int64]bool
	investments []entities.Investment
	rounds      []entities.DividendRound
	audit       []entities.AuditEntry
	nextTxID    int64
	nextRoundID int64
}

type investorCredential struct {
	userID   int64
	password string
}

func NewStore() *Store {
	return &Store{
		credentials: make(map[string]investorCredential),
		projects:    make(map[int64]bool),
		nextTxID:    1,
		nextRoundID: 1,
	}
}

func (s *Store) SetInvestor(identification string, password string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[identification] = investorCredential{userID: userID, password: password}
}

func (s *Store) SetProject(projectID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[projectID] = true
}

func (s *Store) VerifyInvestor(_ context.Context, identification string, password string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credential, ok := s.credentials[identification]
	if !ok || credential.password != password {
		return 0, false, nil
	}
	return credential.userID, true, nil
}

func (s *Store) ProjectExists(_ context.Context, projectID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[projectID], nil
}

func (s *Store) SaveInvestment(_ context.Context, investment entities.Investment) (entities.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	investment.TransactionID = s.nextTxID
	s.nextTxID++
	s.investments = append(s.investments, investment)
	return investment, nil
}

func (s *Store) DistributeDividends(_ context.Context, executedAt time.Time) (entities.DividendRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	investors := make(map[int64]struct{})
	total := 0.0
	for _, investment := range s.investments {
		investors[investment.UserID] = struct{}{}
		total += investment.Amount * dividendRate
	}

	round := entities.DividendRound{
		RoundID:          s.nextRoundID,
		ExecutedAt:       executedAt.UTC(),
		InvestorCount:    len(investors),
		TotalDistributed: total,
	}
	s.nextRoundID++
	s.rounds = append(s.rounds, round)
	return round, nil
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

func (s *Store) Investments() []entities.Investment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Investment(nil), s.investments...)
}

func (s *Store) Rounds() []entities.DividendRound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.DividendRound(nil), s.rounds...)
}

func (s *Store) AuditEntries() []entities.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AuditEntry(nil), s.audit...)
}

var _ ports.CredentialVerifier = (*Store)(nil)
var _ ports.ProjectCatalog = (*Store)(nil)
var _ ports.InvestmentRepository = (*Store)(nil)
var _ ports.AuditLog = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.TokenGenerator = (*Store)(nil)
