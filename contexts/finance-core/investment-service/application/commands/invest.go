package commands

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"civica/contexts/finance-core/investment-service/application"
	"civica/contexts/finance-core/investment-service/domain/entities"
	domainerrors "civica/contexts/finance-core/investment-service/domain/errors"
	"civica/contexts/finance-core/investment-service/ports"
)

const (
	auditTypeCredential = 2
	auditTypeDataAccess = 3
	auditOriginAPI      = 1
	auditSeverityInfo   = 1
	auditSeverityNotice = 2
)

type InvestCommand struct {
	ProjectID      int64
	Amount         float64
	Currency       string
	Identification string
	Password       string
	OrganizationID *int64
	PaymentMethod  string
}

type InvestResult struct {
	Investment entities.Investment
}

type InvestUseCase struct {
	Credentials ports.CredentialVerifier
	Projects    ports.ProjectCatalog
	Investments ports.InvestmentRepository
	Audit       ports.AuditLog
	Clock       ports.Clock
	Tokens      ports.TokenGenerator
	Logger      *slog.Logger
}

func (uc InvestUseCase) Invest(ctx context.Context, cmd InvestCommand) (InvestResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.ProjectID <= 0 || cmd.Amount <= 0 || strings.TrimSpace(cmd.Currency) == "" {
		return InvestResult{}, domainerrors.ErrInvalidInvestmentInput
	}
	if strings.TrimSpace(cmd.Identification) == "" || cmd.Password == "" {
		return InvestResult{}, domainerrors.ErrInvalidInvestmentInput
	}

	userID, ok, err := uc.Credentials.VerifyInvestor(ctx, cmd.Identification, cmd.Password)
	if err != nil {
		logger.Error("investor credential check failed",
			"event", "investment_credential_check_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"error", err.Error(),
		)
		return InvestResult{}, domainerrors.ErrInternal
	}
	if !ok {
		now := uc.Clock.Now().UTC()
		uc.appendAudit(ctx, entities.AuditEntry{
			Description: "Inversión rechazada: credenciales inválidas",
			Timestamp:   now,
			Computer:    "invertir/endpoint",
			User:        cmd.Identification,
			Checksum:    investChecksum("Inversión rechazada: credenciales inválidas", cmd.Identification, now),
			TypeID:      auditTypeCredential,
			OriginID:    auditOriginAPI,
			SeverityID:  auditSeverityNotice,
		})
		return InvestResult{}, domainerrors.ErrInvalidCredentials
	}

	exists, err := uc.Projects.ProjectExists(ctx, cmd.ProjectID)
	if err != nil {
		logger.Error("project lookup failed",
			"event", "investment_project_lookup_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"error", err.Error(),
		)
		return InvestResult{}, domainerrors.ErrInternal
	}
	if !exists {
		return InvestResult{}, domainerrors.ErrProjectNotFound
	}

	reference, err := uc.Tokens.NewToken(ctx)
	if err != nil {
		logger.Error("reference generation failed",
			"event", "investment_reference_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"error", err.Error(),
		)
		return InvestResult{}, domainerrors.ErrInternal
	}

	now := uc.Clock.Now().UTC()
	investment, err := uc.Investments.SaveInvestment(ctx, entities.Investment{
		ProjectID:           cmd.ProjectID,
		Amount:              cmd.Amount,
		Currency:            cmd.Currency,
		UserID:              userID,
		OrganizationID:      cmd.OrganizationID,
		PaymentMethod:       cmd.PaymentMethod,
		Reference:           reference,
		AuthorizationNumber: authorizationNumber(reference),
		InvestedAt:          now,
	})
	if err != nil {
		logger.Error("investment persistence failed",
			"event", "investment_save_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"error", err.Error(),
		)
		return InvestResult{}, domainerrors.ErrInternal
	}

	uc.appendAudit(ctx, entities.AuditEntry{
		Description: "Inversión registrada",
		Timestamp:   now,
		Computer:    "invertir/endpoint",
		User:        strconv.FormatInt(userID, 10),
		Trace:       fmt.Sprintf("TransaccionID=%d;Referencia=%s", investment.TransactionID, reference),
		RefID1:      &investment.TransactionID,
		RefID2:      &cmd.ProjectID,
		Value1:      fmt.Sprintf("%.2f %s", cmd.Amount, cmd.Currency),
		Value2:      cmd.PaymentMethod,
		Checksum:    investChecksum("Inversión registrada", cmd.Identification, now),
		TypeID:      auditTypeDataAccess,
		OriginID:    auditOriginAPI,
		SeverityID:  auditSeverityInfo,
	})

	logger.Info("investment settled",
		"event", "investment_settled",
		"module", "finance-core/investment-service",
		"layer", "application",
		"transaction_id", investment.TransactionID,
		"project_id", cmd.ProjectID,
		"amount", cmd.Amount,
		"currency", cmd.Currency,
	)
	return InvestResult{Investment: investment}, nil
}

func (uc InvestUseCase) appendAudit(ctx context.Context, entry entities.AuditEntry) {
	if err := uc.Audit.Append(ctx, entry); err != nil {
		application.ResolveLogger(uc.Logger).Error("audit append failed",
			"event", "investment_audit_failed",
			"module", "finance-core/investment-service",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

// authorizationNumber derives a short human-readable authorization code from
// the transaction reference.
func authorizationNumber(reference string) string {
	trimmed := strings.ReplaceAll(reference, "-", "")
	if len(trimmed) > 8 {
		trimmed = trimmed[:8]
	}
	return "AUT-" + strings.ToUpper(trimmed)
}

func investChecksum(description string, user string, at time.Time) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", description, user, at.Format(time.RFC3339))))
	return sum[:]
}
