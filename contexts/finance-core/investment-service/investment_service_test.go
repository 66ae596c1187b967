package investmentservice_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	investmentservice "civica/contexts/finance-core/investment-service"
	domainerrors "civica/contexts/finance-core/investment-service/domain/errors"
	transport "civica/contexts/finance-core/investment-service/transport/http"
)

const (
	testIdentification = "200000000"
	testPassword       = "INVESTOR1"
	testProjectID      = int64(15)
)

func newSeededModule(t *testing.T) investmentservice.Module {
	t.Helper()
	module := investmentservice.NewInMemoryModule(slog.Default())
	module.Store.SetInvestor(testIdentification, testPassword, 31)
	module.Store.SetProject(testProjectID)
	return module
}

func auditCount(module investmentservice.Module, description string) int {
	count := 0
	for _, entry := range module.Store.AuditEntries() {
		if entry.Description == description {
			count++
		}
	}
	return count
}

func TestInvestRecordsTransaction(t *testing.T) {
	module := newSeededModule(t)

	resp, err := module.Handler.InvestHandler(context.Background(), transport.InvestRequest{
		ProjectID:      testProjectID,
		Amount:         2500,
		Currency:       "CRC",
		Identification: testIdentification,
		Password:       testPassword,
		PaymentMethod:  "SINPE",
	})
	if err != nil {
		t.Fatalf("invest: %v", err)
	}
	if resp.Msg != "Inversión registrada exitosamente" {
		t.Fatalf("unexpected message %q", resp.Msg)
	}
	if resp.Reference == "" {
		t.Fatalf("expected a transaction reference")
	}
	if !strings.HasPrefix(resp.AuthorizationNumber, "AUT-") {
		t.Fatalf("unexpected authorization number %q", resp.AuthorizationNumber)
	}
	if resp.AmountInvested != 2500 {
		t.Fatalf("unexpected amount %f", resp.AmountInvested)
	}

	investments := module.Store.Investments()
	if len(investments) != 1 {
		t.Fatalf("expected 1 stored investment, got %d", len(investments))
	}
	if investments[0].UserID != 31 || investments[0].ProjectID != testProjectID {
		t.Fatalf("unexpected investment row %+v", investments[0])
	}
	if got := auditCount(module, "Inversión registrada"); got != 1 {
		t.Fatalf("expected 1 settlement audit entry, got %d", got)
	}
}

func TestInvestRejectsBadCredentials(t *testing.T) {
	module := newSeededModule(t)

	_, err := module.Handler.InvestHandler(context.Background(), transport.InvestRequest{
		ProjectID:      testProjectID,
		Amount:         100,
		Currency:       "CRC",
		Identification: testIdentification,
		Password:       "wrong-password",
		PaymentMethod:  "SINPE",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(module.Store.Investments()) != 0 {
		t.Fatalf("no investment should be stored after a credential failure")
	}
	if got := auditCount(module, "Inversión rechazada: credenciales inválidas"); got != 1 {
		t.Fatalf("expected 1 rejection audit entry, got %d", got)
	}
}

func TestInvestUnknownProject(t *testing.T) {
	module := newSeededModule(t)

	_, err := module.Handler.InvestHandler(context.Background(), transport.InvestRequest{
		ProjectID:      999,
		Amount:         100,
		Currency:       "CRC",
		Identification: testIdentification,
		Password:       testPassword,
		PaymentMethod:  "SINPE",
	})
	if !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if len(module.Store.Investments()) != 0 {
		t.Fatalf("no investment should be stored for an unknown project")
	}
}

func TestInvestRejectsNonPositiveAmount(t *testing.T) {
	module := newSeededModule(t)

	_, err := module.Handler.InvestHandler(context.Background(), transport.InvestRequest{
		ProjectID:      testProjectID,
		Amount:         0,
		Currency:       "CRC",
		Identification: testIdentification,
		Password:       testPassword,
		PaymentMethod:  "SINPE",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInvestmentInput) {
		t.Fatalf("expected ErrInvalidInvestmentInput, got %v", err)
	}
}

func TestDistributeDividendsAcrossInvestors(t *testing.T) {
	module := newSeededModule(t)
	module.Store.SetInvestor("300000000", "INVESTOR2", 32)

	for _, req := range []transport.InvestRequest{
		{ProjectID: testProjectID, Amount: 1000, Currency: "CRC", Identification: testIdentification, Password: testPassword, PaymentMethod: "SINPE"},
		{ProjectID: testProjectID, Amount: 3000, Currency: "CRC", Identification: "300000000", Password: "INVESTOR2", PaymentMethod: "TARJETA"},
	} {
		if _, err := module.Handler.InvestHandler(context.Background(), req); err != nil {
			t.Fatalf("invest: %v", err)
		}
	}

	resp, err := module.Handler.DistributeDividendsHandler(context.Background())
	if err != nil {
		t.Fatalf("distribute dividends: %v", err)
	}
	if resp.Msg != "Dividendos repartidos exitosamente" {
		t.Fatalf("unexpected message %q", resp.Msg)
	}
	if resp.InvestorCount != 2 {
		t.Fatalf("expected 2 investors in the round, got %d", resp.InvestorCount)
	}
	if math.Abs(resp.TotalDistributed-200) > 1e-9 {
		t.Fatalf("expected 200 distributed, got %f", resp.TotalDistributed)
	}

	rounds := module.Store.Rounds()
	if len(rounds) != 1 {
		t.Fatalf("expected 1 dividend round, got %d", len(rounds))
	}
	if got := auditCount(module, "Dividendos repartidos"); got != 1 {
		t.Fatalf("expected 1 dividend audit entry, got %d", got)
	}
}
