package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recibos/billing-system/internal/core/domain"
)

func newBalanceFixture() (*BalanceService, *stubBillRepo, *stubDepositRepo) {
	guard, _ := testGuard()
	bills := &stubBillRepo{}
	deposits := &stubDepositRepo{}
	return NewBalanceService(bills, deposits, guard, testLogger()), bills, deposits
}

func TestBalanceService_ClientBalance(t *testing.T) {
	svc, bills, deposits := newBalanceFixture()

	// one bill of 3×100, one deposit of 150 → balance 150
	bills.bills = []domain.Bill{{
		ID:       "b1",
		ClientID: "c1",
		Products: map[string][]domain.LineItem{
			"p1": {{Amount: 3, Price: 100}},
		},
	}}
	deposits.deposits = []domain.Deposit{
		{ID: "d1", ClientID: "c1", Currency: domain.CurrencyPEN, Amount: 150, ExchangeRate: 1},
	}

	balance, err := svc.ClientBalance(context.Background(), "advanced-key", "c1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 150 {
		t.Fatalf("expected balance 150, got %v", balance)
	}
}

func TestBalanceService_LinePriceIsAuthoritative(t *testing.T) {
	svc, bills, _ := newBalanceFixture()

	// The line was written with price 100; a later client override to 80
	// lives on the client record and must not affect historical totals.
	bills.bills = []domain.Bill{{
		ID:       "b1",
		ClientID: "c1",
		Products: map[string][]domain.LineItem{
			"p1": {{Amount: 3, Price: 100}},
		},
	}}

	balance, err := svc.ClientBalance(context.Background(), "advanced-key", "c1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 300 {
		t.Fatalf("expected snapshotted 3×100=300, got %v", balance)
	}
}

func TestBalanceService_EmptyClientIsZero(t *testing.T) {
	svc, _, _ := newBalanceFixture()

	balance, err := svc.ClientBalance(context.Background(), "advanced-key", "nobody")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected 0, got %v", balance)
	}
}

func TestBalanceService_NegativeBalanceIsCredit(t *testing.T) {
	svc, bills, deposits := newBalanceFixture()

	bills.bills = []domain.Bill{{
		ID:       "b1",
		ClientID: "c1",
		Products: map[string][]domain.LineItem{"p1": {{Amount: 1, Price: 50}}},
	}}
	deposits.deposits = []domain.Deposit{
		{ID: "d1", ClientID: "c1", Currency: domain.CurrencyPEN, Amount: 120, ExchangeRate: 1},
	}

	balance, err := svc.ClientBalance(context.Background(), "advanced-key", "c1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != -70 {
		t.Fatalf("expected -70 (overpaid), got %v", balance)
	}
}

func TestBalanceService_RequiresTier(t *testing.T) {
	svc, _, _ := newBalanceFixture()

	if _, err := svc.ClientBalance(context.Background(), "basic-key", "c1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for basic tier, got %v", err)
	}
}

func TestBalanceService_MonthlyReport(t *testing.T) {
	svc, bills, deposits := newBalanceFixture()

	march := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	bills.bills = []domain.Bill{
		{ID: "b1", ClientID: "c1", Date: march, Products: map[string][]domain.LineItem{
			"p1": {{Amount: 2, Price: 100}},
			"p2": {{Amount: 1, Price: 50}, {Amount: 1, Price: 25}},
		}},
		{ID: "b2", ClientID: "c2", Date: may, Products: map[string][]domain.LineItem{
			"p1": {{Amount: 4, Price: 10}},
		}},
	}
	deposits.deposits = []domain.Deposit{
		{ID: "d1", ClientID: "c1", Date: march, Amount: 100},
		{ID: "d2", ClientID: "c1", Date: may, Amount: 20},
	}

	report, err := svc.MonthlyReport(context.Background(), "advanced-key")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	// April has no activity and must be absent, not zero-filled.
	if len(report) != 2 {
		t.Fatalf("expected 2 periods, got %d: %+v", len(report), report)
	}
	if report[0].Period != "3/2024" || report[1].Period != "5/2024" {
		t.Fatalf("periods out of order: %+v", report)
	}
	if report[0].SalesTotal != 275 || report[0].DepositsTotal != 100 {
		t.Fatalf("march aggregates wrong: %+v", report[0])
	}
	if report[1].SalesTotal != 40 || report[1].DepositsTotal != 20 {
		t.Fatalf("may aggregates wrong: %+v", report[1])
	}
}

func TestBalanceService_MonthlyReport_Empty(t *testing.T) {
	svc, _, _ := newBalanceFixture()

	report, err := svc.MonthlyReport(context.Background(), "admin-key")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
