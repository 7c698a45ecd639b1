package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/domain"
)

func newBillFixture() (*BillService, *stubBillRepo) {
	guard, _ := testGuard()
	repo := &stubBillRepo{}
	return NewBillService(repo, guard, testLogger()), repo
}

func TestBillService_Create_GeneratesIdentifier(t *testing.T) {
	svc, repo := newBillFixture()

	bill := &domain.Bill{
		ClientID:   "c1",
		Identifier: "CALLER-SUPPLIED",
		Products: map[string][]domain.LineItem{
			"p1": {{Amount: 3, Price: 100}},
		},
	}
	if err := svc.Create(context.Background(), "basic-key", bill); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if bill.Identifier == "CALLER-SUPPLIED" {
		t.Fatalf("caller-supplied identifier was not overwritten")
	}
	if !strings.HasPrefix(bill.Identifier, "BOL-") {
		t.Fatalf("unexpected identifier format: %q", bill.Identifier)
	}
	if bill.Identifier != strings.ToUpper(bill.Identifier) {
		t.Fatalf("identifier not uppercase: %q", bill.Identifier)
	}
	if bill.ID == "" || bill.Date.IsZero() {
		t.Fatalf("id/date not defaulted: %+v", bill)
	}
	if len(repo.bills) != 1 {
		t.Fatalf("bill not stored")
	}
}

func TestBillService_Create_Validation(t *testing.T) {
	svc, _ := newBillFixture()

	noClient := &domain.Bill{Products: map[string][]domain.LineItem{"p1": {{Amount: 1, Price: 1}}}}
	if err := svc.Create(context.Background(), "basic-key", noClient); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for missing client, got %v", err)
	}

	noLines := &domain.Bill{ClientID: "c1"}
	if err := svc.Create(context.Background(), "basic-key", noLines); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for empty products, got %v", err)
	}
}

func TestBillService_TierGates(t *testing.T) {
	svc, repo := newBillFixture()
	repo.bills = []domain.Bill{{ID: "b1", ClientID: "c1"}}

	// update needs advanced
	if err := svc.Update(context.Background(), "basic-key", &domain.Bill{ID: "b1"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("basic update: expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Update(context.Background(), "advanced-key", &domain.Bill{ID: "b1", ClientID: "c1"}); err != nil {
		t.Fatalf("advanced update failed: %v", err)
	}

	// delete needs administrator
	if err := svc.Delete(context.Background(), "advanced-key", "b1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("advanced delete: expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Delete(context.Background(), "admin-key", "b1"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(repo.bills) != 0 {
		t.Fatalf("bill not deleted")
	}

	// deleting again is a no-op, not an error
	if err := svc.Delete(context.Background(), "admin-key", "b1"); err != nil {
		t.Fatalf("second delete: expected no-op, got %v", err)
	}
}

func TestBillService_UpdateMissingIDIsNoop(t *testing.T) {
	svc, repo := newBillFixture()

	if err := svc.Update(context.Background(), "advanced-key", &domain.Bill{ID: "ghost"}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(repo.bills) != 0 {
		t.Fatalf("no-op update inserted a record")
	}
}

func TestBillService_Search(t *testing.T) {
	svc, repo := newBillFixture()
	repo.bills = []domain.Bill{
		{ID: "b1", ClientID: "c1", Identifier: "BOL-1-XABCY"},
		{ID: "b2", ClientID: "c2", Identifier: "BOL-2-ZZZZZ"},
	}

	// case-insensitive substring
	found, err := svc.Search(context.Background(), "basic-key", "abc")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "b1" {
		t.Fatalf("unexpected result: %+v", found)
	}

	// empty query is a caller error, never match-all
	if _, err := svc.Search(context.Background(), "basic-key", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestBillService_DateRange(t *testing.T) {
	svc, repo := newBillFixture()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	repo.bills = []domain.Bill{
		{ID: "on-start", Date: start},
		{ID: "inside", Date: start.AddDate(0, 0, 10)},
		{ID: "on-end", Date: end},
		{ID: "outside", Date: end.AddDate(0, 0, 1)},
	}

	bills, err := svc.ListByDateRange(context.Background(), "basic-key", start, end)
	if err != nil {
		t.Fatalf("range failed: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected inclusive bounds (3 bills), got %d", len(bills))
	}

	// both bounds mandatory
	if _, err := svc.ListByDateRange(context.Background(), "basic-key", time.Time{}, end); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for missing start, got %v", err)
	}
	if _, err := svc.ListByDateRange(context.Background(), "basic-key", start, time.Time{}); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for missing end, got %v", err)
	}
}

func TestBillService_UnauthorizedHasNoSideEffects(t *testing.T) {
	svc, repo := newBillFixture()

	bill := &domain.Bill{ClientID: "c1", Products: map[string][]domain.LineItem{"p1": {{Amount: 1, Price: 1}}}}
	if err := svc.Create(context.Background(), "stale-key", bill); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(repo.bills) != 0 {
		t.Fatalf("rejected create still stored a bill")
	}
	if bill.Identifier != "" {
		t.Fatalf("rejected create still assigned an identifier")
	}
}

func TestBillService_UpdateKeepsStoredIdentifierAndDate(t *testing.T) {
	svc, repo := newBillFixture()

	bill := &domain.Bill{
		ClientID: "c1",
		Products: map[string][]domain.LineItem{"p1": {{Amount: 3, Price: 100}}},
	}
	if err := svc.Create(context.Background(), "basic-key", bill); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	issued := bill.Identifier
	issuedDate := bill.Date

	// The wire schema has no identifier field and may omit the date, so a
	// replacement arrives with both zeroed.
	replacement := &domain.Bill{
		ID:       bill.ID,
		ClientID: "c1",
		Products: map[string][]domain.LineItem{"p1": {{Amount: 5, Price: 100}}},
	}
	if err := svc.Update(context.Background(), "advanced-key", replacement); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored := repo.bills[0]
	if stored.Identifier != issued {
		t.Fatalf("identifier lost on update: got %q, want %q", stored.Identifier, issued)
	}
	if !stored.Date.Equal(issuedDate) {
		t.Fatalf("date lost on update: got %v, want %v", stored.Date, issuedDate)
	}
	if stored.Products["p1"][0].Amount != 5 {
		t.Fatalf("replacement lines not stored: %+v", stored.Products)
	}

	// The issued identifier still resolves through search.
	found, err := svc.Search(context.Background(), "basic-key", strings.ToLower(issued))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != bill.ID {
		t.Fatalf("updated bill lost from identifier search: %+v", found)
	}
}

func TestBillService_UpdateHonorsExplicitDate(t *testing.T) {
	svc, repo := newBillFixture()

	bill := &domain.Bill{
		ClientID: "c1",
		Products: map[string][]domain.LineItem{"p1": {{Amount: 1, Price: 10}}},
	}
	if err := svc.Create(context.Background(), "basic-key", bill); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newDate := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	replacement := &domain.Bill{
		ID:       bill.ID,
		ClientID: "c1",
		Date:     newDate,
		Products: bill.Products,
	}
	if err := svc.Update(context.Background(), "advanced-key", replacement); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !repo.bills[0].Date.Equal(newDate) {
		t.Fatalf("explicit date overridden: %v", repo.bills[0].Date)
	}
	if repo.bills[0].Identifier != bill.Identifier {
		t.Fatalf("identifier lost: %q", repo.bills[0].Identifier)
	}
}

func TestBillService_FailedUpdateNotCounted(t *testing.T) {
	guard, _ := testGuard()
	repo := &stubBillRepo{updateErr: errors.New("backend unavailable")}
	svc := NewBillService(repo, guard, testLogger())

	counter := metrics.EntityWritesTotal.WithLabelValues("bill", "update")
	before := testutil.ToFloat64(counter)

	bill := &domain.Bill{
		ID:       "b1",
		ClientID: "c1",
		Products: map[string][]domain.LineItem{"p1": {{Amount: 1, Price: 10}}},
	}
	if err := svc.Update(context.Background(), "advanced-key", bill); err == nil {
		t.Fatal("expected update to fail")
	}

	if after := testutil.ToFloat64(counter); after != before {
		t.Fatalf("failed update counted as a write: before=%v after=%v", before, after)
	}
}
