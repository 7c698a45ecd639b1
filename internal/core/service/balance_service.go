package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/recibos/billing-system/internal/api/metrics"
	"github.com/recibos/billing-system/internal/core/ports"
)

// BalanceService derives client balances and monthly aggregates from bills
// and deposits. It only reads; a failure on either collection aborts the
// whole computation with no partial result.
type BalanceService struct {
	bills    ports.BillRepository
	deposits ports.DepositRepository
	guard    *Guard
	log      zerolog.Logger
}

func NewBalanceService(bills ports.BillRepository, deposits ports.DepositRepository, guard *Guard, log zerolog.Logger) *BalanceService {
	return &BalanceService{bills: bills, deposits: deposits, guard: guard, log: log}
}

// ClientBalance returns the client's outstanding balance: the sum of every
// bill line (amount×price, using the price snapshotted on the line) minus the
// sum of deposit amounts. Accumulation is plain float64 with no rounding;
// display formatting is the caller's problem.
func (s *BalanceService) ClientBalance(ctx context.Context, key, clientID string) (float64, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.Balance, "balance"); err != nil {
		return 0, err
	}

	timer := prometheus.NewTimer(metrics.BalanceComputationDuration)
	defer timer.ObserveDuration()

	bills, err := s.bills.ListByClientID(ctx, clientID)
	if err != nil {
		return 0, err
	}
	deposits, err := s.deposits.ListByClientID(ctx, clientID)
	if err != nil {
		return 0, err
	}

	var totalBills float64
	for i := range bills {
		totalBills += bills[i].Total()
	}
	var totalDeposits float64
	for i := range deposits {
		totalDeposits += deposits[i].Amount
	}

	metrics.BalanceComputationsTotal.Inc()
	return totalBills - totalDeposits, nil
}

// MonthlyReport groups all bills and deposits by UTC calendar month.
// Months with no activity are omitted; the result is sorted chronologically.
func (s *BalanceService) MonthlyReport(ctx context.Context, key string) ([]ports.PeriodAggregate, error) {
	if _, err := s.guard.require(ctx, key, s.guard.policy.Balance, "balance"); err != nil {
		return nil, err
	}

	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.List(ctx)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sales    float64
		deposits float64
	}
	byMonth := make(map[time.Time]*bucket)
	monthOf := func(t time.Time) time.Time {
		u := t.UTC()
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	get := func(m time.Time) *bucket {
		b, ok := byMonth[m]
		if !ok {
			b = &bucket{}
			byMonth[m] = b
		}
		return b
	}

	for i := range bills {
		get(monthOf(bills[i].Date)).sales += bills[i].Total()
	}
	for i := range deposits {
		get(monthOf(deposits[i].Date)).deposits += deposits[i].Amount
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	report := make([]ports.PeriodAggregate, 0, len(months))
	for _, m := range months {
		b := byMonth[m]
		report = append(report, ports.PeriodAggregate{
			Period:        fmt.Sprintf("%d/%d", int(m.Month()), m.Year()),
			SalesTotal:    b.sales,
			DepositsTotal: b.deposits,
		})
	}
	return report, nil
}
