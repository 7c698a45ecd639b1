package ports

import "context"

// PeriodAggregate is one calendar month of activity. Period is "M/YYYY"
// (1-indexed month, UTC). Months with no bills and no deposits are omitted.
type PeriodAggregate struct {
	Period        string  `json:"period"`
	SalesTotal    float64 `json:"sales_total"`
	DepositsTotal float64 `json:"deposits_total"`
}

// BalanceService derives balances and aggregates from bills and deposits.
// Nothing it computes is persisted.
type BalanceService interface {
	// ClientBalance returns Σ(line amount×price) − Σ(deposit amount) for the
	// client. Positive means the client owes money. A client with no bills
	// and no deposits has balance 0.
	ClientBalance(ctx context.Context, key, clientID string) (float64, error)

	// MonthlyReport aggregates all bills and deposits by calendar month,
	// sorted chronologically.
	MonthlyReport(ctx context.Context, key string) ([]PeriodAggregate, error)
}

// Services bundles every core service for transport wiring.
type Services struct {
	Auth     AuthService
	Users    UserService
	Clients  ClientService
	Products ProductService
	Bills    BillService
	Deposits DepositService
	Balance  BalanceService
}
