package metrics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountReader provides tenant-scoped account queries. Implementations
// must filter out inactive accounts in ListActiveAccounts; the
// classifier never sees them.
type AccountReader interface {
	// ListActiveAccounts returns active accounts for the tenant,
	// optionally narrowed to one entity
	ListActiveAccounts(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) ([]Account, error)

	// CountAccountsByStatus returns the active/inactive split using a
	// single grouped count query, not two separate aggregate calls
	CountAccountsByStatus(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (AccountCounts, error)
}

// TransactionReader provides tenant-scoped transaction window queries.
// Implementations must exclude soft-deleted transactions and return rows
// ordered by date ascending for sparkline correctness.
type TransactionReader interface {
	ListTransactionsInWindow(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, window Window) ([]Transaction, error)
}

// AgingStatsReader provides the receivable and payable aggregate stats
// from the invoice/bill collaborators: outstanding is total billed minus
// paid to date, overdue the same filtered to past-due unpaid statuses.
type AgingStatsReader interface {
	ReceivableStats(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (AgingStats, error)
	PayableStats(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID) (AgingStats, error)
}

// CloseChecklistEvaluator evaluates the period-health checklist against
// the ledger. The scorer consumes its output without further I/O.
type CloseChecklistEvaluator interface {
	EvaluateChecklist(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, periodStart, periodEnd time.Time) ([]ChecklistItem, error)
}
