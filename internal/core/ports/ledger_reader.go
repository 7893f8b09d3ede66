package ports

import (
	"context"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// LedgerReader reads credential entries from the append-only ledger. Reads
// are authoritative and idempotent, so they are never retried. The existence
// check is distinguishable from the field fetch.
type LedgerReader interface {
	EntryExists(ctx context.Context, ledgerID int64) (bool, error)
	GetEntry(ctx context.Context, ledgerID int64) (*domain.LedgerEntry, error)
}
