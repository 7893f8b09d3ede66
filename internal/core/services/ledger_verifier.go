package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/pkg/blockchain/eth"
)

// LedgerVerify checks a credential record against its ledger entry field by
// field. Each check is a pure function of the record and the ledger snapshot;
// ledger reads are authoritative and never retried.
type LedgerVerify struct {
	ledger    ports.LedgerReader
	integrity ports.ContentIntegrityChecker
	directory ports.DirectoryGateway
}

// NewLedgerVerify creates a new instance of LedgerVerify. directory may be
// nil; it is only consulted when the record's own identity set does not
// contain the ledger issuer.
func NewLedgerVerify(ledger ports.LedgerReader, integrity ports.ContentIntegrityChecker, directory ports.DirectoryGateway) *LedgerVerify {
	return &LedgerVerify{ledger: ledger, integrity: integrity, directory: directory}
}

// Verify fetches the ledger entry referenced by the record and compares the
// four anchored fields. A record without a ledger id skips the stage and is
// marked unverifiable-by-ledger, which is not a failure.
func (s *LedgerVerify) Verify(ctx context.Context, record *domain.CredentialRecord) (domain.LedgerCheck, error) {
	if !record.HasLedgerEntry() {
		return domain.LedgerCheck{Skipped: true}, nil
	}

	exists, err := s.ledger.EntryExists(ctx, *record.LedgerID)
	if err != nil {
		return domain.LedgerCheck{}, fmt.Errorf("ledger existence check: %w", err)
	}
	if !exists {
		return domain.LedgerCheck{Exists: false}, nil
	}

	entry, err := s.ledger.GetEntry(ctx, *record.LedgerID)
	if err != nil {
		if errors.Is(err, eth.ErrEntryNotFound) {
			return domain.LedgerCheck{Exists: false}, nil
		}
		return domain.LedgerCheck{}, fmt.Errorf("ledger entry fetch: %w", err)
	}

	check := domain.LedgerCheck{Exists: true}
	check.IssuerMatch = s.issuerMatch(ctx, record, entry.IssuerIdentity)
	check.SubjectMatch = strings.TrimSpace(entry.SubjectID) == strings.TrimSpace(record.SubjectID)
	check.DateMatch = sameUTCDay(record.IssuedAt, entry.CreatedAt)

	digest, err := s.integrity.Digest(ctx, record.ContentID)
	switch {
	case err == nil:
		if digestsEqual(digest, entry.ContentDigest) {
			check.ContentHashMatch = domain.MatchYes
		} else {
			check.ContentHashMatch = domain.MatchNo
		}
	case errors.Is(err, ErrContentFetch):
		log.Warn(ctx, "content digest unverifiable", "err", err, "credential", record.ID)
		check.ContentHashMatch = domain.MatchUnknown
	default:
		return domain.LedgerCheck{}, err
	}

	return check, nil
}

// issuerMatch accepts any identity the institution has ever used on the
// ledger, not only the current one. The record's stored set is tried first
// and the directory service fills the gap for records saved before an
// identity rotation.
func (s *LedgerVerify) issuerMatch(ctx context.Context, record *domain.CredentialRecord, ledgerIssuer string) bool {
	if record.KnownIdentity(ledgerIssuer) {
		return true
	}
	if s.directory == nil {
		return false
	}

	identities, err := s.directory.IdentitySet(ctx, record.IssuerIdentity)
	if err != nil {
		log.Warn(ctx, "directory identity set lookup failed", "err", err, "issuer", record.IssuerIdentity)
		return false
	}
	for _, identity := range identities {
		if strings.EqualFold(identity, ledgerIssuer) {
			return true
		}
	}
	return false
}

// digestsEqual compares hex digests case-insensitively, tolerating a 0x
// prefix on either side.
func digestsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "0x"), strings.TrimPrefix(b, "0x"))
}

// sameUTCDay compares the UTC calendar day of both timestamps. Day
// granularity tolerates clock skew between the issuing backend and the
// ledger, but not multi-day drift.
func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
