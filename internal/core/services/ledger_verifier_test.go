package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certiblock/verifier-node/internal/common"
	"github.com/certiblock/verifier-node/internal/core/domain"
)

func TestLedgerVerify(t *testing.T) {
	ctx := context.Background()
	blob := []byte("original diploma pdf")
	sum := sha256.Sum256(blob)
	digest := hex.EncodeToString(sum[:])
	issuedAt := time.Date(2023, 6, 12, 9, 30, 0, 0, time.UTC)

	record := domain.CredentialRecord{
		ID:             uuid.New(),
		SubjectID:      "subject-001",
		IssuerIdentity: "did:cb:university",
		ContentID:      "QmDiploma",
		LedgerID:       common.ToPointer[int64](42),
		IssuedAt:       issuedAt,
		Status:         domain.CredentialStatusActive,
	}
	entry := domain.LedgerEntry{
		ContentDigest:  digest,
		IssuerIdentity: "did:cb:university",
		SubjectID:      "subject-001",
		CreatedAt:      issuedAt.Add(5 * time.Hour),
	}

	type testConfig struct {
		name          string
		record        domain.CredentialRecord
		entry         domain.LedgerEntry
		missing       bool
		fetchErr      error
		directory     map[string][]string
		expectAccept  bool
		expectReasons []string
	}
	for _, tc := range []testConfig{
		{
			name:         "all fields match",
			record:       record,
			entry:        entry,
			expectAccept: true,
		},
		{
			name:   "uppercase 0x prefixed ledger digest still matches",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.ContentDigest = "0x" + strings.ToUpper(digest)
				return e
			}(),
			expectAccept: true,
		},
		{
			name:          "entry missing from the ledger",
			record:        record,
			missing:       true,
			expectAccept:  false,
			expectReasons: []string{domain.ReasonLedgerRecordNotFound},
		},
		{
			name:   "issuer identity mismatch",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.IssuerIdentity = "did:cb:impostor"
				return e
			}(),
			expectAccept:  false,
			expectReasons: []string{domain.ReasonIssuerMismatch},
		},
		{
			name:   "rotated issuer identity resolved through the directory",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.IssuerIdentity = "did:cb:university-2019"
				return e
			}(),
			directory:    map[string][]string{"did:cb:university": {"did:cb:university-2019"}},
			expectAccept: true,
		},
		{
			name:   "subject identifier mismatch",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.SubjectID = "subject-999"
				return e
			}(),
			expectAccept:  false,
			expectReasons: []string{domain.ReasonSubjectMismatch},
		},
		{
			name:   "content digest mismatch",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.ContentDigest = strings.Repeat("ab", 32)
				return e
			}(),
			expectAccept:  false,
			expectReasons: []string{domain.ReasonContentDigestMismatch},
		},
		{
			name:   "issue date on a different day",
			record: record,
			entry: func() domain.LedgerEntry {
				e := entry
				e.CreatedAt = issuedAt.AddDate(0, 0, 3)
				return e
			}(),
			expectAccept:  false,
			expectReasons: []string{domain.ReasonIssueDateMismatch},
		},
		{
			name:          "unreachable content store downgrades digest to unknown",
			record:        record,
			entry:         entry,
			fetchErr:      errors.New("ipfs gateway down"),
			expectAccept:  false,
			expectReasons: []string{domain.ReasonContentDigestUnknown},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &fakeLedger{entries: map[int64]*domain.LedgerEntry{}}
			if !tc.missing {
				entry := tc.entry
				ledger.entries[*tc.record.LedgerID] = &entry
			}
			store := &fakeContentStore{blobs: map[string][]byte{"QmDiploma": blob}, err: tc.fetchErr}
			service := NewLedgerVerify(ledger, NewContentIntegrity(store), &fakeDirectory{identities: tc.directory})

			check, err := service.Verify(ctx, &tc.record)
			require.NoError(t, err)

			assert.False(t, check.Skipped)
			assert.Equal(t, tc.expectAccept, check.Accepted(false))
			assert.Equal(t, tc.expectReasons, check.Reasons(false))
		})
	}
}

func TestLedgerVerifyLegacyRecord(t *testing.T) {
	ctx := context.Background()
	record := domain.CredentialRecord{
		ID:             uuid.New(),
		SubjectID:      "subject-001",
		IssuerIdentity: "did:cb:university",
		ContentID:      "QmDiploma",
		IssuedAt:       time.Now().UTC(),
		Status:         domain.CredentialStatusActive,
	}
	service := NewLedgerVerify(&fakeLedger{}, NewContentIntegrity(&fakeContentStore{}), &fakeDirectory{})

	check, err := service.Verify(ctx, &record)
	require.NoError(t, err)
	require.True(t, check.Skipped)

	assert.True(t, check.Accepted(false))
	assert.Nil(t, check.Reasons(false))

	assert.False(t, check.Accepted(true))
	assert.Equal(t, []string{domain.ReasonLedgerIDMissing}, check.Reasons(true))
}

func TestLedgerVerifyDayGranularity(t *testing.T) {
	// 23:30 UTC and 01:15 UTC next day are different calendar days even
	// though they are less than two hours apart
	a := time.Date(2023, 6, 12, 23, 30, 0, 0, time.UTC)
	b := time.Date(2023, 6, 13, 1, 15, 0, 0, time.UTC)
	assert.False(t, sameUTCDay(a, b))

	// same UTC day expressed in different zones
	c := time.Date(2023, 6, 12, 20, 0, 0, 0, time.FixedZone("UTC-4", -4*3600))
	assert.True(t, sameUTCDay(a, c))
}
