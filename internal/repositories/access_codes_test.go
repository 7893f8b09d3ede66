package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

func saveTestCredentials(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	repo := NewCredentials(storage)

	ids := make([]uuid.UUID, n)
	for i := range ids {
		record := newTestRecord("subject-code-"+uuid.NewString(), nil)
		id, err := repo.Save(ctx, record)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestAccessCodeSaveAndGet(t *testing.T) {
	conn := requireStorage(t)
	ctx := context.Background()
	repo := NewAccessCodes(conn)
	credentialIDs := saveTestCredentials(t, 2)

	code := &domain.AccessCode{
		Code:          "AB12CD",
		OwnerID:       "owner-001",
		Active:        true,
		CredentialIDs: credentialIDs,
	}
	require.NoError(t, repo.Save(ctx, code))

	got, err := repo.GetByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "owner-001", got.OwnerID)
	assert.True(t, got.Active)
	assert.ElementsMatch(t, credentialIDs, got.CredentialIDs)
	assert.True(t, got.IsBundle())
}

func TestAccessCodeSaveReplacesLinks(t *testing.T) {
	conn := requireStorage(t)
	ctx := context.Background()
	repo := NewAccessCodes(conn)
	credentialIDs := saveTestCredentials(t, 3)

	code := &domain.AccessCode{Code: "RELINK", OwnerID: "owner-001", Active: true, CredentialIDs: credentialIDs[:2]}
	require.NoError(t, repo.Save(ctx, code))

	code.CredentialIDs = credentialIDs[2:]
	require.NoError(t, repo.Save(ctx, code))

	got, err := repo.GetByCode(ctx, "RELINK")
	require.NoError(t, err)
	assert.ElementsMatch(t, credentialIDs[2:], got.CredentialIDs)
}

func TestAccessCodeGetUnknown(t *testing.T) {
	conn := requireStorage(t)
	repo := NewAccessCodes(conn)

	_, err := repo.GetByCode(context.Background(), "NOPE42")
	require.ErrorIs(t, err, AccessCodeNotFoundError)
}

func TestAccessCodeDeactivate(t *testing.T) {
	conn := requireStorage(t)
	ctx := context.Background()
	repo := NewAccessCodes(conn)
	credentialIDs := saveTestCredentials(t, 1)

	code := &domain.AccessCode{Code: "REVOKE", OwnerID: "owner-001", Active: true, CredentialIDs: credentialIDs}
	require.NoError(t, repo.Save(ctx, code))

	// only the owner can deactivate
	require.ErrorIs(t, repo.Deactivate(ctx, "owner-999", "REVOKE"), AccessCodeNotFoundError)

	require.NoError(t, repo.Deactivate(ctx, "owner-001", "REVOKE"))
	got, err := repo.GetByCode(ctx, "REVOKE")
	require.NoError(t, err)
	assert.False(t, got.Active)

	// the linked credential record is untouched
	record, err := NewCredentials(conn).GetByID(ctx, credentialIDs[0])
	require.NoError(t, err)
	assert.Equal(t, domain.CredentialStatusActive, record.Status)
}

func TestAccessCodeDelete(t *testing.T) {
	conn := requireStorage(t)
	ctx := context.Background()
	repo := NewAccessCodes(conn)
	credentialIDs := saveTestCredentials(t, 1)

	code := &domain.AccessCode{Code: "DELETE", OwnerID: "owner-001", Active: true, CredentialIDs: credentialIDs}
	require.NoError(t, repo.Save(ctx, code))

	require.ErrorIs(t, repo.Delete(ctx, "owner-999", "DELETE"), AccessCodeNotFoundError)
	require.NoError(t, repo.Delete(ctx, "owner-001", "DELETE"))

	_, err := repo.GetByCode(ctx, "DELETE")
	require.ErrorIs(t, err, AccessCodeNotFoundError)

	// deleting a code never deletes the credential records behind it
	_, err = NewCredentials(conn).GetByID(ctx, credentialIDs[0])
	require.NoError(t, err)
}
