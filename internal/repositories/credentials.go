package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/db"
)

// CredentialNotFoundError is returned when a credential record is not found
var CredentialNotFoundError = errors.New("credential not found")

// CredentialRepository is a postgres repository for credential records
type CredentialRepository struct {
	conn *db.Storage
}

// NewCredentials creates a new CredentialRepository
func NewCredentials(conn *db.Storage) *CredentialRepository {
	return &CredentialRepository{conn: conn}
}

// Save stores a credential record
func (r *CredentialRepository) Save(ctx context.Context, record *domain.CredentialRecord) (uuid.UUID, error) {
	identitySet, err := json.Marshal(record.InstitutionIdentitySet)
	if err != nil {
		return uuid.Nil, err
	}
	var jsonbSet pgtype.JSONB
	if err := jsonbSet.Set(identitySet); err != nil {
		return uuid.Nil, err
	}

	sql := `INSERT INTO credentials (id, subject_id, issuer_identity, institution_identity_set, content_id, ledger_id, issued_at, status)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO
			UPDATE SET status=$8
			RETURNING id`

	var id uuid.UUID
	if err := r.conn.Pgx.QueryRow(ctx, sql, record.ID, record.SubjectID, record.IssuerIdentity, jsonbSet, record.ContentID, record.LedgerID, record.IssuedAt, record.Status).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// GetByID returns a credential record by id
func (r *CredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CredentialRecord, error) {
	sql := `SELECT id, subject_id, issuer_identity, institution_identity_set, content_id, ledger_id, issued_at, status, created_at
			FROM credentials
			WHERE id = $1`

	record, err := scanCredential(r.conn.Pgx.QueryRow(ctx, sql, id))
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, CredentialNotFoundError
		}
		return nil, err
	}
	return record, nil
}

// GetByIDs returns the credential records for the given ids, skipping unknown
// ones.
func (r *CredentialRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.CredentialRecord, error) {
	textIDs := make([]string, len(ids))
	for i, id := range ids {
		textIDs[i] = id.String()
	}

	sql := `SELECT id, subject_id, issuer_identity, institution_identity_set, content_id, ledger_id, issued_at, status, created_at
			FROM credentials
			WHERE id = ANY($1::uuid[])`

	rows, err := r.conn.Pgx.Query(ctx, sql, textIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CredentialRecord
	for rows.Next() {
		record, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// GetBySubjectID returns every credential record issued to the subject
func (r *CredentialRepository) GetBySubjectID(ctx context.Context, subjectID string) ([]domain.CredentialRecord, error) {
	sql := `SELECT id, subject_id, issuer_identity, institution_identity_set, content_id, ledger_id, issued_at, status, created_at
			FROM credentials
			WHERE subject_id = $1
			ORDER BY issued_at DESC`

	rows, err := r.conn.Pgx.Query(ctx, sql, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CredentialRecord
	for rows.Next() {
		record, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

type row interface {
	Scan(dest ...interface{}) error
}

func scanCredential(r row) (*domain.CredentialRecord, error) {
	var (
		record   domain.CredentialRecord
		jsonbSet pgtype.JSONB
		ledgerID sql.NullInt64
	)
	if err := r.Scan(&record.ID, &record.SubjectID, &record.IssuerIdentity, &jsonbSet, &record.ContentID, &ledgerID, &record.IssuedAt, &record.Status, &record.CreatedAt); err != nil {
		return nil, err
	}
	if ledgerID.Valid {
		record.LedgerID = &ledgerID.Int64
	}
	if jsonbSet.Status == pgtype.Present {
		if err := json.Unmarshal(jsonbSet.Bytes, &record.InstitutionIdentitySet); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
