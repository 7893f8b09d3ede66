package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/db"
)

// AccessCodeNotFoundError is returned when an access code is unknown
var AccessCodeNotFoundError = errors.New("access code not found")

// AccessCodeRepository is a postgres repository for shareable access codes
type AccessCodeRepository struct {
	conn *db.Storage
}

// NewAccessCodes creates a new AccessCodeRepository
func NewAccessCodes(conn *db.Storage) *AccessCodeRepository {
	return &AccessCodeRepository{conn: conn}
}

// Save stores an access code and its credential links in one transaction
func (r *AccessCodeRepository) Save(ctx context.Context, code *domain.AccessCode) error {
	return r.conn.Pgx.BeginFunc(ctx, func(tx pgx.Tx) error {
		sql := `INSERT INTO access_codes (code, owner_id, active)
				VALUES($1, $2, $3) ON CONFLICT (code) DO
				UPDATE SET active=$3`
		if _, err := tx.Exec(ctx, sql, code.Code, code.OwnerID, code.Active); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM access_code_credentials WHERE code = $1`, code.Code); err != nil {
			return err
		}
		for _, credentialID := range code.CredentialIDs {
			sql := `INSERT INTO access_code_credentials (code, credential_id) VALUES($1, $2)`
			if _, err := tx.Exec(ctx, sql, code.Code, credentialID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByCode returns an access code with its linked credential ids
func (r *AccessCodeRepository) GetByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	sql := `SELECT code, owner_id, active, created_at
			FROM access_codes
			WHERE code = $1`

	var accessCode domain.AccessCode
	err := r.conn.Pgx.QueryRow(ctx, sql, code).Scan(&accessCode.Code, &accessCode.OwnerID, &accessCode.Active, &accessCode.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, AccessCodeNotFoundError
		}
		return nil, err
	}

	rows, err := r.conn.Pgx.Query(ctx, `SELECT credential_id FROM access_code_credentials WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var credentialID uuid.UUID
		if err := rows.Scan(&credentialID); err != nil {
			return nil, err
		}
		accessCode.CredentialIDs = append(accessCode.CredentialIDs, credentialID)
	}
	return &accessCode, rows.Err()
}

// Deactivate revokes an access code without touching the records it points to
func (r *AccessCodeRepository) Deactivate(ctx context.Context, ownerID, code string) error {
	tag, err := r.conn.Pgx.Exec(ctx, `UPDATE access_codes SET active = false WHERE code = $1 AND owner_id = $2`, code, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return AccessCodeNotFoundError
	}
	return nil
}

// Delete removes an access code and its links. Credential records are never
// deleted through this path.
func (r *AccessCodeRepository) Delete(ctx context.Context, ownerID, code string) error {
	tag, err := r.conn.Pgx.Exec(ctx, `DELETE FROM access_codes WHERE code = $1 AND owner_id = $2`, code, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return AccessCodeNotFoundError
	}
	return nil
}
