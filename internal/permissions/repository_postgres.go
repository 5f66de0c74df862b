package permissions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/cyphera/wallet-rpc/internal/db"
)

// PostgresRepository stores permissions in PostgreSQL.
type PostgresRepository struct {
	conn db.DBTX
}

func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) GetPermission(ctx context.Context, origin string) (*Caip25Permission, error) {
	var raw []byte
	err := r.conn.QueryRow(ctx,
		`SELECT permission FROM origin_permissions WHERE origin = $1`, origin).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get permission")
	}

	var perm Caip25Permission
	if err := json.Unmarshal(raw, &perm); err != nil {
		return nil, errors.Wrap(err, "failed to decode permission")
	}
	return &perm, nil
}

func (r *PostgresRepository) SavePermission(ctx context.Context, origin string, perm *Caip25Permission) error {
	raw, err := json.Marshal(perm)
	if err != nil {
		return errors.Wrap(err, "failed to encode permission")
	}
	_, err = r.conn.Exec(ctx, `
		INSERT INTO origin_permissions (origin, permission, issued_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (origin) DO UPDATE SET permission = EXCLUDED.permission, issued_at = NOW()`,
		origin, raw)
	return errors.Wrap(err, "failed to save permission")
}

func (r *PostgresRepository) GetLegacyGrant(ctx context.Context, origin string) (*LegacyGrant, error) {
	var grant LegacyGrant
	err := r.conn.QueryRow(ctx,
		`SELECT accounts, chain_ids FROM legacy_permissions WHERE origin = $1`, origin).
		Scan(&grant.Accounts, &grant.ChainIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get legacy grant")
	}
	return &grant, nil
}

func (r *PostgresRepository) RecordHistory(ctx context.Context, origin string, accounts []string, at time.Time) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO permission_history (origin, accounts, last_granted)
		VALUES ($1, $2, $3)
		ON CONFLICT (origin) DO UPDATE SET accounts = EXCLUDED.accounts, last_granted = EXCLUDED.last_granted`,
		origin, accounts, at)
	return errors.Wrap(err, "failed to record permission history")
}

func (r *PostgresRepository) PermissionHistory(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.conn.Query(ctx, `SELECT origin, last_granted FROM permission_history`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read permission history")
	}
	defer rows.Close()

	history := map[string]time.Time{}
	for rows.Next() {
		var (
			origin string
			at     time.Time
		)
		if err := rows.Scan(&origin, &at); err != nil {
			return nil, errors.Wrap(err, "failed to scan permission history")
		}
		history[origin] = at
	}
	return history, errors.Wrap(rows.Err(), "failed to iterate permission history")
}
