package referrals

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/cyphera/wallet-rpc/internal/db"
)

// PostgresStore persists decisions in the referral_consents table.
type PostgresStore struct {
	conn db.DBTX
}

func NewPostgresStore(conn db.DBTX) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (s *PostgresStore) Get(ctx context.Context, address string) (Status, error) {
	var raw string
	err := s.conn.QueryRow(ctx,
		`SELECT status FROM referral_consents WHERE address = $1`, address).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatusNone, nil
	}
	if err != nil {
		return StatusNone, errors.Wrap(err, "failed to get referral status")
	}
	return ParseStatus(raw)
}

func (s *PostgresStore) Put(ctx context.Context, address string, status Status) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO referral_consents (address, status, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (address) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`,
		address, string(status))
	return errors.Wrap(err, "failed to put referral status")
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.Query(ctx, `SELECT address, status FROM referral_consents ORDER BY address`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list referral statuses")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var addr, raw string
		if err := rows.Scan(&addr, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan referral status")
		}
		out = append(out, Entry{Address: addr, Status: Status(raw)})
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate referral statuses")
}
