package wallet

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"

	"github.com/cyphera/wallet-rpc/internal/db"
	"github.com/cyphera/wallet-rpc/internal/helpers"
)

// PostgresAccountStore stores accounts in the wallet_accounts table.
type PostgresAccountStore struct {
	conn db.DBTX
}

func NewPostgresAccountStore(conn db.DBTX) *PostgresAccountStore {
	return &PostgresAccountStore{conn: conn}
}

func (s *PostgresAccountStore) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT address, last_selected FROM wallet_accounts ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var (
			address      string
			lastSelected pgtype.Timestamptz
		)
		if err := rows.Scan(&address, &lastSelected); err != nil {
			return nil, errors.Wrap(err, "failed to scan account")
		}
		acct := Account{Address: address}
		if lastSelected.Valid {
			acct.LastSelected = lastSelected.Time
		}
		accounts = append(accounts, acct)
	}
	return accounts, errors.Wrap(rows.Err(), "failed to iterate accounts")
}

func (s *PostgresAccountStore) AddAccount(ctx context.Context, address string) error {
	_, err := s.conn.Exec(ctx,
		`INSERT INTO wallet_accounts (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`,
		helpers.NormalizeAddress(address))
	return errors.Wrap(err, "failed to add account")
}

func (s *PostgresAccountStore) SelectAccount(ctx context.Context, address string, at time.Time) error {
	tag, err := s.conn.Exec(ctx,
		`UPDATE wallet_accounts SET last_selected = $2 WHERE address = $1`,
		helpers.NormalizeAddress(address), at)
	if err != nil {
		return errors.Wrap(err, "failed to select account")
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
