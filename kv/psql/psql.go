// Package psql implements a kv.Store backed by a PostgreSQL database.
package psql

import (
	"context"
	"database/sql"

	"github.com/adlio/schema"
	"github.com/pkg/errors"

	"github.com/tendermint/relaylight/kv"

	// Register the Postgres database driver.
	_ "github.com/lib/pq"
)

const (
	// TableValues holds every (store id, key, value) triple.
	TableValues = "relay_values"
	DriverName  = "postgres"
)

// Migrations is the schema history of the backend, applied in order by
// Migrate.
var Migrations = []*schema.Migration{
	{
		ID: "2022-05-01 create relay_values",
		Script: `
CREATE TABLE relay_values (
  store_id   TEXT NOT NULL,
  key        TEXT NOT NULL,
  value      BYTEA NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (store_id, key)
);`,
	},
}

// Store is a kv.Store over a PostgreSQL connection. Compare-and-swap is a
// single conditional statement, so it is safe across processes.
type Store struct {
	db *sql.DB
}

var _ kv.Store = (*Store)(nil)

// Open connects to the database at connStr. It does not apply migrations;
// see Migrate.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open(DriverName, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	return New(db), nil
}

// New wraps an existing connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection. This is exported to support testing.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate brings the database schema up to date.
func (s *Store) Migrate() error {
	return errors.Wrap(schema.NewMigrator().Apply(s.db, Migrations), "applying migrations")
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, storeID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+TableValues+` WHERE store_id = $1 AND key = $2;`,
		storeID, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s/%s", storeID, key)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set implements kv.Store.
func (s *Store) Set(ctx context.Context, storeID, key string, value []byte) error {
	if value == nil {
		return kv.ErrNilValue
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+TableValues+` (store_id, key, value) VALUES ($1, $2, $3)
  ON CONFLICT (store_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();`,
		storeID, key, value)
	return errors.Wrapf(err, "writing %s/%s", storeID, key)
}

// CompareAndSwap implements kv.Store.
func (s *Store) CompareAndSwap(ctx context.Context, storeID, key string, old, value []byte) (bool, error) {
	if value == nil {
		return false, kv.ErrNilValue
	}

	var (
		res sql.Result
		err error
	)
	if old == nil {
		res, err = s.db.ExecContext(ctx, `
INSERT INTO `+TableValues+` (store_id, key, value) VALUES ($1, $2, $3)
  ON CONFLICT (store_id, key) DO NOTHING;`,
			storeID, key, value)
	} else {
		res, err = s.db.ExecContext(ctx, `
UPDATE `+TableValues+` SET value = $4, updated_at = now()
  WHERE store_id = $1 AND key = $2 AND value = $3;`,
			storeID, key, old, value)
	}
	if err != nil {
		return false, errors.Wrapf(err, "swapping %s/%s", storeID, key)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading affected rows")
	}
	return n == 1, nil
}

// Keys implements kv.Store.
func (s *Store) Keys(ctx context.Context, storeID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM `+TableValues+` WHERE store_id = $1 ORDER BY key;`, storeID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", storeID)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrapf(err, "listing %s", storeID)
		}
		keys = append(keys, key)
	}
	return keys, errors.Wrapf(rows.Err(), "listing %s", storeID)
}

// Close implements kv.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
