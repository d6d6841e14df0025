package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bindEnhance/internal/model"
	"bindEnhance/internal/registry"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS abi_signatures (
		contract TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		signature TEXT NOT NULL,
		selector TEXT NOT NULL,
		source_file TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (contract, kind, signature)
	)`,
	`CREATE INDEX IF NOT EXISTS abi_signatures_selector_idx ON abi_signatures (selector)`,
}

// Store provides Postgres persistence for registry entries.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the abi_signatures table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create abi_signatures: %w", err)
		}
	}
	return nil
}

// PutEntries inserts or updates registry entries.
func (s *Store) PutEntries(ctx context.Context, entries []model.SignatureEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`
			INSERT INTO abi_signatures (
				contract, kind, name, signature, selector, source_file, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (contract, kind, signature)
			DO UPDATE SET
				name = EXCLUDED.name,
				selector = EXCLUDED.selector,
				source_file = EXCLUDED.source_file,
				updated_at = now()
		`,
			entry.Contract,
			entry.Kind,
			entry.Name,
			entry.Signature,
			registry.NormalizeSelector(entry.Selector),
			entry.SourceFile,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the entries registered under selector.
func (s *Store) Lookup(ctx context.Context, selector string) ([]model.SignatureEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT contract, kind, name, signature, selector, source_file
		FROM abi_signatures
		WHERE selector = $1
		ORDER BY contract, kind, signature
	`, registry.NormalizeSelector(selector))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SignatureEntry, error) {
		var entry model.SignatureEntry
		err := row.Scan(&entry.Contract, &entry.Kind, &entry.Name, &entry.Signature, &entry.Selector, &entry.SourceFile)
		return entry, err
	})
}
