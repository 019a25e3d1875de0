package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tmgen/internal/ir"
)

// WriteCompilation archives a compilation and its rows.
// Returns the stored ID and whether a new record was inserted.
//
// Uses ON CONFLICT(program_hash, table_hash) DO NOTHING for idempotency:
// archiving the same table for the same program twice returns the existing
// ID and inserted=false. An empty c.ID is filled from the store's
// IDGenerator. Seq is always assigned by the store.
func (s *Store) WriteCompilation(ctx context.Context, c ir.Compilation) (id string, inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write compilation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := lookupByHashes(ctx, tx, c.ProgramHash, c.TableHash)
	if err != nil {
		return "", false, fmt.Errorf("write compilation: %w", err)
	}
	if existing != "" {
		return existing, false, nil
	}

	if c.ID == "" {
		c.ID = s.ids.Generate()
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("write compilation: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO compilations
		(id, seq, program_name, program_hash, table_hash, alphabet, state_count, generator_version, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(program_hash, table_hash) DO NOTHING
	`,
		c.ID,
		seq,
		c.ProgramName,
		c.ProgramHash,
		c.TableHash,
		c.Alphabet,
		int64(c.StateCount),
		c.GeneratorVersion,
		c.Source,
	)
	if err != nil {
		return "", false, fmt.Errorf("write compilation: insert: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return "", false, fmt.Errorf("write compilation: rows affected: %w", err)
	} else if n == 0 {
		return "", false, fmt.Errorf("write compilation: insert of %s ignored", c.ID)
	}

	if err := writeRows(ctx, tx, c.ID, c.Rows); err != nil {
		return "", false, fmt.Errorf("write compilation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write compilation: commit: %w", err)
	}
	return c.ID, true, nil
}

func lookupByHashes(ctx context.Context, tx *sql.Tx, programHash, tableHash string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM compilations
		WHERE program_hash = ? AND table_hash = ?
	`, programHash, tableHash).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup existing: %w", err)
	}
	return id, nil
}

func writeRows(ctx context.Context, tx *sql.Tx, id string, rows []ir.Row) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO compilation_rows
		(compilation_id, idx, state, read, next, write, move)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			id,
			i,
			int64(r.Current),
			r.Read.String(),
			int64(r.Next),
			r.Write.String(),
			r.Direction.Arrow(),
		); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}
