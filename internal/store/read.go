package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/tmgen/internal/ir"
)

// ErrNotFound is returned when no compilation has the requested id.
var ErrNotFound = errors.New("compilation not found")

const compilationColumns = `
	id, seq, program_name, program_hash, table_hash, alphabet, state_count, generator_version, source
`

// ReadCompilation returns the compilation with the given id, rows included.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) ReadCompilation(ctx context.Context, id string) (ir.Compilation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+compilationColumns+` FROM compilations WHERE id = ?`, id)
	c, err := scanCompilation(row)
	if err == sql.ErrNoRows {
		return ir.Compilation{}, fmt.Errorf("read compilation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}

	c.Rows, err = s.readRows(ctx, id)
	if err != nil {
		return ir.Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	return c, nil
}

// FindByProgramHash returns every archived compilation of a program,
// without rows. Ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if none exist.
func (s *Store) FindByProgramHash(ctx context.Context, programHash string) ([]ir.Compilation, error) {
	return s.queryCompilations(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		WHERE program_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, programHash)
}

// ListCompilations returns every archived compilation, without rows.
// Ordered by seq ASC, id ASC COLLATE BINARY.
func (s *Store) ListCompilations(ctx context.Context) ([]ir.Compilation, error) {
	return s.queryCompilations(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

func (s *Store) queryCompilations(ctx context.Context, query string, args ...any) ([]ir.Compilation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	out := []ir.Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return out, nil
}

func (s *Store) readRows(ctx context.Context, id string) ([]ir.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state, read, next, write, move
		FROM compilation_rows
		WHERE compilation_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := []ir.Row{}
	for rows.Next() {
		var cur, next int64
		var read, write, move string
		if err := rows.Scan(&cur, &read, &next, &write, &move); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r, err := decodeRow(cur, read, next, write, move)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(sc scanner) (ir.Compilation, error) {
	var c ir.Compilation
	var stateCount int64
	if err := sc.Scan(
		&c.ID,
		&c.Seq,
		&c.ProgramName,
		&c.ProgramHash,
		&c.TableHash,
		&c.Alphabet,
		&stateCount,
		&c.GeneratorVersion,
		&c.Source,
	); err != nil {
		return ir.Compilation{}, err
	}
	c.StateCount = ir.StateID(stateCount)
	return c, nil
}

func decodeRow(cur int64, read string, next int64, write, move string) (ir.Row, error) {
	rs, err := decodeSymbol(read)
	if err != nil {
		return ir.Row{}, err
	}
	ws, err := decodeSymbol(write)
	if err != nil {
		return ir.Row{}, err
	}
	dir, err := ir.ParseArrow(move)
	if err != nil {
		return ir.Row{}, fmt.Errorf("decode row: %w", err)
	}
	return ir.Row{
		Current:   ir.StateID(cur),
		Read:      rs,
		Next:      ir.StateID(next),
		Write:     ws,
		Direction: dir,
	}, nil
}

func decodeSymbol(s string) (ir.Symbol, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("decode row: stored symbol %q is not one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return ir.Symbol(r), nil
}

// Divergent returns archived compilations of the same program by the same
// generator version whose table differs from c. A non-empty result means
// the generator is not deterministic.
func (s *Store) Divergent(ctx context.Context, c ir.Compilation) ([]ir.Compilation, error) {
	prior, err := s.FindByProgramHash(ctx, c.ProgramHash)
	if err != nil {
		return nil, err
	}
	out := []ir.Compilation{}
	for _, p := range prior {
		if p.GeneratorVersion == c.GeneratorVersion && p.TableHash != c.TableHash {
			out = append(out, p)
		}
	}
	return out, nil
}
