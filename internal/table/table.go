package table

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/roach88/tmgen/internal/ir"
)

// Write renders rows in canonical text form, one per line.
func Write(w io.Writer, rows []ir.Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(r.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format returns the canonical text form of rows.
func Format(rows []ir.Row) string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = Write(&b, rows)
	return b.String()
}

// WriteJSON renders rows as an indented JSON array of
// {state, read, next, write, move} objects.
func WriteJSON(w io.Writer, rows []ir.Row) error {
	if rows == nil {
		rows = []ir.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
