package table

import (
	"github.com/roach88/tmgen/internal/ir"
)

// Summary describes the shape of a table.
type Summary struct {
	Rows       int         `json:"rows"`
	States     int         `json:"states"`
	MaxState   ir.StateID  `json:"max_state"`
	Symbols    []ir.Symbol `json:"symbols"`
	LeftMoves  int         `json:"left_moves"`
	RightMoves int         `json:"right_moves"`
}

// Summarize counts rows, distinct states (sources and destinations) and
// distinct symbols read or written. Symbols keep first-appearance order.
func Summarize(rows []ir.Row) Summary {
	s := Summary{Rows: len(rows), Symbols: []ir.Symbol{}}
	states := make(map[ir.StateID]bool)
	symbols := make(map[ir.Symbol]bool)

	addSymbol := func(x ir.Symbol) {
		if !symbols[x] {
			symbols[x] = true
			s.Symbols = append(s.Symbols, x)
		}
	}

	for _, r := range rows {
		states[r.Current] = true
		states[r.Next] = true
		s.MaxState = max(s.MaxState, r.Current, r.Next)
		addSymbol(r.Read)
		addSymbol(r.Write)
		if r.Direction == ir.Left {
			s.LeftMoves++
		} else {
			s.RightMoves++
		}
	}
	s.States = len(states)
	return s
}
