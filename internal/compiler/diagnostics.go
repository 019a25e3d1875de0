package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/tmgen/internal/ir"
)

// Conflict is a (state, read) pair claimed by more than one row.
// The machine is non-deterministic there.
type Conflict struct {
	State ir.StateID `json:"state"`
	Read  ir.Symbol  `json:"read"`
	Rows  []ir.Row   `json:"rows"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d reading %c has %d rows", c.State, c.Read, len(c.Rows))
}

// Gap is a (state, read) pair with no row in a state that can be reached.
type Gap struct {
	State ir.StateID `json:"state"`
	Read  ir.Symbol  `json:"read"`
}

func (g Gap) String() string {
	return fmt.Sprintf("state %d has no row for %c", g.State, g.Read)
}

type cell struct {
	state ir.StateID
	read  ir.Symbol
}

// Conflicts returns every (state, read) pair with more than one row, in
// order of first appearance.
func Conflicts(rows []ir.Row) []Conflict {
	byCell := make(map[cell][]ir.Row)
	var order []cell
	for _, r := range rows {
		k := cell{r.Current, r.Read}
		if _, seen := byCell[k]; !seen {
			order = append(order, k)
		}
		byCell[k] = append(byCell[k], r)
	}

	var out []Conflict
	for _, k := range order {
		if rs := byCell[k]; len(rs) > 1 {
			out = append(out, Conflict{State: k.state, Read: k.read, Rows: rs})
		}
	}
	return out
}

// Coverage returns the (state, read) pairs missing from rows over the
// readable symbol space (alphabet plus blank).
//
// Every state that appears in rows, as source or destination, is checked
// except halt. Gaps are ordered by state, then by symbol in alphabet order
// with blank last.
func Coverage(alphabet ir.Alphabet, rows []ir.Row, halt ir.StateID, halts bool) []Gap {
	present := make(map[cell]bool, len(rows))
	states := make(map[ir.StateID]bool)
	for _, r := range rows {
		present[cell{r.Current, r.Read}] = true
		states[r.Current] = true
		states[r.Next] = true
	}
	if halts {
		delete(states, halt)
	}

	ids := make([]ir.StateID, 0, len(states))
	for s := range states {
		ids = append(ids, s)
	}
	slices.Sort(ids)

	var out []Gap
	for _, s := range ids {
		for _, x := range alphabet.WithBlank() {
			if !present[cell{s, x}] {
				out = append(out, Gap{State: s, Read: x})
			}
		}
	}
	return out
}

// HaltState returns the final state and whether it is a halt state, that is
// whether no row leaves it.
func HaltState(rows []ir.Row, final ir.StateID) (ir.StateID, bool) {
	for _, r := range rows {
		if r.Current == final {
			return final, false
		}
	}
	return final, true
}
