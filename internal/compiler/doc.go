// Package compiler lowers tape programs into Turing machine quintuples.
//
// The core is Generate, a pure fold over the instruction list. Compile wraps
// it with the state count, the halt state and two diagnostics:
//
//   - Conflicts: (state, read) pairs with more than one row
//   - Coverage: (state, read) pairs with no row in a reachable state
//
// Two behaviors of the generated machines show up in the tables:
//
//   - a MoveToChar stops one cell short of its target, because the target
//     row moves against the scan direction
//   - EndLoop writes its rows under the state the next MoveToChar will own,
//     so a scan following a loop overlaps the jump-back rows
package compiler
