// Package ir provides the typed program and transition-table model for tmgen.
//
// This package contains type definitions and their canonical encodings only.
// All other internal packages import ir; ir imports nothing internal. This
// keeps the data model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Symbols are single runes; Blank ('-') is reserved and never declared
//   - Instruction is a closed sum type, switch on it exhaustively
//   - State identifiers are allocated monotonically from 0
//   - All JSON tags use snake_case
package ir
