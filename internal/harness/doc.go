// Package harness runs compiler test scenarios.
//
// A scenario is a program plus assertions on its compilation. Each run
// parses the program, compiles it twice through a fresh in-memory archive
// (the second compilation must hit the first archived table), and then
// evaluates the assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scan_to_blank
//	description: "What this scenario validates"
//	program: |
//	  alphabet, ab
//	  move_to_char, right, -
//	assertions:
//	  - type: rows_equal
//	    rows: ["(0,a,0,a,>)", "(0,b,0,b,>)", "(0,-,1,-,<)"]
//	  - type: conflicts
//	    count: 0
//
// program_file may replace program; it is resolved relative to the
// scenario file.
//
// # Assertion Types
//
//   - rows_equal: the table equals rows, in order
//   - row_present: row appears in the table
//   - row_count: the table has count rows
//   - state_count: scan steps allocated count states
//   - conflicts: count (state, read) pairs have more than one row
//   - coverage_gaps: count (state, read) pairs are missing
//   - parse_error: the front-end rejected the program with code
//
// A rejected program fails every assertion except parse_error.
//
// # Golden Files
//
// RunWithGolden and AssertGolden compare a canonical JSON Snapshot of the
// result against testdata/golden/{name}.golden using goldie. The CLI test
// command stores the same snapshots next to the scenario files.
package harness
