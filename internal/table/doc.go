// Package table renders and reads quintuple transition tables.
//
// The text form is one row per line, "(current,read,next,write,D)" with D
// either "<" or ">". It is the tool's wire format: Read accepts anything
// Write produces, plus surrounding whitespace and blank lines.
package table
