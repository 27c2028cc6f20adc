// Package logs reads the daemon log file for `studypulse logs`.
//
// Last returns the final lines with bounded memory; Follow polls from an
// offset and hands new lines to a callback until its context ends.
package logs
