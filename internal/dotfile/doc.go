// Package dotfile knows the shell startup files initdot can inspect.
//
// This package handles:
//   - The closed catalog of recognized dotfile names and the shell that reads each
//   - The completion helper file each shell family sources
//   - Best-effort loading of a dotfile into a Record
//   - Token searches over dotfile lines (a very small grep)
//
// # Token Search
//
// The searches deliberately avoid parsing shell syntax. A line is cut at its
// first '#', split on whitespace and compared token by token:
//
//	export PATH=$PATH:$HOME/abin   # abin
//	       ^^^^^^^^^^^^^^^^^^^^^^ substring "abin" matches here
//
// Lines beginning with '#' are ignored entirely. Logical lines continued with
// a trailing backslash are not joined.
package dotfile
