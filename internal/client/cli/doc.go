// Package cli implements the interactive LogKeeper client: a REPL that
// renders the log table page by page and drives the state.Table through
// commands such as add, edit, save and delete.
//
// Row numbers given to commands are 1-based positions in the whole
// collection, as printed in the "#" column.
package cli
