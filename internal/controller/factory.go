package controller

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewUI picks the interactive progress view on a terminal and the plain
// printer everywhere else (pipes, CI logs).
func NewUI(cmd *cobra.Command, interactive bool) UI {
	plain := NewSimpleUI(cmd)

	if interactive {
		return NewTUI(os.Stdout, plain)
	}

	return plain
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
