package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewUI picks a UI for format. The interactive browser is used only for
// table output on a terminal; otherwise tables are printed plainly.
func NewUI(cmd *cobra.Command, format string, interactive bool) (UI, error) {
	switch strings.ToLower(format) {
	case "", FormatTable:
		if interactive && IsTTY(cmd.OutOrStdout()) {
			return NewTUI(cmd), nil
		}

		return NewSimpleUI(cmd), nil
	case FormatJSON:
		return NewJSONUI(cmd.OutOrStdout()), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
