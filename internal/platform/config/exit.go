package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Exit reports err on stderr under stage and ends the process. A help
// request exits 0 because the flag set already printed usage.
func Exit(stage string, err error) {
	os.Exit(report(os.Stderr, stage, err))
}

func report(w io.Writer, stage string, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(w, "%s: %v\n", stage, err)
	return 1
}
