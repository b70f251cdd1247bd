// Package main provides the syncgo binary entry point.
package main

import (
	"fmt"
	"os"
	"runtime"

	// Embed the IANA zone database so gamification.timezone works on hosts
	// without one.
	_ "time/tzdata"

	"github.com/roach88/syncgo/internal/cli"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(cli.ExitCommandError)
		}
	}()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
