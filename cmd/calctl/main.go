// Package main is the calctl command line: calendar conversions, Easter and
// Hebrew numerals offline, plus the server and cache maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/zapponejosh/calendar-api/cmd/calctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
