package main

import (
	"fmt"
	"os"
)

const usageText = `trialheader computes the experiment progress header.

Usage:
  trialheader <command> [flags]

Commands:
  header   print the header values for a session state
  config   print configuration (effective or defaults)
  ui       run the interactive header preview
  help     show help

Flags:
  -h, --help   show help

Examples:
  trialheader header --completed 4 --trials 10
  trialheader header --completed -1 --format json
  trialheader config --default --format toml
  trialheader ui --trials 20
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
