package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mirrorlink/bridge/instance"
)

func main() {
	var (
		sweep   = flag.Duration("sweep", instance.DefaultSweepInterval, "Finalization sweep interval")
		verbose = flag.Bool("v", false, "Log registry warnings to stderr")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "bridgemon is an interactive console and needs a terminal")
		fmt.Fprintln(os.Stderr, "Usage: bridgemon [-sweep 30s] [-v]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		instance.SetLogger(logger.Named("instance"))
	}

	if err := runConsole(*sweep); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConsole(sweep time.Duration) error {
	return runInteractive(sweep)
}
