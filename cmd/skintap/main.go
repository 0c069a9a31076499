package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
		rootCmd.PrintErrln("Error:", cerr)
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}
