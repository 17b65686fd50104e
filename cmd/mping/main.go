package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"

	"github.com/JaedanC/MultiPing/internal/runner"
)

func main() {
	options := runner.ParseOptions()

	mpingRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}
	defer mpingRunner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Setup close handler
	go func() {
		<-c
		gologger.Print().Msgf("\r- Ctrl+C pressed in Terminal, Exiting...")
		cancel()
	}()

	if err := mpingRunner.Run(ctx); err != nil {
		gologger.Fatal().Msgf("Could not run mping: %s\n", err)
	}
}
