package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		code := exitCode(err)
		if code != 130 {
			fmt.Fprintln(os.Stderr, styleError.Render(iconError)+" "+err.Error())
		}
		cancel()
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string) error {
	c := newCLI(os.Stderr, log.InfoLevel)
	root := c.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
