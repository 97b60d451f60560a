package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"garment-tracker/internal/adapters/repl"
	"garment-tracker/internal/app"
)

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name.
// Interactive commands (new-order, cut, distribute) read their lines from stdin.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	shell := repl.NewShell(svc, os.Stdin, out)
	if err := shell.Execute(ctx, args); err != nil && !errors.Is(err, repl.ErrExit) {
		return err
	}
	return nil
}
