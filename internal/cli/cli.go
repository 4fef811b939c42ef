// Package cli implements the learnx command line client.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

// Run executes the command line in argv.
func Run(ctx context.Context, argv []string) *Error {
	return run(ctx, argv, os.Stdout, os.Stderr)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) *Error {
	cmd := &cli.Command{
		Name:      "learnx",
		Usage:     "AI learning tools: images, content, slides and transcription",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			imageCommand(),
			explainCommand(),
			contentCommand(),
			slidesCommand(),
			transcribeCommand(),
			galleryCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
