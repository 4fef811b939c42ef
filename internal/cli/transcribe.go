package cli

import (
	"context"
	"fmt"

	"github.com/timmy/learnx/internal/controller"
	"github.com/urfave/cli/v3"
)

func transcribeCommand() *cli.Command {
	var (
		cfg  config
		file string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Audio file to transcribe (mp3 or wav)",
			Destination: &file,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "transcribe",
		Usage: "Transcribe speech in an audio file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, mimeType, err := readFile(file)
			if err != nil {
				return err
			}

			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			text, err := controller.NewAudioGenerator(client).Transcribe(ctx, data, mimeType)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, text)
			return nil
		},
	}
}
