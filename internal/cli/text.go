package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/controller"
	"github.com/urfave/cli/v3"
)

func explainCommand() *cli.Command {
	var (
		cfg  config
		file string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Image file to explain",
			Destination: &file,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "explain",
		Usage: "Explain an image for students",
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

			explanation, err := controller.NewTextGenerator(client, client).ExplainImage(ctx, data, mimeType)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, explanation)
			return nil
		},
	}
}

func contentCommand() *cli.Command {
	var (
		cfg    config
		prompt string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "Topic to write about",
			Destination: &prompt,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "content",
		Usage: "Write long-form content about a topic",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			content, err := controller.NewTextGenerator(client, client).GenerateContent(ctx, prompt)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, content)
			return nil
		},
	}
}

func slidesCommand() *cli.Command {
	var (
		cfg     config
		content string
		file    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "content",
			Aliases:     []string{"c"},
			Usage:       "Text to outline as slides",
			Destination: &content,
		},
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Read the text to outline from a file",
			Destination: &file,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "slides",
		Usage: "Turn text into a slide outline",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if content != "" && file != "" {
				return goerr.New("use either --content or --file, not both")
			}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return goerr.Wrap(err, "failed to read content file", goerr.V("file", file))
				}
				content = string(data)
			}

			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			slides, err := controller.NewTextGenerator(client, client).GenerateSlides(ctx, content)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, slides)
			return nil
		},
	}
}
