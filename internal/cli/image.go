package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/controller"
	"github.com/timmy/learnx/internal/media"
	"github.com/urfave/cli/v3"
)

func imageCommand() *cli.Command {
	var (
		cfg    config
		prompt string
		out    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "Description of the image to generate",
			Destination: &prompt,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "Write the generated image to this file",
			Destination: &out,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "image",
		Usage: "Generate an image and save it to the gallery",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			result, err := controller.NewTextGenerator(client, client).GenerateImage(ctx, prompt)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintln(w, result.Message)
			if result.Saved() {
				fmt.Fprintf(w, "Saved to gallery: %s\n", result.Record.ID)
			} else {
				fmt.Fprintf(c.Root().ErrWriter, "Warning: %v\n", result.SaveErr)
			}

			if out == "" {
				if !media.IsDataURI(result.ImageURL) {
					fmt.Fprintln(w, result.ImageURL)
				}
				return nil
			}
			if err := writeImage(ctx, result.ImageURL, out); err != nil {
				return err
			}
			fmt.Fprintf(w, "Wrote %s\n", out)
			return nil
		},
	}
}

// writeImage stores an image given as a data URI or an http(s) URL.
func writeImage(ctx context.Context, imageURL, path string) error {
	var data []byte
	if media.IsDataURI(imageURL) {
		parsed, err := media.ParseDataURI(imageURL)
		if err != nil {
			return goerr.Wrap(err, "failed to decode generated image")
		}
		data = parsed.Data
	} else {
		resp, err := resty.New().R().SetContext(ctx).Get(imageURL)
		if err != nil {
			return goerr.Wrap(err, "failed to download image", goerr.V("url", imageURL))
		}
		if resp.IsError() {
			return goerr.New("failed to download image", goerr.V("url", imageURL), goerr.V("status", resp.StatusCode()))
		}
		data = resp.Body()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write image", goerr.V("file", path))
	}
	return nil
}
