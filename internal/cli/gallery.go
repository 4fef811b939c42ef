package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/controller"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/media"
	"github.com/urfave/cli/v3"
)

func galleryCommand() *cli.Command {
	return &cli.Command{
		Name:  "gallery",
		Usage: "Browse and manage generated images",
		Commands: []*cli.Command{
			galleryListCommand(),
			galleryDeleteCommand(),
			galleryDownloadCommand(),
			galleryWatchCommand(),
		},
	}
}

func galleryListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List generated images, newest first",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			images, err := controller.NewGallery(client, client).Load(ctx)
			if err != nil {
				return err
			}
			printImages(c.Root().Writer, images)
			return nil
		},
	}
}

func galleryDeleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a generated image",
		ArgsUsage: "<image-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("image id is required")
			}

			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			if err := controller.NewGallery(client, client).Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, "Image deleted successfully")
			return nil
		},
	}
}

func galleryDownloadCommand() *cli.Command {
	var (
		cfg config
		out string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "File to write the image to",
			Destination: &out,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "download",
		Usage:     "Save a generated image to a file",
		ArgsUsage: "<image-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("image id is required")
			}

			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			img, err := controller.NewGallery(client, client).Find(ctx, id)
			if err != nil {
				return err
			}
			if err := writeImage(ctx, img.ImageURL, out); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Wrote %s\n", out)
			return nil
		},
	}
}

func galleryWatchCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "watch",
		Usage: "Print the gallery and reprint it on every change",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := c.Root().Writer
			gallery := controller.NewGallery(client, client)
			gallery.OnRefresh = func(images []domain.GeneratedImage) {
				fmt.Fprintf(w, "--- %s ---\n", time.Now().Format(time.TimeOnly))
				printImages(w, images)
			}
			return gallery.Watch(ctx)
		},
	}
}

func printImages(w io.Writer, images []domain.GeneratedImage) {
	if len(images) == 0 {
		fmt.Fprintln(w, "No images yet")
		return
	}
	for _, img := range images {
		url := img.ImageURL
		if media.IsDataURI(url) {
			url = fmt.Sprintf("(inline image, %d bytes)", len(url))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", img.ID, img.CreatedAt.Format(time.DateTime), img.Prompt, url)
	}
}
