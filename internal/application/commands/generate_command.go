package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uilive"
	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/application/service"
)

func (r *CommandRegistry) GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Blame a git repository into the commit log CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path of the git repository",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Revision to blame; defaults to HEAD",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Storage path of the CSV; defaults to meta.log_path",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only blame files matching this glob (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files matching this glob (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "vendored",
				Usage: "Keep vendored and generated files",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Files blamed in parallel; defaults to the CPU count",
			},
			&cli.IntFlag{
				Name:  "indent",
				Usage: "Spaces per indentation level",
				Value: 2,
			},
		},
		Action: r.generate,
	}
}

func (r *CommandRegistry) generate(ctx context.Context, cmd *cli.Command) error {
	a, err := r.bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.String("out")
	if out == "" {
		out = a.cfg.Meta.LogPath
	}

	writer := uilive.New()
	writer.Out = cmd.Writer
	writer.Start()

	result, err := a.deps.GeneratorService.Generate(ctx, service.GenerateOptions{
		RepoPath:    cmd.String("repo"),
		Ref:         cmd.String("ref"),
		Output:      out,
		Include:     cmd.StringSlice("include"),
		Exclude:     cmd.StringSlice("exclude"),
		Vendored:    cmd.Bool("vendored"),
		Workers:     cmd.Int("workers"),
		IndentWidth: cmd.Int("indent"),
		Progress: func(done, total int, file string) {
			_, _ = fmt.Fprintf(writer, "[%d/%d] %s\n", done, total, file)
		},
	})
	writer.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Writer, "Wrote %s rows from %d files at %.7s to %s (%d skipped) in %s\n",
		humanize.Comma(int64(result.Rows)),
		result.Files,
		result.Commit,
		result.Output,
		result.Skipped,
		result.Duration.Round(time.Millisecond),
	)
	return nil
}
