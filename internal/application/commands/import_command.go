package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/pkg/logger"
)

const defaultBatchSize = 500

func (r *CommandRegistry) ImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load the commit log CSV into PostgreSQL",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "truncate",
				Usage: "Delete every stored row first",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Rows per insert statement",
				Value: defaultBatchSize,
			},
		},
		Action: r.importRows,
	}
}

func (r *CommandRegistry) importRows(ctx context.Context, cmd *cli.Command) error {
	a, err := r.bootstrap(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, summary, err := a.deps.MetaService.ReadLog(ctx)
	if err != nil {
		return err
	}

	repo := a.deps.LocRows
	if cmd.Bool("truncate") {
		if err := repo.Truncate(ctx); err != nil {
			return err
		}
		a.log.Info("Stored rows truncated")
	}

	records := make([]models.LocRow, len(rows))
	for i, row := range rows {
		records[i] = models.NewLocRow(i+1, row)
	}
	written, err := repo.Upsert(ctx, records, cmd.Int("batch-size"))
	if err != nil {
		return err
	}

	a.log.Info("Commit log imported",
		logger.Source(summary.Source),
		logger.Rows(int(written)),
		logger.Skipped(summary.Skipped),
	)
	fmt.Fprintf(cmd.Writer, "Imported %s rows (%d skipped)\n", humanize.Comma(written), summary.Skipped)
	return nil
}
