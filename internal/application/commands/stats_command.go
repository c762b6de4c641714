package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/chart"
	"github.com/bravo68web/folio/internal/meta"
)

func (r *CommandRegistry) StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print the dashboard stats and language breakdown",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    "progress",
				Aliases: []string{"p"},
				Usage:   "Scrubber position in [0, 100]",
				Value:   100,
			},
			&cli.StringFlag{
				Name:  "html",
				Usage: "Also write the breakdown as an HTML pie chart to this file",
			},
		},
		Action: r.stats,
	}
}

func (r *CommandRegistry) stats(ctx context.Context, cmd *cli.Command) error {
	a, err := r.bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	metaService := a.deps.MetaService
	if _, err := metaService.Load(ctx, service.TriggerCLI); err != nil {
		return err
	}

	stats, err := metaService.Stats()
	if err != nil {
		return err
	}
	v, err := metaService.View(meta.Query{}.WithProgress(cmd.Float("progress")))
	if err != nil {
		return err
	}

	summary := table.NewWriter()
	summary.SetOutputMirror(cmd.Writer)
	summary.SetStyle(table.StyleLight)
	summary.SetTitle("Summary")
	for _, st := range stats {
		summary.AppendRow(table.Row{st.Label, st.Value})
	}
	summary.Render()

	breakdown := table.NewWriter()
	breakdown.SetOutputMirror(cmd.Writer)
	breakdown.SetStyle(table.StyleLight)
	breakdown.SetTitle(fmt.Sprintf("Lines by type at %s", v.CutoffLabel))
	breakdown.AppendHeader(table.Row{"Type", "Lines", "Share"})
	total := 0
	for _, share := range v.Breakdown {
		breakdown.AppendRow(table.Row{share.Type, humanize.Comma(int64(share.Lines)), share.Formatted})
		total += share.Lines
	}
	breakdown.AppendFooter(table.Row{fmt.Sprintf("%d commits", len(v.Filtered)), humanize.Comma(int64(total)), ""})
	breakdown.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	breakdown.Render()

	if path := cmd.String("html"); path != "" {
		ds, err := metaService.Dataset()
		if err != nil {
			return err
		}
		if err := writePie(path, chart.BreakdownPie(v.Breakdown, ds.Palette())); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Writer, "Wrote %s\n", path)
	}
	return nil
}

type renderer interface {
	Render(w io.Writer) error
}

func writePie(path string, pie renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pie.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
