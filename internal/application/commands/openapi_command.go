package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/server"
	"github.com/bravo68web/folio/internal/transport/http/router"
)

func (r *CommandRegistry) OpenAPICommand() *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Write the OpenAPI document of the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file; .json writes JSON, anything else YAML. Empty prints JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := r.bootstrap(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a.cfg, nil)
			if err := router.NewRouter(srv, a.deps).RegisterRoutes(); err != nil {
				return err
			}
			doc := srv.OpenAPIGenerator.Generate()

			out := cmd.String("out")
			if out == "" {
				return doc.WriteJSON(cmd.Writer)
			}
			if err := doc.SaveToFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "Wrote %s (%d paths)\n", out, len(doc.Paths))
			return nil
		},
	}
}
