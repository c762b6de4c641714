package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/config"
)

func (r *CommandRegistry) TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Print an admin token for the reload endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Who the token is issued to",
				Value: "admin",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime; defaults to admin.token_ttl",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			token, err := service.NewTokenService(&cfg.Admin).Issue(cmd.String("subject"), cmd.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Writer, token)

			ttl := cmd.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.Admin.TokenTTL
			}
			fmt.Fprintf(cmd.ErrWriter, "expires %s\n", time.Now().Add(ttl).Format(time.RFC3339))
			return nil
		},
	}
}
