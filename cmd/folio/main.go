package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bravo68web/folio/configs"
	"github.com/bravo68web/folio/internal/application/commands"
	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/server"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	server.Version = version
	config.EmbeddedFS = configs.FS

	cmd := commands.NewCommandRegistry(version).RegisterCLI()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
