// Package configs embeds the default configuration into the binary
package configs

import "embed"

//go:embed config.yaml
var FS embed.FS
