package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/cg3-llc/prior-go/mcp"
)

func main() {
	if err := mcp.RunServer(); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}
