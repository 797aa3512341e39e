// Package mcp adapts the Prior tools to the Model Context Protocol. It is the
// only place that knows about the MCP framework; the tools themselves depend
// solely on the client core.
package mcp

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/cg3-llc/prior-go/client"
	"github.com/cg3-llc/prior-go/internal/logging"
	"github.com/cg3-llc/prior-go/tools"
)

type config struct {
	ServerName    string
	ServerVersion string
	LogLevel      string
}

func loadConfig() *config {
	return &config{
		ServerName:    getEnvOrDefault("PRIOR_MCP_SERVER_NAME", "prior-mcp-server"),
		ServerVersion: getEnvOrDefault("PRIOR_MCP_SERVER_VERSION", "0.1.0"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RunServer builds a Prior client from the environment and config file,
// registers every tool, and serves MCP over stdio until the transport closes.
func RunServer() error {
	cfg := loadConfig()
	logging.Init()
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	c, err := client.New()
	if err != nil {
		return err
	}

	s := server.NewMCPServer(cfg.ServerName, cfg.ServerVersion)
	for _, t := range tools.All(c) {
		registerTool(s, t)
	}

	log.Info().Str("server", cfg.ServerName).Str("base_url", c.BaseURL()).Msg("serving MCP over stdio")
	return server.ServeStdio(s)
}

func registerTool(s *server.MCPServer, t tools.Tool) {
	raw, err := json.Marshal(t.Schema)
	if err != nil {
		log.Fatal().Err(err).Str("tool", t.Name).Msg("tool schema does not marshal")
	}
	mcpTool := mcp.NewToolWithRawSchema(t.Name, t.Description, raw)
	s.AddTool(mcpTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := t.Invoke(ctx, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	})
}
