package main

import (
	"fmt"
	"os"

	"github.com/gilby125/weekend-trip-api/config"
	"github.com/gilby125/weekend-trip-api/pkg/buildinfo"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol
	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
		Output: os.Stderr,
	})

	s := server.NewMCPServer(
		"weekend-trip-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)
	registerTools(s, planner.New(cfg.CalendarConfig.Location))

	logger.Info("MCP server starting", "timezone", cfg.CalendarConfig.TimezoneName)
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal(err, "MCP server error")
	}
}
