// Package main runs the planner MCP server over stdio, for local MCP clients.
// The same server is mounted on the main service at /mcp over HTTP.
// Plans live only as long as the process.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SirBarnaby/moyb/internal/catalog"
	"github.com/SirBarnaby/moyb/internal/config"
	"github.com/SirBarnaby/moyb/internal/logging"
	plannermcp "github.com/SirBarnaby/moyb/internal/mcp"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}
	cfg.ApplySecrets(secrets)

	// stdout belongs to the MCP transport
	if cfg.LogsPath == "" {
		log.SetOutput(os.Stderr)
		log.SetLevel(logging.GetLevel(cfg.LogLevel))
	} else {
		logging.Setup(logging.LoggerSetupParams{
			LogFileName:   cfg.LogsPath,
			LogToStdout:   false,
			LogLevel:      cfg.LogLevel,
			LogFormatJSON: cfg.LogFormatJSON,
			Environment:   cfg.Environment,
		})
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var source catalog.Source
	switch cfg.ExerciseSource {
	case config.ExerciseSourceFile:
		source, err = catalog.NewFileSource(cfg.ExerciseFilePath)
		if err != nil {
			log.Fatalf("file source: %v", err)
		}
	case config.ExerciseSourceAPI:
		source = catalog.NewApi(
			cfg.ExerciseApiURL,
			&http.Client{Timeout: 30 * time.Second},
			cfg.ExerciseCacheSizeMB,
			cfg.ExerciseCacheTTLSec,
		)
	default:
		log.Fatalf("exercise source [%s] not supported over stdio, use file or api", cfg.ExerciseSource)
	}

	metricsManager := metrics.NewManager("mcp", "stdio", prometheus.NewRegistry())
	registry := planner.NewRegistry(planner.Config{
		SetsPerWeekMax:        cfg.SetsPerWeekMax,
		SynergisticMultiplier: cfg.SynergisticMultiplier,
		StabilizingMultiplier: cfg.StabilizingMultiplier,
	}, metricsManager)
	lookup := catalog.NewLookup(source, nil, 0, metricsManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := plannermcp.NewServer(registry, lookup)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
