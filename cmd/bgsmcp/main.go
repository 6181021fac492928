package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ukgeotools/bgsmcp/pkg/report"
	"github.com/ukgeotools/bgsmcp/pkg/server"
	"github.com/ukgeotools/bgsmcp/pkg/version"
)

var (
	showVersionFlag bool
	debug           bool
	httpAddr        string
	obsAddr         string
	generateConfig  string
)

func init() {
	flag.BoolVar(&showVersionFlag, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&httpAddr, "http", "", "Serve MCP over HTTP/SSE on this address instead of stdio (e.g. :8080)")
	flag.StringVar(&obsAddr, "obs-addr", "", "Serve healthcheck and metrics on this address (e.g. :9090)")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate a Claude Desktop Client config file at the specified path")
}

func main() {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	flag.Parse()

	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if showVersionFlag {
		fmt.Println(version.String())
		return
	}

	if generateConfig != "" {
		if err := generateClientConfig(generateConfig); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully generated Claude Desktop Client config", "path", generateConfig)
		return
	}

	if enabled, err := report.Setup(logger, version.BuildVersion); err != nil {
		logger.Warn("crash reporting disabled", "error", err)
	} else if enabled {
		defer report.Flush()
	}

	logger.Info("starting BGS borehole MCP server",
		"version", version.BuildVersion,
		"log_level", logLevel.String())

	srv, err := server.NewServer(server.Config{
		BaseURL:    os.Getenv("BGS_BASE_URL"),
		Collection: os.Getenv("BGS_COLLECTION"),
		RateLimit:  envFloat("BGS_RATE_LIMIT", logger),
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		report.CaptureError(err)
		os.Exit(1)
	}

	if obsAddr != "" {
		obs := server.NewObsServer(obsAddr)
		go func() {
			logger.Info("serving observability endpoints", "addr", obsAddr)
			if err := obs.ListenAndServe(); err != nil {
				logger.Error("observability server error", "error", err)
			}
		}()
	}

	logger.Info("server initialized, waiting for requests")
	if httpAddr != "" {
		err = srv.RunHTTP(httpAddr)
	} else {
		err = srv.Run()
	}
	if err != nil {
		logger.Error("server error", "error", err)
		report.CaptureError(err)
		report.Flush()
		os.Exit(1)
	}
}

// envFloat parses an optional float environment variable. Unset or
// malformed values fall back to zero so the server default applies.
func envFloat(key string, logger *slog.Logger) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn("ignoring malformed environment value", "key", key, "value", raw)
		return 0
	}
	return f
}

// generateClientConfig creates or updates a Claude Desktop Client config file
func generateClientConfig(outputPath string) error {
	logger := slog.Default()

	if outputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	serverConfig := map[string]interface{}{
		"command": absExecPath,
		"args":    []string{},
	}

	var config map[string]interface{}

	// Merge into an existing config file rather than clobbering it.
	if _, err := os.Stat(outputPath); err == nil {
		data, err := os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			config = make(map[string]interface{})
		}
	} else {
		config = make(map[string]interface{})
	}

	mcpServers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		mcpServers = make(map[string]interface{})
		config["mcpServers"] = mcpServers
	}

	mcpServers["BGS Boreholes"] = serverConfig

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
