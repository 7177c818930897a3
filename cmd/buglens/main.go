package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/buglens/buglens/internal/app"
	"github.com/buglens/buglens/internal/common"
	"github.com/buglens/buglens/internal/watch"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	queryFile    = flag.String("query", "", "Path to query yaml file (overrides config)")
	queryFileQ   = flag.String("q", "", "Path to query yaml file (shorthand)")
	plotField    = flag.String("plot", "component", "Grouping field for the bar chart: component, qa_contact, assigned_to or creator")
	plotFieldP   = flag.String("p", "", "Grouping field (shorthand)")
	trackerURL   = flag.String("url", "", "Tracker service URL (overrides config)")
	trackerURLU  = flag.String("u", "", "Tracker service URL (shorthand)")
	saveChart    = flag.Bool("save", false, "Save the bar chart as <field>.png")
	outputRaw    = flag.Bool("output", false, "Dump fetched issues to stdout")
	noPlot       = flag.Bool("noplot", false, "Do not aggregate or plot (implies -output)")
	genReport    = flag.Bool("report", false, "Write YAML and PDF run reports")
	doLogin      = flag.Bool("login", false, "Log into the tracker before querying (bugzilla only)")
	watchMode    = flag.Bool("watch", false, "Keep running and refresh reports on the configured cron schedule")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Buglens version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Merge shorthand flags (shorthand takes precedence)
	finalQuery := *queryFile
	if *queryFileQ != "" {
		finalQuery = *queryFileQ
	}
	finalField := *plotField
	if *plotFieldP != "" {
		finalField = *plotFieldP
	}
	finalURL := *trackerURL
	if *trackerURLU != "" {
		finalURL = *trackerURLU
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("buglens.toml"); err == nil {
			configFiles = append(configFiles, "buglens.toml")
		}
	}

	// 1. Load configuration (defaults -> files -> env -> CLI)
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, finalQuery, finalURL)

	// 3. Initialize logger with final configuration
	logger := common.InitLogger(config)

	// 4. Print banner
	common.LoadVersionFromFile()
	common.PrintBanner()

	options := app.Options{
		PlotField: finalField,
		Output:    *outputRaw || *noPlot, // -noplot implies -output
		NoPlot:    *noPlot,
		Save:      *saveChart,
		Report:    *genReport,
		Login:     *doLogin,
	}

	application, err := app.New(config, options, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize")
		os.Exit(1)
	}

	ctx := context.Background()

	if !*watchMode {
		if err := application.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Run failed")
			os.Exit(1)
		}
		return
	}

	// Watch mode: refresh on the configured cron schedule until signalled.
	scheduler := watch.NewScheduler(logger)
	if err := scheduler.Start(config.Watch.Schedule, func() error {
		return application.Run(ctx)
	}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start watch mode")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	scheduler.Stop()
}
