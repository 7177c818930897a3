// Package app wires configuration, tracker backend, query runner and
// presentation together into one reporting pipeline.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/buglens/buglens/internal/chart"
	"github.com/buglens/buglens/internal/common"
	"github.com/buglens/buglens/internal/models"
	"github.com/buglens/buglens/internal/queries"
	"github.com/buglens/buglens/internal/report"
	"github.com/buglens/buglens/internal/runner"
	"github.com/buglens/buglens/internal/trackers"
	"github.com/buglens/buglens/internal/trackers/bugzilla"
	"github.com/buglens/buglens/internal/trackers/github"
)

// Options are the per-run switches taken from the command line.
type Options struct {
	PlotField string // Grouping field for aggregation
	Output    bool   // Dump raw issues to stdout
	NoPlot    bool   // Skip aggregation and chart entirely
	Save      bool   // Persist the bar chart PNG
	Report    bool   // Write YAML and PDF run reports
	Login     bool   // Authenticate before querying (bugzilla only)
}

// App is one configured reporting pipeline.
type App struct {
	config   *common.Config
	options  Options
	logger   arbor.ILogger
	tracker  trackers.Tracker
	queries  []models.QueryDefinition
	runner   *runner.Runner
	renderer *chart.Renderer
	stdout   io.Writer
}

// New builds the pipeline: validates options, loads the query file and
// constructs the configured tracker backend.
func New(config *common.Config, options Options, logger arbor.ILogger) (*App, error) {
	if !models.IsGroupingField(options.PlotField) {
		return nil, fmt.Errorf("unknown grouping field %q, expected one of: %s",
			options.PlotField, strings.Join(models.GroupingFields, ", "))
	}

	defs, err := queries.Load(config.Queries.File)
	if err != nil {
		return nil, err
	}

	tracker, err := newTracker(config, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   config,
		options:  options,
		logger:   logger,
		tracker:  tracker,
		queries:  defs,
		runner:   runner.NewRunner(tracker, logger),
		renderer: chart.NewRenderer(config.Chart, logger),
		stdout:   os.Stdout,
	}, nil
}

func newTracker(config *common.Config, logger arbor.ILogger) (trackers.Tracker, error) {
	switch config.Tracker.Type {
	case "bugzilla":
		return bugzilla.NewClient(config.Tracker.URL,
			bugzilla.WithLogger(logger),
			bugzilla.WithTimeout(config.Tracker.TimeoutDuration()),
			bugzilla.WithRateLimit(config.Tracker.RateLimit),
			bugzilla.WithPageSize(config.Tracker.PageSize),
		), nil
	case "github":
		return github.NewConnector(github.Config{
			Token: config.Tracker.GitHub.Token,
			Owner: config.Tracker.GitHub.Owner,
			Repo:  config.Tracker.GitHub.Repo,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown tracker type %q", config.Tracker.Type)
	}
}

// Run executes one full fetch -> aggregate -> present cycle. Any failure
// aborts the run; there are no retries and no partial results.
func (a *App) Run(ctx context.Context) error {
	if a.options.Login {
		client, ok := a.tracker.(*bugzilla.Client)
		if !ok {
			return fmt.Errorf("--login is only supported by the bugzilla backend")
		}
		creds, err := bugzilla.LoadCredentials(a.config.Tracker.CredentialsFile)
		if err != nil {
			return err
		}
		if err := client.Login(ctx, creds.Username, creds.Password); err != nil {
			return err
		}
		defer client.Logout(ctx)
	}

	runID := common.NewRunID()
	a.logger.Info().
		Str("runId", runID).
		Str("tracker", a.tracker.Name()).
		Int("queries", len(a.queries)).
		Msg("Starting run")

	issues, err := a.runner.Run(ctx, a.queries)
	if err != nil {
		return err
	}

	if a.options.Output {
		if err := report.WriteIssues(a.stdout, issues); err != nil {
			return fmt.Errorf("failed to write issue dump: %w", err)
		}
	}

	if a.options.NoPlot && !a.options.Report {
		return nil
	}

	field := a.options.PlotField
	counts := report.Aggregate(issues, field)
	title := chart.BuildTitle(a.queries, field)
	annotation := chart.ProductAnnotation(a.queries)

	if !a.options.NoPlot {
		if err := report.WriteCounts(a.stdout, field, counts); err != nil {
			return fmt.Errorf("failed to write counts: %w", err)
		}
		if a.options.Save {
			if _, err := a.renderer.Save(counts, title, annotation, field); err != nil {
				return err
			}
		}
	}

	if a.options.Report {
		runReport := report.NewRunReport(runID, a.tracker.Name(), field, len(issues), counts)
		if _, err := runReport.Save(a.config.Report.Dir); err != nil {
			return err
		}
		if _, err := a.renderer.SavePDF(counts, title, annotation, field, runID, len(issues), a.config.Report.Dir); err != nil {
			return err
		}
	}

	return nil
}
