// Package commands implements the hrfilter command line.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/snoozewise/hrfilter/internal/cli"
	"github.com/snoozewise/hrfilter/internal/constants"
	"github.com/snoozewise/hrfilter/internal/metrics"
	"github.com/snoozewise/hrfilter/internal/samples"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/ubuntu/decorate"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	JSONLogs  bool

	Input  string // Input is the JSON export to read samples from.
	Output string // Output is the JSON document the kept samples are written to.
	Cutoff string // Cutoff is the latest end date kept, as YYYY-MM-DD HH:MM:SS.
	DryRun bool
	Indent bool

	MetricsFile string // MetricsFile is where run metrics are written for a textfile collector, if set.
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName,
		Short: "Filter heart-rate samples up to a cutoff date",
		Long: `Filter heart-rate samples up to a cutoff date.

Samples are read from a JSON array of objects. Only the samples whose endDate is before or equal
to the cutoff are kept. Their id is removed and their startDate and endDate are rendered as
YYYY-MM-DD HH:MM:SS. Other fields are copied as is.

Settings can also be provided in a configuration file, or with ` + "`HRFILTER_`" + ` prefixed
environment variables.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config, cli.DecodeHook(samples.CutoffLayout)); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}
			slog.Debug("got app config", "config", a.config)

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Update logging after loading config if necessary
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.validate(); err != nil {
				a.cmd.SilenceUsage = false
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cmd.SilenceUsage = true

			return a.run()
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}
	if err := a.bindRootFlags(); err != nil {
		return nil, err
	}

	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")

	cmd.Flags().StringVarP(&app.config.Input, "input", "i", constants.DefaultInputPath, "JSON file to read the heart-rate samples from")
	cmd.Flags().StringVarP(&app.config.Output, "output", "o", constants.DefaultOutputPath, "JSON file to write the filtered samples to")
	cmd.Flags().StringVarP(&app.config.Cutoff, "cutoff", "c", constants.DefaultCutoff, "keep samples ending before or at this date, as YYYY-MM-DD HH:MM:SS")
	cmd.Flags().BoolVarP(&app.config.DryRun, "dry-run", "d", false, "filter the samples, but do not write the output file")
	cmd.Flags().BoolVar(&app.config.Indent, "indent", false, "pretty-print the output file")
	cmd.Flags().StringVar(&app.config.MetricsFile, "metrics-file", "", "write run metrics in the Prometheus text format to this file")

	if err := cmd.MarkFlagFilename("input", "json"); err != nil {
		panic(fmt.Errorf("failed to mark input flag as filename: %w", err))
	}
	if err := cmd.MarkFlagFilename("output", "json"); err != nil {
		panic(fmt.Errorf("failed to mark output flag as filename: %w", err))
	}
}

// bindRootFlags binds the command flags to their configuration keys.
func (a *App) bindRootFlags() error {
	keys := map[string]*pflag.Flag{
		"verbosity":   a.cmd.PersistentFlags().Lookup("verbose"),
		"jsonlogs":    a.cmd.PersistentFlags().Lookup("json-logs"),
		"input":       a.cmd.Flags().Lookup("input"),
		"output":      a.cmd.Flags().Lookup("output"),
		"cutoff":      a.cmd.Flags().Lookup("cutoff"),
		"dryrun":      a.cmd.Flags().Lookup("dry-run"),
		"indent":      a.cmd.Flags().Lookup("indent"),
		"metricsfile": a.cmd.Flags().Lookup("metrics-file"),
	}
	for key, flag := range keys {
		if err := a.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("could not bind flag for %q: %w", key, err)
		}
	}
	return nil
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// validate checks the settings which can't be checked by the flag parser.
func (c appConfig) validate() error {
	if c.Input == "" {
		return errors.New("input path can't be empty")
	}
	if c.Output == "" {
		return errors.New("output path can't be empty")
	}
	if _, err := samples.ParseCutoff(c.Cutoff); err != nil {
		return fmt.Errorf("invalid cutoff: %w", err)
	}
	return nil
}

func (a *App) run() (err error) {
	defer decorate.OnError(&err, "could not filter heart-rate samples")

	start := time.Now()
	log := slog.Default().With("run", uuid.NewString())
	c := a.config

	cutoff, err := samples.ParseCutoff(c.Cutoff)
	if err != nil {
		return err
	}

	records, err := samples.Load(c.Input)
	if err != nil {
		return err
	}
	log.Info("Loaded samples", "input", c.Input, "records", len(records))

	kept, err := samples.Run(records, cutoff, samples.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("Filtered samples", "cutoff", c.Cutoff, "kept", len(kept), "dropped", len(records)-len(kept))

	if c.DryRun {
		log.Info("Dry run, not writing filtered samples", "output", c.Output)
		return a.writeMetrics(log, len(records), len(kept), start)
	}

	indent := ""
	if c.Indent {
		indent = constants.OutputIndent
	}
	if err := samples.Save(c.Output, kept, indent); err != nil {
		return err
	}
	log.Debug("Saved filtered samples", "output", c.Output, "indent", c.Indent)

	if err := a.writeMetrics(log, len(records), len(kept), start); err != nil {
		return err
	}

	fmt.Fprintf(a.cmd.OutOrStdout(), "Filtered data saved to: %s\n", c.Output)
	return nil
}

// writeMetrics writes the metrics of a successful run, if a metrics file is configured.
func (a *App) writeMetrics(log *slog.Logger, records, kept int, start time.Time) error {
	if a.config.MetricsFile == "" {
		return nil
	}

	now := time.Now()
	m := metrics.New()
	m.Observe(records, kept, now.Sub(start), now)
	if err := m.WriteTextfile(a.config.MetricsFile); err != nil {
		return err
	}
	log.Debug("Wrote run metrics", "path", a.config.MetricsFile)
	return nil
}
