// Command stats19 builds the tidy one-row-per-casualty table for a DfT
// road-safety release. The CLI layer stays thin: it loads the pipeline
// config, applies flag overrides, optionally wires a metrics backend, and
// runs the pipeline. It never imports database drivers or backend-specific
// packages directly.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"stats19/internal/config"
	"stats19/internal/metrics"
	"stats19/internal/metrics/prompush"
	"stats19/internal/pipeline"
	"stats19/internal/probe"

	// register all sink backends with the factory.
	_ "stats19/internal/sink/all"
)

func main() {
	root := &cobra.Command{
		Use:           "stats19",
		Short:         "STATS19 road-safety release to tidy casualty table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newProbeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared between run and probe.
type commonFlags struct {
	cfgPath   string
	sourceDir string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cfgPath, "config", "", "pipeline config JSON path (optional; defaults apply)")
	cmd.Flags().StringVar(&f.sourceDir, "source-dir", "", "release directory holding the three input tables (overrides config)")
}

// load builds the effective pipeline from config file plus flag overrides.
func (f *commonFlags) load() (config.Pipeline, error) {
	var cfg config.Pipeline
	if f.cfgPath != "" {
		var err error
		cfg, err = config.Load(f.cfgPath)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg.SetDefaults()
		cfg.Source.Dir = "data/raw/dft_road_safety_last_5_years"
	}
	if f.sourceDir != "" {
		cfg.Source.Dir = f.sourceDir
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var (
		flags          commonFlags
		outPath        string
		format         string
		dsn            string
		tbl            string
		validate       bool
		metricsBackend string
		pushGatewayURL string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and write the tidy casualty table for one release",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Sink.Kind = format
			}
			if outPath != "" {
				cfg.Sink.Path = outPath
			}
			if dsn != "" {
				cfg.Sink.DSN = dsn
			}
			if tbl != "" {
				cfg.Sink.Table = tbl
			}

			issues := config.ValidatePipeline(cfg)
			hasError := false
			for _, iss := range issues {
				fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
				if iss.Severity == config.SeverityError {
					hasError = true
				}
			}
			if hasError {
				return fmt.Errorf("configuration is invalid")
			}
			if validate {
				log.Printf("configuration is valid")
				return nil
			}

			setupMetrics(metricsBackend, pushGatewayURL, cfg.Job)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush: %v", err)
				}
			}()

			sum, err := pipeline.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s with %s rows and %d columns\n",
				sum.Output, humanize.Comma(int64(sum.Rows)), sum.Columns)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "output path for file sinks (overrides config)")
	cmd.Flags().StringVar(&format, "format", "", "sink kind: csv, sqlite, postgres, mysql, mssql (overrides config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "connection string for database sinks (overrides config)")
	cmd.Flags().StringVar(&tbl, "table", "", "destination table for database sinks (overrides config)")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the configuration and exit")
	cmd.Flags().StringVar(&metricsBackend, "metrics-backend", "", "metrics backend to use (pushgateway, none; env METRICS_BACKEND)")
	cmd.Flags().StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	return cmd
}

func newProbeCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report a release's schema and how it resolves against the field catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			rep, err := probe.Inspect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rep.WriteText(os.Stdout)
			if unknown := rep.Unknown(); len(unknown) > 0 {
				fmt.Println()
				for role, cols := range unknown {
					fmt.Printf("%s: %d columns not in the field catalog\n", role, len(cols))
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// setupMetrics decides the metrics backend: flag, then env, then disabled.
func setupMetrics(backendName, gatewayURL, job string) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job=%v", gatewayURL, backendName, job)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}
