package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"space-mission-pipeline/internal/api"
	"space-mission-pipeline/internal/api/handler"
	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/internal/pipeline"
	"space-mission-pipeline/pkg/router"
	"space-mission-pipeline/pkg/utils"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Space mission analytics: ingestion, queries and cached NASA feeds",
		Long: `missions loads the space missions dataset into SQLite, answers filtered
queries and aggregates over it, and keeps a TTL cache of NASA feeds.

Configuration comes from --config (YAML), then MISSIONS_* / NASA_API_KEY / LOG_LEVEL
environment variables.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSchemaCmd(opts),
		newLoadCmd(opts),
		newRunsCmd(opts),
		newQueryCmd(opts),
		newExportCmd(opts),
		newRefreshCmd(opts),
	)
	return cmd
}

// withApp builds the app for one command and tears it down afterwards
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts.configPath, opts.logLevel)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr      string
		bootstrap bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if addr == "" {
					addr = a.cfg.API.Addr
				}
				if bootstrap {
					if err := a.bootstrap(ctx); err != nil {
						return err
					}
				}

				h := handler.New(handler.Deps{
					Missions: a.analytics,
					Loader:   a.pipeline,
					Runs:     a.store,
					Feeds:    a.feeds,
					Output:   utils.NewOutputManager(a.cfg.API.ExportDir),
					Logger:   a.logger,

					DefaultSource: a.cfg.Ingest.Source,
					SourceDir:     a.cfg.API.SourceDir,
				})
				r := router.New(router.WithLogger(a.logger), router.WithColor(a.cfg.Log.Format != "json"))
				api.RegisterRoutes(r, h)
				return r.ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&bootstrap, "bootstrap", true, "load the source into an empty database and warm the feed cache")
	return cmd
}

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the collections and indexes if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				a.logger.Info("schema ready", "path", a.cfg.Database.Path)
				return nil
			})
		},
	}
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	var (
		source   string
		truncate bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Ingest the missions dataset",
		Long: `Load reads the source dataset (a local path or http(s) URL, optionally .gz),
validates every row and upserts the valid ones. The load report is printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var loadOpts []pipeline.LoadOption
				if truncate {
					loadOpts = append(loadOpts, pipeline.WithTruncate())
				}
				report, err := a.pipeline.LoadMissions(ctx, source, loadOpts...)
				if report.RunID != "" {
					if perr := printJSON(report); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "dataset path or URL (default from config)")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "remove every mission before loading")
	return cmd
}

func newRunsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List load runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if len(args) == 1 {
					report, err := a.store.GetLoadRun(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(report)
				}
				reports, err := a.store.ListLoadRuns(ctx, limit)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RUN ID\tSTATUS\tREAD\tLOADED\tREJECTED\tSTARTED")
				for _, r := range reports {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
						r.RunID, r.Status, r.RowsRead, r.RowsLoaded, r.RowsRejected, r.StartedAt.Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}

// filterFlags binds the mission filter flags shared by query and export
type filterFlags struct {
	missionTypes []string
	targetTypes  []string
	vehicles     []string
	yearMin      int
	yearMax      int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.missionTypes, "mission-type", nil, "mission types to include")
	cmd.Flags().StringSliceVar(&f.targetTypes, "target-type", nil, "target types to include")
	cmd.Flags().StringSliceVar(&f.vehicles, "vehicle", nil, "launch vehicles to include")
	cmd.Flags().IntVar(&f.yearMin, "year-min", 0, "first launch year (0 for no bound)")
	cmd.Flags().IntVar(&f.yearMax, "year-max", 0, "last launch year (0 for no bound)")
}

func (f *filterFlags) criteria() model.FilterCriteria {
	return model.FilterCriteria{
		MissionTypes: utils.SplitList(f.missionTypes),
		TargetTypes:  utils.SplitList(f.targetTypes),
		Vehicles:     utils.SplitList(f.vehicles),
		YearMin:      f.yearMin,
		YearMax:      f.yearMax,
	}
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		filters   filterFlags
		aggregate bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List missions or compute aggregates",
		Long: `Query filters missions by type, target, vehicle and launch year range.

Examples:
  missions query --mission-type Rover --year-min 2000 --year-max 2025
  missions query --target-type Planet,Moon --aggregate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				criteria := filters.criteria()
				if aggregate {
					result, err := a.analytics.ComputeAggregates(ctx, criteria)
					if err != nil {
						return err
					}
					return printJSON(result)
				}

				missions, err := a.analytics.ListMissions(ctx, criteria)
				if err != nil {
					return err
				}
				if output == "json" {
					return printJSON(missions)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tLAUNCH\tTARGET\tTYPE\tVEHICLE\tCOST (B USD)\tSUCCESS %")
				for _, m := range missions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t%s\t%s\t%.2f\t%.1f\n",
						m.MissionID, m.MissionName, m.LaunchDate, m.TargetName, m.TargetType,
						m.MissionType, m.LaunchVehicle, m.CostBillionUSD, m.SuccessPct)
				}
				return w.Flush()
			})
		},
	}
	filters.bind(cmd)
	cmd.Flags().BoolVar(&aggregate, "aggregate", false, "print aggregate figures instead of rows")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "row output: table or json")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered missions to the export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pipeline.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				missions, err := a.analytics.ListMissions(ctx, filters.criteria())
				if err != nil {
					return err
				}
				result, err := pipeline.ExportToFile(utils.NewOutputManager(a.cfg.API.ExportDir), "missions", f, missions)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
	filters.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json or parquet")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Warm the NASA feed cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				summary, err := a.feeds.RefreshAll(ctx)
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}
}
