package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	scheduler "github.com/TudorHulban/goalscheduler"
	"github.com/TudorHulban/goalscheduler/internal/request"
)

const envPrefix = "PLANNER"

type options struct {
	config *viper.Viper

	cfgFile string
	format  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := options{
		config: viper.New(),
	}

	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Place goal tasks into workday time blocks",
		Long: `planner reads a plan request (settings, tasks, busy slots) from a YAML file
and prints where every task goes, or why it could not be placed.

Defaults for the workday come from the config file (default ./planner.yaml)
and PLANNER_* environment variables:
  workday_start, workday_end, lunch_start_hour, lunch_end_hour,
  allow_weekends, max_weekday_minutes, max_weekend_minutes,
  weekend_affinity_weight, long_task_minutes`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./planner.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "output", "o", "yaml", "output format: yaml or json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(newScheduleCmd(&opts))
	rootCmd.AddCommand(newDepsCmd(&opts))

	return rootCmd
}

// initConfig reads the config file, when there is one, and environment variables.
func (o *options) initConfig() error {
	defaults := request.DefaultDefaults()

	o.config.SetDefault("workday_start", defaults.WorkdayStart)
	o.config.SetDefault("workday_end", defaults.WorkdayEnd)
	o.config.SetDefault("lunch_start_hour", defaults.LunchStartHour)
	o.config.SetDefault("lunch_end_hour", defaults.LunchEndHour)
	o.config.SetDefault("allow_weekends", false)
	o.config.SetDefault("max_weekday_minutes", 0)
	o.config.SetDefault("max_weekend_minutes", 0)
	o.config.SetDefault("weekend_affinity_weight", 0)
	o.config.SetDefault("long_task_minutes", 0)

	if o.cfgFile != "" {
		o.config.SetConfigFile(o.cfgFile)
	} else {
		o.config.AddConfigPath(".")
		o.config.SetConfigType("yaml")
		o.config.SetConfigName("planner")
	}

	o.config.SetEnvPrefix(envPrefix)
	o.config.AutomaticEnv()

	if errRead := o.config.ReadInConfig(); errRead != nil {
		if _, notFound := errRead.(viper.ConfigFileNotFoundError); !notFound || o.cfgFile != "" {
			return fmt.Errorf("read config: %w", errRead)
		}
	}

	return nil
}

func (o *options) defaults() *request.Defaults {
	return &request.Defaults{
		WorkdayStart:          o.config.GetString("workday_start"),
		WorkdayEnd:            o.config.GetString("workday_end"),
		LunchStartHour:        o.config.GetInt("lunch_start_hour"),
		LunchEndHour:          o.config.GetInt("lunch_end_hour"),
		MaxWeekdayMinutes:     o.config.GetInt("max_weekday_minutes"),
		MaxWeekendMinutes:     o.config.GetInt("max_weekend_minutes"),
		WeekendAffinityWeight: o.config.GetInt("weekend_affinity_weight"),
		AllowWeekends:         o.config.GetBool("allow_weekends"),
	}
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}

	return slog.New(
		slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{
				Level: level,
			},
		),
	)
}

func (o *options) planner() (*scheduler.Planner, error) {
	return scheduler.NewPlanner(
		&scheduler.ParamsNewPlanner{
			Logger:          o.logger(),
			LongTaskMinutes: o.config.GetInt("long_task_minutes"),
		},
	)
}

func newScheduleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <request.yaml>",
		Short: "Place the tasks of a plan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, errLoad := request.LoadFile(args[0], opts.defaults())
			if errLoad != nil {
				return errLoad
			}

			planner, errPlanner := opts.planner()
			if errPlanner != nil {
				return errPlanner
			}

			response, errSchedule := planner.Schedule(params)
			if errSchedule != nil {
				return errSchedule
			}

			return request.Write(
				cmd.OutOrStdout(),
				request.NewResponseDocument(response),
				request.Format(opts.format),
			)
		},
	}
}

func newDepsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <request.yaml>",
		Short: "Print the resolved dependency map of a plan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, errLoad := request.LoadFile(args[0], opts.defaults())
			if errLoad != nil {
				return errLoad
			}

			dependencies, errBuild := scheduler.BuildDependencyMap(
				&scheduler.ParamsBuildDependencies{
					Tasks:  params.Tasks,
					Hints:  params.DependencyHints,
					Logger: opts.logger(),
				},
			)
			if errBuild != nil {
				return errBuild
			}

			return request.Write(
				cmd.OutOrStdout(),
				dependencies,
				request.Format(opts.format),
			)
		},
	}
}
