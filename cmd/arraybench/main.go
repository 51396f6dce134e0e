package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavanmanishd/fixedarray/internal/config"
	"github.com/pavanmanishd/fixedarray/internal/driver"
)

const version = "0.1.0"

// errViolation marks a run that ended in a fatal array violation. The
// report has already been written; main only sets the exit status.
var errViolation = errors.New("fatal array violation")

// cli holds the state shared by the commands of one invocation.
type cli struct {
	configPath string
	v          *viper.Viper
	cfg        config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps the result of a run to the process exit status. Violations
// have already been reported, so only other errors are printed.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errViolation) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "arraybench",
		Short: "Exercise fixed-capacity arrays and report their memory counters",
		Long: `arraybench drives fixedarray arrays through scripted operations and
search workloads, then reports the reads, writes, allocations and
deallocations each run performed.

Settings come from flags, ARRAYBENCH_* environment variables and an
optional YAML config file, in that order of precedence.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to configuration file")
	flags.String("output", "human", "Output format (human, json, yaml)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("storage", "heap", "Backing storage (heap, arena, mmap)")
	flags.Int("chunk-size", 1<<16, "Arena chunk size in bytes")
	for key, name := range map[string]string{
		config.KeyOutput:    "output",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
		config.KeyStorage:   "storage",
		config.KeyChunkSize: "chunk-size",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(c.newScenarioCommand())
	rootCmd.AddCommand(c.newSearchCommand())
	rootCmd.AddCommand(c.newRunCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.v, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *cli) env(cmd *cobra.Command) driver.Env {
	return driver.Env{
		Storage:   c.cfg.Storage,
		ChunkSize: c.cfg.ChunkSize,
		Logger:    c.cfg.Logger(cmd.ErrOrStderr()),
	}
}

func (c *cli) newScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Run the reference scenario, ending in an out-of-bounds read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd, driver.DefaultScenario())
		},
	}
}

func (c *cli) newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a YAML script of array operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			script, err := driver.LoadScript(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return c.runScript(cmd, script)
		},
	}
}

func (c *cli) runScript(cmd *cobra.Command, script *driver.Script) error {
	report, err := driver.RunScript(cmd.Context(), c.env(cmd), script)
	if err != nil {
		return err
	}
	if err := driver.Write(cmd.OutOrStdout(), c.cfg.Output, report); err != nil {
		return err
	}
	if report.Violation != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "fatal: %s\n", report.Violation)
		return errViolation
	}
	return nil
}

func (c *cli) newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Compare linear and binary search read counts on sorted arrays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := driver.CompareSearch(cmd.Context(), c.env(cmd), driver.SearchOptions{
				Size:   c.cfg.Size,
				Trials: c.cfg.Trials,
				Seed:   c.cfg.Seed,
			})
			if err != nil {
				return err
			}
			return driver.Write(cmd.OutOrStdout(), c.cfg.Output, report)
		},
	}

	flags := cmd.Flags()
	flags.Int("size", 1024, "Number of elements per array")
	flags.Int("trials", 4, "Number of independent trials")
	flags.Uint64("seed", 1, "Random seed")
	_ = c.v.BindPFlag(config.KeySize, flags.Lookup("size"))
	_ = c.v.BindPFlag(config.KeyTrials, flags.Lookup("trials"))
	_ = c.v.BindPFlag(config.KeySeed, flags.Lookup("seed"))
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "arraybench version %s\n", version)
		},
	}
}
