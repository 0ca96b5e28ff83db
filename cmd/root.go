package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	logger "github.com/PolarWolf314/stowaway/internal/logging"
	"github.com/PolarWolf314/stowaway/internal/ui"
)

var (
	verbose    bool
	debug      bool
	configFile string
	Logger     logger.Logger

	// newRuntime builds the runtime driving the environment. Tests replace it.
	newRuntime = func(cfg configs.Config) container.Runtime {
		return container.NewCLI(cfg.Runtime, Logger)
	}

	RootCmd = &cobra.Command{
		Use:   "stowaway <path> [secret]",
		Short: "Encrypt or decrypt a file inside a dedicated container",
		Long: `stowaway sends a single file to a long-lived container running an
encryption binary, brings the result back, and leaves both the container
and the host clean.

The result is written to the working directory. Encrypting secret.txt
produces secret.enc and deletes secret.txt; decrypting secret.enc produces
the original file and keeps secret.enc.

When no secret is given on the command line it is read from the terminal
without echo.

Examples:
  stowaway secret.txt                 # Encrypt, prompting for the password
  stowaway secret.enc                 # Decrypt
  stowaway --container pman secret.txt
  stowaway secret.txt --report job.yaml`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		RunE: runDispatch,
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/stowaway/config.toml)")
	RootCmd.PersistentFlags().String("container", "", "container id or name, overrides environment_id")
	RootCmd.PersistentFlags().String("runtime", "", "container client binary, e.g. docker or podman")

	RootCmd.AddCommand(cleanCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI and returns the process exit code. SIGINT and
// SIGTERM cancel the running command; cleanup still runs.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, ui.Fail(err.Error()))
		}
		return 1
	}
	return 0
}

// loadConfig assembles the effective configuration for cmd: defaults, the
// config file, STOWAWAY_* variables and the --container/--runtime flags.
func loadConfig(cmd *cobra.Command) (configs.Config, error) {
	path := configFile
	if path == "" {
		path = configs.ConfigPath()
	}
	Logger.Debugf("Loading config from %s", path)

	cfg, err := configs.Load(path, configs.NewViper(cmd.Flags()))
	if err != nil {
		return configs.Config{}, err
	}
	return cfg, nil
}

// workingDir returns the directory results are written to.
func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configFile = ""
	resetDispatchState()
	resetCleanCommandState()
	resetConfigShowState()
	resetConfigInitState()
	resetLogCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed mark and value of every flag so
// tests do not leak flags into each other.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
