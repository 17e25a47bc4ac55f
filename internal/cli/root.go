// Package cli implements the carboncam command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "CARBONCAM_CONFIG"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	output     string
	scope      string
}

// state is filled in by the root PersistentPreRunE.
type state struct {
	flags  globalFlags
	cfg    config.Config
	logger *logging.Logger
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	return NewRootCmdWithEnv(version, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment lookup.
func NewRootCmdWithEnv(version string, lookupEnv func(string) (string, bool)) *cobra.Command {
	st := &state{}

	cmd := &cobra.Command{
		Use:           "carboncam",
		Short:         "Energy and carbon footprint of CNC machining operations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Run the HTTP API
  carboncam serve --config carboncam.yaml

  # Calculate one operation
  carboncam calculate --machine cnc_1 --material mat_4140 --initial 10 --final 9.2 --time 30

  # Process a batch file and write the results next to it
  carboncam batch --input parts.csv --out Results.csv

  # Print the empty batch template
  carboncam template > Template.csv`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd, lookupEnv)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if st.logger != nil {
				return st.logger.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&st.flags.configPath, "config", "", "path to a YAML config file (env "+EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&st.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVarP(&st.flags.output, "output", "o", "",
		"output format: table or json (default table on a terminal, json otherwise)")
	cmd.PersistentFlags().StringVar(&st.flags.scope, "org", "", "organization scope for custom profiles")

	cmd.AddCommand(
		newServeCmd(st),
		newCalculateCmd(st),
		newBatchCmd(st),
		newTemplateCmd(),
		newProfilesCmd(st, "machines"),
		newProfilesCmd(st, "materials"),
	)
	return cmd
}

func (st *state) setup(cmd *cobra.Command, lookupEnv func(string) (string, bool)) error {
	path := st.flags.configPath
	if path == "" {
		if v, ok := lookupEnv(EnvConfigPath); ok {
			path = strings.TrimSpace(v)
		}
	}

	bootstrap := zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel)
	cfg, err := config.Load(path, bootstrap)
	if err != nil {
		return err
	}
	if st.flags.logLevel != "" {
		cfg.Logging.Level = st.flags.logLevel
	}

	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	switch st.flags.output {
	case "":
		st.flags.output = OutputJSON
		if isTerminal(cmd.OutOrStdout()) {
			st.flags.output = OutputTable
		}
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", st.flags.output, OutputTable, OutputJSON)
	}

	st.cfg = cfg
	st.logger = logger
	return nil
}
