package tapcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCommand generates a new CLI running the tests of the main registry.
func NewCommand(
	name string,
	description string,
	version string,
) *cobra.Command {

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix(name)
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	})

	var rootCmd = &cobra.Command{
		Use:   name,
		Short: description,
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Prints the version and exit.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	var cmdList = &cobra.Command{
		Use:           "list",
		Aliases:       []string{"ls"},
		Short:         "List registered tests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
	}

	var cmdListTests = &cobra.Command{
		Use:           "tests",
		Short:         "List registered tests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			suite := mainRegistry.Tests().TestsForTags(viper.GetStringSlice("tag"), viper.GetBool("match-all")).withOnly()
			return listTests(os.Stdout, suite, mainRegistry.currentHooks())
		},
	}

	cmdListTests.Flags().StringSliceP("tag", "t", nil, "Only list tests with the given tags")
	cmdListTests.Flags().BoolP("match-all", "M", false, "Match all tags specified")

	cmdList.AddCommand(cmdListTests)

	var cmdRunTests = &cobra.Command{
		Use:           "test",
		Aliases:       []string{"run"},
		Short:         "Run the registered tests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {

			logger, err := newLogger(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint
			zap.ReplaceGlobals(logger)

			ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("limit"))
			defer cancel()

			reportName := viper.GetString("xunit-name")
			if reportName == "" {
				reportName = filepath.Base(os.Args[0])
			}

			_, summary, err := Run(
				ctx,
				os.Stdout,
				OptionReportName(reportName),
				OptionXunitFile(viper.GetString("xunit-file")),
				OptionTags(viper.GetStringSlice("tag"), viper.GetBool("match-all")),
				OptionFatalEvents(notifyFatalSignals(ctx)),
			)
			if err != nil {
				return fmt.Errorf("unable to write xunit report: %w", err)
			}

			if !summary.Succeeded() {
				return ErrTestsFailed
			}

			return nil
		},
	}

	cmdRunTests.Flags().String("xunit-file", "", "Path of the xUnit report to write")
	cmdRunTests.Flags().String("xunit-name", "", "Name of the run in the xUnit report. Defaults to the program name")
	cmdRunTests.Flags().DurationP("limit", "l", 20*time.Minute, "Execution time limit")
	cmdRunTests.Flags().StringSliceP("tag", "t", nil, "Only run tests with the given tags")
	cmdRunTests.Flags().BoolP("match-all", "M", false, "Match all tags specified")
	cmdRunTests.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		versionCmd,
		cmdList,
		cmdRunTests,
	)

	return rootCmd
}

// newLogger returns a production logger writing to stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = lvl
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to build logger: %w", err)
	}

	return logger, nil
}
