// Package main provides the otterxml command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/otterxml/internal/adapter"
	"github.com/inodb/otterxml/internal/duckdb"
	"github.com/inodb/otterxml/internal/otter"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".otterxml.yaml"

// Configuration keys.
const (
	keyAuthor      = "render.author"
	keyEmailDomain = "render.email_domain"
	keyStorePath   = "store.path"
	keyWorkers     = "workers"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		errColor.Fprintf(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, otter.ErrParse) {
			fmt.Fprintln(os.Stderr, "Hint: check that the input is a well-formed Otter XML document")
		}
		var usage usageError
		if errors.As(err, &usage) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks failures caused by bad arguments.
type usageError struct{ error }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "otterxml",
		Short: "Read, write and index Otter XML annotation documents",
		Long: `otterxml reads Otter XML genome-annotation documents, renders them back to
the Otter dialect, summarizes their genes and transcripts, and keeps a DuckDB
index of loaded documents for gene and range queries.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/"+configName+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newBoundsCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads the config file and environment. A missing config file is not an error.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(strings.TrimSuffix(configName, ".yaml"))
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OTTERXML")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(keyEmailDomain, otter.DefaultEmailDomain)
	viper.SetDefault(keyWorkers, 0)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// newAdapter creates an adapter configured from viper settings.
func newAdapter() *adapter.Adapter {
	a := adapter.New()
	a.SetLogger(logger)
	a.SetAuthor(viper.GetString(keyAuthor))
	a.SetEmailDomain(viper.GetString(keyEmailDomain))
	return a
}

// storePath returns the configured DuckDB path, defaulting to ~/.otterxml/otter.duckdb.
func storePath() (string, error) {
	if p := viper.GetString(keyStorePath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".otterxml", "otter.duckdb"), nil
}

func openStore() (*duckdb.Store, error) {
	path, err := storePath()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", zap.String("path", path))
	return duckdb.Open(path)
}

// openOutput returns stdout for "" or "-", else creates the named file.
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}
